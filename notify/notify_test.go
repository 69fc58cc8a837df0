package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auroraml/aurora/notify"
)

func TestWebhookNotifier_Send(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(srv.URL)
	err := n.Send(context.Background(), notify.Alert{
		Title:    "retrain",
		Message:  "accuracy dropped below threshold",
		Category: "Pipeline Alert",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received["subject"] != "AURORA System Alert: retrain" {
		t.Errorf("subject = %v", received["subject"])
	}
	if received["category"] != "Pipeline Alert" {
		t.Errorf("category = %v", received["category"])
	}
	if received["message"] != "accuracy dropped below threshold" {
		t.Errorf("message = %v", received["message"])
	}
	if received["timestamp"] == "" {
		t.Error("timestamp missing")
	}
}

func TestWebhookNotifier_DefaultCategory(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(srv.URL)
	if err := n.Send(context.Background(), notify.Alert{Title: "scale", Message: "load spike"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if received["category"] != "System Alert" {
		t.Errorf("category = %v, want default", received["category"])
	}
}

func TestWebhookNotifier_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(srv.URL)
	err := n.Send(context.Background(), notify.Alert{Title: "alert", Message: "m"})
	if err == nil {
		t.Fatal("expected error for 502")
	}
}

func TestWebhookNotifier_Unreachable(t *testing.T) {
	n := notify.NewWebhookNotifier("http://127.0.0.1:1")
	if err := n.Send(context.Background(), notify.Alert{Title: "alert", Message: "m"}); err == nil {
		t.Fatal("expected connection error")
	}
}
