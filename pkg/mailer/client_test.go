package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "https://mail.example.com", "orders@example.com"); err == nil {
		t.Fatal("blank api key should be rejected")
	}
	if _, err := NewClient("key", "", "orders@example.com"); err == nil {
		t.Fatal("blank base url should be rejected")
	}
}

func TestSendOrderConfirmation(t *testing.T) {
	var captured map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-1" {
			t.Fatalf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewClient("key-1", srv.URL, "orders@example.com")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.SendOrderConfirmation(context.Background(), OrderConfirmation{
		To:          "buyer@example.com",
		OrderNumber: "ORD-1A2B3C4D",
		TotalAmount: decimal.RequireFromString("149.50"),
		ItemCount:   3,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if captured["to"] != "buyer@example.com" {
		t.Fatalf("recipient not forwarded: %v", captured)
	}
	if captured["subject"] != "Order Confirmation - ORD-1A2B3C4D" {
		t.Fatalf("unexpected subject %q", captured["subject"])
	}
}

func TestSendOrderConfirmationProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient("key-1", srv.URL, "orders@example.com")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.SendOrderConfirmation(context.Background(), OrderConfirmation{
		To:          "buyer@example.com",
		OrderNumber: "ORD-00000001",
		TotalAmount: decimal.Zero,
	}); err == nil {
		t.Fatal("provider failure should surface as an error")
	}
}
