package service

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/store"
)

func newTestWebhookService() *WebhookService {
	return NewWebhookService(store.NewWebhookStore(), 2*time.Second)
}

func TestWebhookUpsert_Validation(t *testing.T) {
	svc := newTestWebhookService()

	cases := []struct {
		name string
		req  UpsertWebhookRequest
	}{
		{"empty url", UpsertWebhookRequest{URL: "", Events: []string{domain.EventOrderExecuted}}},
		{"relative url", UpsertWebhookRequest{URL: "/hook", Events: []string{domain.EventOrderExecuted}}},
		{"bad scheme", UpsertWebhookRequest{URL: "ftp://example.com/hook", Events: []string{domain.EventOrderExecuted}}},
		{"no events", UpsertWebhookRequest{URL: "https://example.com/hook", Events: nil}},
		{"unknown event", UpsertWebhookRequest{URL: "https://example.com/hook", Events: []string{"order.settled"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Upsert(tc.req)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if got := svc.List(); len(got) != 0 {
		t.Errorf("expected no webhooks after failed upserts, got %d", len(got))
	}
}

func TestWebhookUpsert_CreatesPerEventAndDeduplicates(t *testing.T) {
	svc := newTestWebhookService()

	webhooks, created, err := svc.Upsert(UpsertWebhookRequest{
		URL: "https://example.com/hook",
		Events: []string{
			domain.EventOrderExecuted,
			domain.EventTradeExecuted,
			domain.EventOrderExecuted, // duplicate in the request
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected first upsert to create")
	}
	if len(webhooks) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(webhooks))
	}

	// Repeating the request keeps the existing ids.
	again, created, err := svc.Upsert(UpsertWebhookRequest{
		URL:    "https://example.com/hook",
		Events: []string{domain.EventOrderExecuted, domain.EventTradeExecuted},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected repeated upsert not to create")
	}
	if again[0].WebhookID != webhooks[0].WebhookID || again[1].WebhookID != webhooks[1].WebhookID {
		t.Error("expected webhook ids to remain stable across upserts")
	}
}

func TestWebhookDelete(t *testing.T) {
	svc := newTestWebhookService()

	webhooks, _, err := svc.Upsert(UpsertWebhookRequest{
		URL:    "https://example.com/hook",
		Events: []string{domain.EventOrderExecuted},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(webhooks[0].WebhookID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(webhooks[0].WebhookID); !errors.Is(err, domain.ErrWebhookNotFound) {
		t.Errorf("expected ErrWebhookNotFound, got %v", err)
	}
}

func TestWebhookPublish_DeliversToSubscribers(t *testing.T) {
	type delivery struct {
		headers http.Header
		body    []byte
	}
	received := make(chan delivery, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- delivery{headers: r.Header.Clone(), body: body}
	}))
	defer server.Close()

	svc := newTestWebhookService()
	webhooks, _, err := svc.Upsert(UpsertWebhookRequest{
		URL:    server.URL,
		Events: []string{domain.EventOrderExecuted},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.Publish(domain.OrderExecuted{
		RequestID: 1,
		OrderID:   7,
		Trades:    []domain.TradeSummary{{Price: 100, Quantity: 5, BuyOrderID: 7, SellOrderID: 3}},
	})

	var got delivery
	select {
	case got = <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	if ct := got.headers.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	if id := got.headers.Get("X-Webhook-Id"); id != webhooks[0].WebhookID {
		t.Errorf("expected webhook id header %q, got %q", webhooks[0].WebhookID, id)
	}
	if ev := got.headers.Get("X-Event-Type"); ev != domain.EventOrderExecuted {
		t.Errorf("expected event type header, got %q", ev)
	}
	if got.headers.Get("X-Delivery-Id") == "" {
		t.Error("expected a delivery id header")
	}

	var payload struct {
		Event     string `json:"event"`
		Timestamp string `json:"timestamp"`
		Data      struct {
			OrderID uint64 `json:"order_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(got.body, &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.Event != domain.EventOrderExecuted {
		t.Errorf("expected event name in envelope, got %q", payload.Event)
	}
	if payload.Data.OrderID != 7 {
		t.Errorf("expected order id 7 in payload, got %d", payload.Data.OrderID)
	}
	if _, err := time.Parse(time.RFC3339, payload.Timestamp); err != nil {
		t.Errorf("expected RFC3339 timestamp, got %q", payload.Timestamp)
	}
}

func TestWebhookPublish_SkipsOtherEvents(t *testing.T) {
	received := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
	}))
	defer server.Close()

	svc := newTestWebhookService()
	if _, _, err := svc.Upsert(UpsertWebhookRequest{
		URL:    server.URL,
		Events: []string{domain.EventTradeExecuted},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.Publish(domain.OrderAccepted{RequestID: 1, OrderID: 1})

	select {
	case <-received:
		t.Fatal("expected no delivery for an unsubscribed event type")
	case <-time.After(100 * time.Millisecond):
	}
}
