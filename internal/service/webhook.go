package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/efreitasn/matchcore/internal/domain"
	"github.com/efreitasn/matchcore/internal/store"
	"github.com/google/uuid"
)

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	URL    string
	Events []string
}

// WebhookService handles webhook CRUD and event dispatch. It implements
// domain.Publisher: every event the core produces is delivered to each
// URL subscribed to its type.
type WebhookService struct {
	store  *store.WebhookStore
	client *http.Client
}

// NewWebhookService creates a new WebhookService with the given dependencies.
func NewWebhookService(webhookStore *store.WebhookStore, webhookTimeout time.Duration) *WebhookService {
	return &WebhookService{
		store: webhookStore,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

// Upsert validates the request and creates or updates one subscription
// per event type. Returns the resulting webhooks and whether any new
// subscriptions were created.
func (s *WebhookService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if req.URL == "" {
		return nil, false, &domain.ValidationError{Reasons: []string{"url is required"}}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Reasons: []string{"url must be at most 2048 characters"}}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Reasons: []string{"url must be a valid absolute URL"}}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Reasons: []string{"url must use http or https scheme"}}
	}
	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Reasons: []string{"events must be a non-empty array"}}
	}

	// Deduplicate events while preserving order and validating.
	seen := make(map[string]bool, len(req.Events))
	deduped := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !domain.ValidWebhookEvent(event) {
			return nil, false, &domain.ValidationError{
				Reasons: []string{"unknown event type: " + event},
			}
		}
		if !seen[event] {
			seen[event] = true
			deduped = append(deduped, event)
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(deduped))

	for _, event := range deduped {
		w := &domain.Webhook{
			WebhookID: uuid.New().String(),
			Event:     event,
			URL:       req.URL,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if s.store.Upsert(w) {
			anyCreated = true
			webhooks = append(webhooks, w)
			continue
		}
		// Fetch the surviving subscription to return it.
		for _, existing := range s.store.ListByEvent(event) {
			if existing.URL == req.URL {
				webhooks = append(webhooks, existing)
				break
			}
		}
	}

	return webhooks, anyCreated, nil
}

// List returns all webhook subscriptions.
func (s *WebhookService) List() []*domain.Webhook {
	return s.store.List()
}

// Delete removes a webhook subscription by ID.
func (s *WebhookService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// eventPayload is the JSON envelope delivered to subscribers.
type eventPayload struct {
	Event     string       `json:"event"`
	Timestamp string       `json:"timestamp"`
	Data      domain.Event `json:"data"`
}

// Publish delivers the event to every subscriber of its type.
// Fire-and-forget: delivery failures are silently ignored.
func (s *WebhookService) Publish(e domain.Event) {
	subscribers := s.store.ListByEvent(e.EventType())
	if len(subscribers) == 0 {
		return
	}

	payload := eventPayload{
		Event:     e.EventType(),
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Data:      e,
	}
	for _, wh := range subscribers {
		go s.deliver(wh, e.EventType(), payload)
	}
}

// deliver sends the webhook payload via HTTP POST with the required headers.
func (s *WebhookService) deliver(wh *domain.Webhook, eventType string, payload eventPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", eventType)

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
