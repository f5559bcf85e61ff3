package domain

import "time"

// Webhook is a subscription to one event type: every event of that type
// is delivered to the URL as a JSON POST.
type Webhook struct {
	WebhookID string    `json:"webhook_id"`
	Event     string    `json:"event"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var validWebhookEvents = map[string]bool{
	EventOrderAccepted:        true,
	EventOrderUpdated:         true,
	EventOrderDeleted:         true,
	EventOrderRejected:        true,
	EventOrderExecuted:        true,
	EventOrderActivated:       true,
	EventTradeExecuted:        true,
	EventOpeningPriceSet:      true,
	EventSecurityStateChanged: true,
	EventStateChangeRejected:  true,
}

// ValidWebhookEvent reports whether the event name is a subscribable
// event type.
func ValidWebhookEvent(event string) bool {
	return validWebhookEvents[event]
}
