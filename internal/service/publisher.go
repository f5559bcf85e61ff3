package service

import (
	"log/slog"

	"github.com/efreitasn/matchcore/internal/domain"
)

// LoggingPublisher logs every event and forwards it to the next
// publisher in the chain.
type LoggingPublisher struct {
	log  *slog.Logger
	next domain.Publisher
}

func NewLoggingPublisher(log *slog.Logger, next domain.Publisher) *LoggingPublisher {
	return &LoggingPublisher{log: log, next: next}
}

func (p *LoggingPublisher) Publish(e domain.Event) {
	p.log.Info("event published", "event", e.EventType(), "payload", e)
	p.next.Publish(e)
}
