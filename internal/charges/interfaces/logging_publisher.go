package interfaces

import (
	"context"
	"errors"
	"log"

	"charges-hub/internal/charges/application/events"
)

// LoggingPublisher logs receipt events. Used when no outbox is configured.
type LoggingPublisher struct {
	logger *log.Logger
}

// NewLoggingPublisher constructs a logging publisher.
func NewLoggingPublisher(logger *log.Logger) *LoggingPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &LoggingPublisher{logger: logger}
}

// Publish logs the event.
func (p *LoggingPublisher) Publish(ctx context.Context, event any) error {
	_ = ctx
	if p == nil {
		return errors.New("charges publisher: nil publisher")
	}
	switch e := event.(type) {
	case events.ChargeOperationsAccepted:
		p.logger.Printf("charges accepted: document=%s charge=%s operations=%d", e.DocumentID, e.ChargeID, len(e.OperationIDs))
	case events.ChargeOperationsRejected:
		p.logger.Printf("charges rejected: document=%s charge=%s reasons=%d", e.DocumentID, e.ChargeID, len(e.Reasons))
	case events.ChargePricesUpdated:
		p.logger.Printf("charge prices updated: charge=%s points=%d", e.ChargeID, e.PointCount)
	default:
		p.logger.Printf("charges event: %T", event)
	}
	return nil
}
