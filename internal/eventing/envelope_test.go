package eventing

import (
	"context"
	"testing"
	"time"

	"charges-hub/internal/charges/application/events"
)

func TestBuildEnvelopeFillsMetadataFromEvent(t *testing.T) {
	occurred := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	event := events.ChargeOperationsAccepted{
		DocumentID: "doc-1",
		SenderID:   "5790001330552",
		ChargeID:   "T-001",
		OccurredAt: occurred,
	}

	env, err := BuildEnvelope(event, Meta{})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if env.SenderID != "5790001330552" {
		t.Fatalf("sender = %q, want extracted from event", env.SenderID)
	}
	if env.DocumentID != "doc-1" {
		t.Fatalf("document = %q, want doc-1", env.DocumentID)
	}
	if !env.OccurredAt.Equal(occurred) {
		t.Fatalf("occurred at = %s, want %s", env.OccurredAt, occurred)
	}
	if env.EventID == "" || env.CorrelationID != env.EventID {
		t.Fatalf("event id %q / correlation %q not defaulted", env.EventID, env.CorrelationID)
	}
	if env.EventType != "events.ChargeOperationsAccepted" {
		t.Fatalf("event type = %q", env.EventType)
	}
}

func TestBuildEnvelopeHonoursMetaOverrides(t *testing.T) {
	event := events.ChargePricesUpdated{ChargeID: "T-001", OwnerID: "5790001330552"}
	meta := Meta{
		EventID:       "evt-1",
		CorrelationID: "corr-1",
		SenderID:      "sender-override",
		DocumentID:    "doc-override",
		SchemaVersion: 2,
	}

	env, err := BuildEnvelope(event, meta)
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if env.SenderID != "sender-override" || env.DocumentID != "doc-override" {
		t.Fatalf("overrides lost: %+v", env)
	}
	if env.SchemaVersion != 2 || env.CorrelationID != "corr-1" {
		t.Fatalf("overrides lost: %+v", env)
	}
}

type stubOutbox struct {
	records []OutboxRecord
	sent    []string
	failed  []string
}

func (s *stubOutbox) ListPending(_ context.Context, limit int) ([]OutboxRecord, error) {
	if len(s.records) > limit {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *stubOutbox) MarkSent(_ context.Context, id string) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *stubOutbox) MarkFailed(_ context.Context, id string) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubDLQ struct {
	failures []Envelope
}

func (s *stubDLQ) RecordFailure(_ context.Context, env Envelope, _ error) error {
	s.failures = append(s.failures, env)
	return nil
}

type stubBus struct {
	delivered []any
}

func (s *stubBus) Publish(_ context.Context, event any) error {
	s.delivered = append(s.delivered, event)
	return nil
}

func TestDispatchDeliversDecodedEvents(t *testing.T) {
	registry := NewRegistry()
	registry.Register(events.ChargeOperationsAccepted{})

	env, err := BuildEnvelope(events.ChargeOperationsAccepted{DocumentID: "doc-1", ChargeID: "T-001"}, Meta{EventID: "evt-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}

	outbox := &stubOutbox{records: []OutboxRecord{{ID: "rec-1", Envelope: env}}}
	bus := &stubBus{}
	dlq := &stubDLQ{}
	dispatcher := NewDispatcher(bus, outbox, registry, dlq)

	if err := dispatcher.Dispatch(context.Background(), 10); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(bus.delivered) != 1 {
		t.Fatalf("got %d delivered events, want 1", len(bus.delivered))
	}
	delivered, ok := bus.delivered[0].(events.ChargeOperationsAccepted)
	if !ok {
		t.Fatalf("unexpected delivered type %T", bus.delivered[0])
	}
	if delivered.ChargeID != "T-001" {
		t.Fatalf("payload lost in decode: %+v", delivered)
	}
	if len(outbox.sent) != 1 || outbox.sent[0] != "rec-1" {
		t.Fatalf("record not marked sent: %v", outbox.sent)
	}
	if len(dlq.failures) != 0 {
		t.Fatalf("unexpected dlq failures: %v", dlq.failures)
	}
}

func TestDispatchSendsUnknownTypesToDLQ(t *testing.T) {
	registry := NewRegistry()

	env, err := BuildEnvelope(events.ChargeOperationsAccepted{DocumentID: "doc-1"}, Meta{EventID: "evt-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}

	outbox := &stubOutbox{records: []OutboxRecord{{ID: "rec-1", Envelope: env}}}
	bus := &stubBus{}
	dlq := &stubDLQ{}
	dispatcher := NewDispatcher(bus, outbox, registry, dlq)

	if err := dispatcher.Dispatch(context.Background(), 10); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(bus.delivered) != 0 {
		t.Fatalf("unexpected delivery: %v", bus.delivered)
	}
	if len(outbox.failed) != 1 {
		t.Fatalf("record not marked failed: %v", outbox.failed)
	}
	if len(dlq.failures) != 1 || dlq.failures[0].EventID != "evt-1" {
		t.Fatalf("failure not recorded: %v", dlq.failures)
	}
}
