package eventing

import "context"

type contextKey string

const (
	contextKeyEnvelope contextKey = "eventing.envelope"
	contextKeySender   contextKey = "eventing.sender_id"
	contextKeyDocument contextKey = "eventing.document_id"
	contextKeyCorr     contextKey = "eventing.correlation_id"
	contextKeyEventID  contextKey = "eventing.event_id"
)

// WithEnvelope attaches the delivered envelope to context for consumers.
func WithEnvelope(ctx context.Context, env Envelope) context.Context {
	return context.WithValue(ctx, contextKeyEnvelope, env)
}

// EnvelopeFromContext returns the delivered envelope if one is attached.
func EnvelopeFromContext(ctx context.Context) (Envelope, bool) {
	env, ok := ctx.Value(contextKeyEnvelope).(Envelope)
	return env, ok
}

// WithSenderID sets the market actor id for outgoing envelopes.
func WithSenderID(ctx context.Context, senderID string) context.Context {
	return context.WithValue(ctx, contextKeySender, senderID)
}

// WithDocumentID sets the originating document id for outgoing envelopes.
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, contextKeyDocument, documentID)
}

// WithCorrelationID sets the correlation id for outgoing envelopes.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, contextKeyCorr, correlationID)
}

// WithEventID pins the event id used for the next published envelope.
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, contextKeyEventID, eventID)
}

// MetaFromContext collects envelope metadata from context. An empty sender
// falls back to defaultSenderID, typically the hub's own actor id.
func MetaFromContext(ctx context.Context, defaultSenderID string) Meta {
	meta := Meta{
		SenderID:      ctxString(ctx, contextKeySender),
		DocumentID:    ctxString(ctx, contextKeyDocument),
		CorrelationID: ctxString(ctx, contextKeyCorr),
		EventID:       ctxString(ctx, contextKeyEventID),
	}
	if meta.SenderID == "" {
		meta.SenderID = defaultSenderID
	}
	return meta
}

func ctxString(ctx context.Context, key contextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}
