package eventing

import (
	"encoding/json"
	"errors"
	"reflect"
	"time"
)

// Envelope wraps an event payload with delivery metadata. SenderID and
// DocumentID tie the event back to the market document that caused it.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	CorrelationID string          `json:"correlation_id"`
	SenderID      string          `json:"sender_id"`
	DocumentID    string          `json:"document_id"`
	SchemaVersion int             `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// Meta provides envelope overrides.
type Meta struct {
	EventID       string
	OccurredAt    time.Time
	CorrelationID string
	SenderID      string
	DocumentID    string
	SchemaVersion int
}

// BuildEnvelope constructs an envelope around event. Metadata left empty in
// meta is filled from the event's own fields: SenderID from a SenderID or
// OwnerID field, DocumentID from DocumentID, OccurredAt from OccurredAt.
func BuildEnvelope(event any, meta Meta) (Envelope, error) {
	if event == nil {
		return Envelope{}, errors.New("eventing: nil event")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, err
	}

	fields := structFields(event)
	env := Envelope{
		EventID:       meta.EventID,
		EventType:     typeName(event),
		OccurredAt:    meta.OccurredAt,
		CorrelationID: meta.CorrelationID,
		SenderID:      meta.SenderID,
		DocumentID:    meta.DocumentID,
		SchemaVersion: meta.SchemaVersion,
		Payload:       payload,
	}
	if env.SenderID == "" {
		env.SenderID = fields.str("SenderID", "OwnerID")
	}
	if env.DocumentID == "" {
		env.DocumentID = fields.str("DocumentID")
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = fields.when("OccurredAt")
	}
	if env.OccurredAt.IsZero() {
		env.OccurredAt = time.Now()
	}
	env.OccurredAt = env.OccurredAt.UTC()
	if env.EventID == "" {
		env.EventID = newEventID()
	}
	if env.CorrelationID == "" {
		env.CorrelationID = env.EventID
	}
	if env.SchemaVersion == 0 {
		env.SchemaVersion = 1
	}
	return env, nil
}

func typeName(event any) string {
	t := reflect.TypeOf(event)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.String()
}

// eventFields is a reflective view over an event struct, tolerant of
// pointers and non-struct events.
type eventFields struct {
	value reflect.Value
	ok    bool
}

func structFields(event any) eventFields {
	v := reflect.ValueOf(event)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return eventFields{}
		}
		v = v.Elem()
	}
	return eventFields{value: v, ok: v.Kind() == reflect.Struct}
}

func (f eventFields) str(names ...string) string {
	if !f.ok {
		return ""
	}
	for _, name := range names {
		if field := f.value.FieldByName(name); field.IsValid() && field.Kind() == reflect.String {
			return field.String()
		}
	}
	return ""
}

func (f eventFields) when(name string) time.Time {
	if !f.ok {
		return time.Time{}
	}
	field := f.value.FieldByName(name)
	if !field.IsValid() {
		return time.Time{}
	}
	t, _ := field.Interface().(time.Time)
	return t
}
