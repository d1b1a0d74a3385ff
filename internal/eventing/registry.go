package eventing

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// Registry resolves envelope event type names back to concrete Go types so
// payloads can be decoded before delivery.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]reflect.Type)}
}

// Register records the type of sample under its reflect name. Pointer
// samples are registered by their element type.
func (r *Registry) Register(sample any) {
	if r == nil || sample == nil {
		return
	}
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.mu.Lock()
	r.types[t.String()] = t
	r.mu.Unlock()
}

// DecodePayload unmarshals the envelope payload into a value of the
// registered type. Unregistered event types are an error.
func (r *Registry) DecodePayload(env Envelope) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("eventing: nil registry")
	}
	r.mu.RLock()
	t, known := r.types[env.EventType]
	r.mu.RUnlock()
	if !known {
		return nil, fmt.Errorf("eventing: unknown event type %q", env.EventType)
	}
	target := reflect.New(t)
	if err := json.Unmarshal(env.Payload, target.Interface()); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}
