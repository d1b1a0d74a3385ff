package auth

import "context"

type contextKey string

const (
	contextKeyActor   contextKey = "auth.actor_id"
	contextKeyRole    contextKey = "auth.role"
	contextKeySubject contextKey = "auth.subject"
)

// WithIdentity stores the authenticated caller's identity in context.
func WithIdentity(ctx context.Context, actorID string, role Role, subject string) context.Context {
	ctx = context.WithValue(ctx, contextKeyActor, actorID)
	ctx = context.WithValue(ctx, contextKeyRole, role)
	return context.WithValue(ctx, contextKeySubject, subject)
}

// ActorIDFromContext returns the caller's market actor id, empty when the
// request was not authenticated.
func ActorIDFromContext(ctx context.Context) string {
	return stringValue(ctx, contextKeyActor)
}

// RoleFromContext returns the caller's role.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	switch v := ctx.Value(contextKeyRole).(type) {
	case Role:
		return v
	case string:
		if role, ok := NormalizeRole(v); ok {
			return role
		}
	}
	return ""
}

// SubjectFromContext returns the token subject.
func SubjectFromContext(ctx context.Context) string {
	return stringValue(ctx, contextKeySubject)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}
