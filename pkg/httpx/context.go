package httpx

import "context"

type ctxKey struct{}

// Subject is the authenticated caller of a request.
type Subject struct {
	ID        string
	Kind      string // "user" or "parent"
	Role      string // admin, coach or parent
	SessionID string
	Channel   string
}

func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SubjectFromContext returns the caller placed on ctx by AuthnMiddleware.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(ctxKey{}).(Subject)
	return s, ok
}
