package profile

import (
	"context"

	"github.com/hubdash/go-hub-dashboards/credentials"
	apperrors "github.com/hubdash/go-hub-dashboards/internal/errors"
	"github.com/hubdash/go-hub-dashboards/platform"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Fetcher is the slice of the platform client the resolver needs.
type Fetcher interface {
	GetUserProfile(ctx context.Context, accessToken string) (*platform.UserProfile, error)
}

// Resolver performs a single idempotent identity read for a session. It
// keeps no state and never retries; a retry is always an explicit caller
// action. A rejected token surfaces as ErrUnauthorized and it is the
// caller's decision whether to clear the session over it.
type Resolver struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// ResolverOption defines a function type to modify the Resolver instance.
type ResolverOption func(*Resolver)

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a profile resolver over the given fetcher.
func NewResolver(fetcher Fetcher, options ...ResolverOption) (*Resolver, error) {
	if fetcher == nil {
		return nil, errors.New("[NewResolver] fetcher is required")
	}

	resolver := &Resolver{
		fetcher: fetcher,
		logger:  zerolog.Nop(),
	}

	for _, opt := range options {
		opt(resolver)
	}

	return resolver, nil
}

// Resolve fetches the identity behind the session's token.
func (r *Resolver) Resolve(ctx context.Context, session *credentials.Session) (*platform.UserProfile, error) {
	if session == nil || session.AccessToken == "" {
		return nil, apperrors.ErrNoSession
	}

	userProfile, err := r.fetcher.GetUserProfile(ctx, session.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.Resolve] GetUserProfile")
	}

	r.logger.Debug().Str("user_id", userProfile.UserID).Msg("resolved user profile")
	return userProfile, nil
}
