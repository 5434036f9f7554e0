package bootstrap

import (
	"context"
	"net/url"
	"sync"

	"github.com/hubdash/go-hub-dashboards/authflow"
	"github.com/hubdash/go-hub-dashboards/records"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Bootstrapper is the process-wide initialization run once at application
// start. It decides the initial authenticated/unauthenticated state from the
// startup query and seeds the record catalog with sample data on a fresh
// install. Subsequent calls return the first run's result.
//
// A 401 observed during the profile fetch is surfaced in the result, never
// acted on: clearing the credential store stays an explicit caller decision.
type Bootstrapper struct {
	controller *authflow.Controller
	catalog    *records.Catalog
	logger     zerolog.Logger

	once   sync.Once
	result *authflow.Result
	err    error
}

// Option defines a function type to modify the Bootstrapper instance.
type Option func(*Bootstrapper)

// WithLogger sets the logger for startup reporting.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Bootstrapper) {
		b.logger = logger
	}
}

// WithCatalog enables sample seeding of the given catalog during startup.
func WithCatalog(catalog *records.Catalog) Option {
	return func(b *Bootstrapper) {
		b.catalog = catalog
	}
}

// New initializes a Bootstrapper around the auth flow controller.
func New(controller *authflow.Controller, options ...Option) (*Bootstrapper, error) {
	if controller == nil {
		return nil, errors.New("[bootstrap.New] controller is required")
	}

	bootstrapper := &Bootstrapper{
		controller: controller,
		logger:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(bootstrapper)
	}

	return bootstrapper, nil
}

// Run performs the one-time startup sequence for the given startup query.
func (b *Bootstrapper) Run(ctx context.Context, query url.Values) (*authflow.Result, error) {
	b.once.Do(func() {
		b.result, b.err = b.run(ctx, query)
	})
	return b.result, b.err
}

func (b *Bootstrapper) run(ctx context.Context, query url.Values) (*authflow.Result, error) {
	if b.catalog != nil {
		if err := b.catalog.SeedSamples(); err != nil {
			// Seeding is best-effort; an unwritable store will surface again
			// on the first real save.
			b.logger.Warn().Err(err).Msg("sample seeding failed")
		}
	}

	result, err := b.controller.Run(ctx, query)
	if err != nil {
		b.logger.Warn().Err(err).Msg("authentication failed during startup")
		return result, errors.Wrap(err, "[Bootstrapper.run]")
	}

	switch result.State {
	case authflow.StateAuthenticated:
		event := b.logger.Info().Str("source", string(result.Session.Source))
		if result.Profile != nil {
			event = event.Str("user", result.Profile.DisplayName)
		}
		event.Msg("startup complete, authenticated")
	default:
		b.logger.Info().Msg("startup complete, not authenticated")
	}

	return result, nil
}
