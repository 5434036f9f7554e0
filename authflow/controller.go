package authflow

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/hubdash/go-hub-dashboards/credentials"
	apperrors "github.com/hubdash/go-hub-dashboards/internal/errors"
	"github.com/hubdash/go-hub-dashboards/internal/utils"
	"github.com/hubdash/go-hub-dashboards/platform"
	"github.com/hubdash/go-hub-dashboards/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const defaultDirectTokenLifetime = 60 * time.Minute

// HistoryRewriter removes query parameters from the visible address so that
// secrets arriving via URL are not retained in history or bookmarks.
type HistoryRewriter interface {
	StripQueryParams(params ...string) error
}

// ProfileResolver is the slice of the profile package the controller needs.
type ProfileResolver interface {
	Resolve(ctx context.Context, session *credentials.Session) (*platform.UserProfile, error)
}

// Deps holds all collaborator dependencies for the Controller.
type Deps struct {
	Credentials *credentials.Store // Durable session cache
	Exchanger   CodeExchanger      // Token endpoint client
	History     HistoryRewriter    // Address-bar secret stripping
	Profile     ProfileResolver    // Best-effort identity fetch
}

// Controller orchestrates how a session token is obtained: exchanging a
// redirect code, accepting a pasted token, or reusing a cached session.
type Controller struct {
	deps                Deps
	logger              zerolog.Logger
	nowTime             func() time.Time // nowTime function (injectable for testing)
	directTokenLifetime time.Duration
	state               State
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.nowTime = nowFunc
	}
}

// WithLogger sets the logger for flow transitions.
func WithLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithDirectTokenLifetime overrides the fixed lifetime applied to pasted
// tokens.
func WithDirectTokenLifetime(lifetime time.Duration) ControllerOption {
	return func(c *Controller) {
		c.directTokenLifetime = lifetime
	}
}

// NewController initializes a new Controller with required dependencies.
func NewController(deps Deps, options ...ControllerOption) (*Controller, error) {
	if deps.Credentials == nil {
		return nil, errors.New("[NewController] Credentials store is required")
	}
	if deps.Exchanger == nil {
		return nil, errors.New("[NewController] Exchanger is required")
	}
	if deps.Profile == nil {
		return nil, errors.New("[NewController] Profile resolver is required")
	}

	controller := &Controller{
		deps:                deps,
		logger:              zerolog.Nop(),
		nowTime:             time.Now,
		directTokenLifetime: defaultDirectTokenLifetime,
		state:               StateIdle,
	}

	for _, opt := range options {
		opt(controller)
	}

	return controller, nil
}

// State returns the controller's current flow state.
func (c *Controller) State() State {
	return c.state
}

// Result reports how an acquisition attempt ended. ProfileErr is non-fatal:
// a failed identity fetch never reverts authentication, it is only surfaced
// so the caller can report it.
type Result struct {
	State      State
	Session    *credentials.Session
	Profile    *platform.UserProfile
	ProfileErr error
}

// Run resolves the acquisition path for the query and executes it. On cold
// start with neither code nor token present, a still-valid cached session
// authenticates without any network round-trip.
func (c *Controller) Run(ctx context.Context, query url.Values) (*Result, error) {
	outcome := Resolve(query)

	switch outcome.Decision {
	case DecisionExchangeCode:
		return c.exchangeCode(ctx, outcome.Code)
	case DecisionAcceptToken:
		return c.acceptToken(ctx, outcome.Token, outcome.StripTokenParam)
	default:
		return c.existingSession(ctx)
	}
}

// SubmitToken handles a token the user pasted into a form. The form path
// never touches the address bar, so no history rewrite happens.
func (c *Controller) SubmitToken(ctx context.Context, rawToken string) (*Result, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.Classify(apperrors.ErrValidation, errors.New("[Controller.SubmitToken] token is required"))
	}
	return c.acceptToken(ctx, rawToken, false)
}

func (c *Controller) exchangeCode(ctx context.Context, code string) (*Result, error) {
	c.state = StateAwaitingExchange

	session, err := c.deps.Exchanger.Exchange(ctx, code)
	if err != nil {
		c.state = StateFailed
		c.logger.Warn().Err(err).Msg("authorization code exchange failed")
		return &Result{State: StateFailed}, errors.Wrap(err, "[Controller.exchangeCode]")
	}

	if err := c.deps.Credentials.Set(*session); err != nil {
		c.state = StateFailed
		return &Result{State: StateFailed}, errors.Wrap(err, "[Controller.exchangeCode] persist session")
	}

	c.state = StateAuthenticated
	c.logger.Info().Time("expires_at", session.ExpiresAt).Msg("authenticated via redirect code")
	return c.withProfile(ctx, session), nil
}

func (c *Controller) acceptToken(ctx context.Context, rawToken string, stripFromURL bool) (*Result, error) {
	// Pasted tokens are accepted verbatim; expiry is a fixed local bound
	// because the upstream lifetime is unknown.
	session := &credentials.Session{
		AccessToken: rawToken,
		TokenType:   "Bearer",
		ExpiresAt:   c.nowTime().Add(c.directTokenLifetime),
		Source:      credentials.SourceDirectPaste,
	}

	if inspection, err := token.Inspect(rawToken); err == nil && inspection.ExpiresAt != nil {
		c.logger.Debug().
			Time("upstream_expiry_hint", *inspection.ExpiresAt).
			Str("subject", utils.Value(inspection.Subject)).
			Msg("accepted pasted token")
	}

	if err := c.deps.Credentials.Set(*session); err != nil {
		c.state = StateFailed
		return &Result{State: StateFailed}, errors.Wrap(err, "[Controller.acceptToken] persist session")
	}

	if stripFromURL && c.deps.History != nil {
		if err := c.deps.History.StripQueryParams("token"); err != nil {
			c.logger.Warn().Err(err).Msg("failed to strip token from visible address")
		}
	}

	c.state = StateAuthenticated
	return c.withProfile(ctx, session), nil
}

func (c *Controller) existingSession(ctx context.Context) (*Result, error) {
	session := c.deps.Credentials.Get()
	if session == nil {
		c.state = StateIdle
		return &Result{State: StateIdle}, nil
	}

	c.state = StateAuthenticated
	c.logger.Info().Str("source", string(session.Source)).Msg("reusing cached session")
	return c.withProfile(ctx, session), nil
}

// withProfile attaches the best-effort identity fetch to a successful
// authentication.
func (c *Controller) withProfile(ctx context.Context, session *credentials.Session) *Result {
	result := &Result{State: StateAuthenticated, Session: session}

	userProfile, err := c.deps.Profile.Resolve(ctx, session)
	if err != nil {
		c.logger.Warn().Err(err).Msg("profile fetch failed after authentication")
		result.ProfileErr = err
		return result
	}

	result.Profile = userProfile
	return result
}
