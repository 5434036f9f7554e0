package authflow_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/hubdash/go-hub-dashboards/authflow"
	"github.com/hubdash/go-hub-dashboards/credentials"
	apperrors "github.com/hubdash/go-hub-dashboards/internal/errors"
	"github.com/hubdash/go-hub-dashboards/kvstore/memstore"
	"github.com/hubdash/go-hub-dashboards/platform"
	"github.com/stretchr/testify/require"
)

const (
	testCode  = "auth-code-123"
	testToken = "pasted-token-456"
)

type fakeExchanger struct {
	session *credentials.Session
	err     error
	calls   int
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (*credentials.Session, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type fakeHistory struct {
	stripped [][]string
}

func (f *fakeHistory) StripQueryParams(params ...string) error {
	f.stripped = append(f.stripped, params)
	return nil
}

type fakeResolver struct {
	profile *platform.UserProfile
	err     error
}

func (f *fakeResolver) Resolve(ctx context.Context, session *credentials.Session) (*platform.UserProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type controllerFixture struct {
	kv         *memstore.Store
	creds      *credentials.Store
	exchanger  *fakeExchanger
	history    *fakeHistory
	resolver   *fakeResolver
	controller *authflow.Controller
	now        time.Time
}

func setupControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()

	f := &controllerFixture{
		kv:        memstore.New(),
		exchanger: &fakeExchanger{},
		history:   &fakeHistory{},
		resolver:  &fakeResolver{profile: &platform.UserProfile{UserID: "u1", DisplayName: "Jo Builder"}},
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	creds, err := credentials.NewStore(f.kv, credentials.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.creds = creds

	f.exchanger.session = &credentials.Session{
		AccessToken: "exchanged-token",
		TokenType:   "Bearer",
		ExpiresAt:   f.now.Add(time.Hour),
		Source:      credentials.SourceRedirect,
	}

	controller, err := authflow.NewController(authflow.Deps{
		Credentials: f.creds,
		Exchanger:   f.exchanger,
		History:     f.history,
		Profile:     f.resolver,
	}, authflow.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.controller = controller

	return f
}

func TestResolve(t *testing.T) {
	t.Run("code parameter selects exchange", func(t *testing.T) {
		outcome := authflow.Resolve(url.Values{"code": {testCode}})
		require.Equal(t, authflow.DecisionExchangeCode, outcome.Decision)
		require.Equal(t, testCode, outcome.Code)
	})

	t.Run("token parameter selects direct accept with strip", func(t *testing.T) {
		outcome := authflow.Resolve(url.Values{"token": {testToken}})
		require.Equal(t, authflow.DecisionAcceptToken, outcome.Decision)
		require.Equal(t, testToken, outcome.Token)
		require.True(t, outcome.StripTokenParam)
	})

	t.Run("code wins over token", func(t *testing.T) {
		outcome := authflow.Resolve(url.Values{"code": {testCode}, "token": {testToken}})
		require.Equal(t, authflow.DecisionExchangeCode, outcome.Decision)
	})

	t.Run("empty query selects existing session", func(t *testing.T) {
		outcome := authflow.Resolve(url.Values{})
		require.Equal(t, authflow.DecisionExistingSession, outcome.Decision)
	})
}

func TestController_RedirectCodePath(t *testing.T) {
	f := setupControllerFixture(t)

	result, err := f.controller.Run(context.Background(), url.Values{"code": {testCode}})
	require.NoError(t, err)
	require.Equal(t, authflow.StateAuthenticated, result.State)
	require.Equal(t, 1, f.exchanger.calls)

	require.NotNil(t, result.Session)
	require.Equal(t, credentials.SourceRedirect, result.Session.Source)
	require.Equal(t, "exchanged-token", result.Session.AccessToken)

	// The session was persisted
	cached := f.creds.Get()
	require.NotNil(t, cached)
	require.Equal(t, "exchanged-token", cached.AccessToken)

	// Profile was fetched
	require.NotNil(t, result.Profile)
	require.Equal(t, "Jo Builder", result.Profile.DisplayName)
}

func TestController_ExchangeFailureLeavesUnauthenticated(t *testing.T) {
	f := setupControllerFixture(t)
	f.exchanger.err = apperrors.ErrUnauthorized
	f.exchanger.session = nil

	result, err := f.controller.Run(context.Background(), url.Values{"code": {testCode}})
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	require.Equal(t, authflow.StateFailed, result.State)
	require.Equal(t, authflow.StateFailed, f.controller.State())
	require.Nil(t, f.creds.Get())

	// No automatic retry
	require.Equal(t, 1, f.exchanger.calls)
}

func TestController_DirectTokenPath(t *testing.T) {
	f := setupControllerFixture(t)

	result, err := f.controller.Run(context.Background(), url.Values{"token": {testToken}})
	require.NoError(t, err)
	require.Equal(t, authflow.StateAuthenticated, result.State)

	require.NotNil(t, result.Session)
	require.Equal(t, credentials.SourceDirectPaste, result.Session.Source)
	require.Equal(t, testToken, result.Session.AccessToken)

	// Fixed 60 minute lifetime regardless of the token's true expiry
	require.Equal(t, f.now.Add(60*time.Minute), result.Session.ExpiresAt)

	// The secret was stripped from the visible address
	require.Len(t, f.history.stripped, 1)
	require.Equal(t, []string{"token"}, f.history.stripped[0])
}

func TestController_SubmitToken(t *testing.T) {
	f := setupControllerFixture(t)

	t.Run("accepts a pasted token without history rewrite", func(t *testing.T) {
		result, err := f.controller.SubmitToken(context.Background(), testToken)
		require.NoError(t, err)
		require.Equal(t, authflow.StateAuthenticated, result.State)
		require.Equal(t, credentials.SourceDirectPaste, result.Session.Source)
		require.Empty(t, f.history.stripped)
	})

	t.Run("rejects a blank token before any store mutation", func(t *testing.T) {
		require.NoError(t, f.creds.Clear())
		_, err := f.controller.SubmitToken(context.Background(), "   ")
		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrValidation)
		require.Nil(t, f.creds.Get())
	})
}

func TestController_ExistingSessionPath(t *testing.T) {
	f := setupControllerFixture(t)

	t.Run("cold start without a cached session stays idle", func(t *testing.T) {
		result, err := f.controller.Run(context.Background(), url.Values{})
		require.NoError(t, err)
		require.Equal(t, authflow.StateIdle, result.State)
		require.Nil(t, result.Session)
	})

	t.Run("still-valid cached session authenticates without network", func(t *testing.T) {
		require.NoError(t, f.creds.Set(credentials.Session{
			AccessToken: "cached-token",
			ExpiresAt:   f.now.Add(time.Hour),
			Source:      credentials.SourceRedirect,
		}))

		result, err := f.controller.Run(context.Background(), url.Values{})
		require.NoError(t, err)
		require.Equal(t, authflow.StateAuthenticated, result.State)
		require.Equal(t, "cached-token", result.Session.AccessToken)
		require.Equal(t, 0, f.exchanger.calls)
	})

	t.Run("expired cached session stays idle", func(t *testing.T) {
		f.now = f.now.Add(2 * time.Hour)
		result, err := f.controller.Run(context.Background(), url.Values{})
		require.NoError(t, err)
		require.Equal(t, authflow.StateIdle, result.State)
	})
}

func TestController_ProfileFailureDoesNotRevertAuthentication(t *testing.T) {
	f := setupControllerFixture(t)
	f.resolver.err = apperrors.ErrNetwork
	f.resolver.profile = nil

	result, err := f.controller.Run(context.Background(), url.Values{"code": {testCode}})
	require.NoError(t, err)
	require.Equal(t, authflow.StateAuthenticated, result.State)
	require.Nil(t, result.Profile)
	require.ErrorIs(t, result.ProfileErr, apperrors.ErrNetwork)

	// Session still persisted despite the profile failure
	require.NotNil(t, f.creds.Get())
}
