package authflow_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hubdash/go-hub-dashboards/authflow"
	"github.com/hubdash/go-hub-dashboards/credentials"
	apperrors "github.com/hubdash/go-hub-dashboards/internal/errors"
	"github.com/stretchr/testify/require"
)

type testOAuthConfig struct {
	tokenURL string
}

func (c testOAuthConfig) GetClientID() string                   { return "client-id" }
func (c testOAuthConfig) GetClientSecret() string               { return "client-secret" }
func (c testOAuthConfig) GetAuthorizeURL() string               { return "https://platform.example.com/authorize" }
func (c testOAuthConfig) GetTokenURL() string                   { return c.tokenURL }
func (c testOAuthConfig) GetCallbackURL() string                { return "http://localhost:8080/callback" }
func (c testOAuthConfig) GetScopes() []string                   { return []string{"data:read"} }
func (c testOAuthConfig) GetDirectTokenLifetime() time.Duration { return time.Hour }

func TestOAuth2Exchanger_Exchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.FormValue("grant_type"))
		require.Equal(t, testCode, r.FormValue("code"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(server.Close)

	exchanger := authflow.NewOAuth2Exchanger(testOAuthConfig{tokenURL: server.URL})

	session, err := exchanger.Exchange(context.Background(), testCode)
	require.NoError(t, err)
	require.Equal(t, "fresh-token", session.AccessToken)
	require.Equal(t, "Bearer", session.TokenType)
	require.Equal(t, credentials.SourceRedirect, session.Source)
	require.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
}

func TestOAuth2Exchanger_RejectedCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	t.Cleanup(server.Close)

	exchanger := authflow.NewOAuth2Exchanger(testOAuthConfig{tokenURL: server.URL})

	_, err := exchanger.Exchange(context.Background(), "expired-code")
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestOAuth2Exchanger_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	exchanger := authflow.NewOAuth2Exchanger(testOAuthConfig{tokenURL: server.URL})

	_, err := exchanger.Exchange(context.Background(), testCode)
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestOAuth2Exchanger_AuthCodeURL(t *testing.T) {
	exchanger := authflow.NewOAuth2Exchanger(testOAuthConfig{tokenURL: "https://platform.example.com/token"})

	authURL := exchanger.AuthCodeURL("state-123")
	require.Contains(t, authURL, "https://platform.example.com/authorize")
	require.Contains(t, authURL, "state=state-123")
	require.Contains(t, authURL, "client_id=client-id")
}
