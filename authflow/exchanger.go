package authflow

import (
	"context"
	"time"

	"github.com/hubdash/go-hub-dashboards/credentials"
	"github.com/hubdash/go-hub-dashboards/internal/config"
	apperrors "github.com/hubdash/go-hub-dashboards/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// CodeExchanger swaps an authorization code for a session at the platform's
// token endpoint.
type CodeExchanger interface {
	Exchange(ctx context.Context, code string) (*credentials.Session, error)
}

var _ CodeExchanger = (*OAuth2Exchanger)(nil)

// OAuth2Exchanger performs the authorization-code exchange with the standard
// oauth2 library.
type OAuth2Exchanger struct {
	config  *oauth2.Config
	nowTime func() time.Time
}

// NewOAuth2Exchanger builds an exchanger from the OAuth configuration.
func NewOAuth2Exchanger(cfg config.OAuthConfig) *OAuth2Exchanger {
	return &OAuth2Exchanger{
		config: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			RedirectURL:  cfg.GetCallbackURL(),
			Scopes:       cfg.GetScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.GetAuthorizeURL(),
				TokenURL: cfg.GetTokenURL(),
			},
		},
		nowTime: time.Now,
	}
}

// AuthCodeURL returns the platform URL a user visits to start the redirect
// flow. The state parameter is echoed back on the callback.
func (e *OAuth2Exchanger) AuthCodeURL(state string) string {
	return e.config.AuthCodeURL(state)
}

// Exchange swaps the code for a token. An upstream rejection (invalid or
// expired code, non-2xx response) maps to ErrUnauthorized; a transport
// failure maps to ErrNetwork.
func (e *OAuth2Exchanger) Exchange(ctx context.Context, code string) (*credentials.Session, error) {
	tok, err := e.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, apperrors.Classify(apperrors.ErrUnauthorized, errors.Wrap(err, "[OAuth2Exchanger.Exchange]"))
		}
		return nil, apperrors.Classify(apperrors.ErrNetwork, errors.Wrap(err, "[OAuth2Exchanger.Exchange]"))
	}

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		// Token endpoints that omit expires_in still get a bounded session.
		expiresAt = e.nowTime().Add(time.Hour)
	}

	return &credentials.Session{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
		ExpiresAt:   expiresAt,
		Source:      credentials.SourceRedirect,
	}, nil
}
