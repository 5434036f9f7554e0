package config

import (
	"strings"
	"time"
)

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetAuthorizeURL() string
	GetTokenURL() string
	GetCallbackURL() string
	GetScopes() []string
	GetDirectTokenLifetime() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetClientID() string {
	return GetEnv("OAUTH_CLIENT_ID", "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv("OAUTH_CLIENT_SECRET", "")
}

func (OAuth) GetAuthorizeURL() string {
	return GetEnv("OAUTH_AUTHORIZE_URL", "https://developer.api.autodesk.com/authentication/v2/authorize")
}

func (OAuth) GetTokenURL() string {
	return GetEnv("OAUTH_TOKEN_URL", "https://developer.api.autodesk.com/authentication/v2/token")
}

func (OAuth) GetCallbackURL() string {
	return GetEnv("OAUTH_CALLBACK_URL", "http://localhost:8080/callback")
}

func (OAuth) GetScopes() []string {
	scopes := GetEnv("OAUTH_SCOPES", "data:read account:read")
	return strings.Fields(scopes)
}

// GetDirectTokenLifetime is the fixed lifetime applied to pasted tokens.
// The platform's own expiry for such a token is unknown to us, so callers
// must not assume this bound matches the upstream lifetime.
func (OAuth) GetDirectTokenLifetime() time.Duration {
	return 60 * time.Minute
}
