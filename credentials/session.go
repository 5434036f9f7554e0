package credentials

import "time"

// Source records how a session's access token was acquired.
type Source string

const (
	// SourceRedirect marks tokens obtained by exchanging an authorization
	// code after the platform redirected back to us.
	SourceRedirect Source = "redirect"

	// SourceDirectPaste marks tokens the user supplied verbatim, either via
	// a query parameter or a form field. Such tokens carry a fixed local
	// lifetime because their true remaining lifetime is unknown.
	SourceDirectPaste Source = "direct_paste"
)

// Session is the single active credential for the upstream platform. At most
// one session exists at a time; a new acquisition replaces any prior one.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	Source      Source    `json:"source"`
}

// Valid reports whether the session can still be used at the given instant.
func (s Session) Valid(now time.Time) bool {
	return s.AccessToken != "" && now.Before(s.ExpiresAt)
}
