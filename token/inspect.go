package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/hubdash/go-hub-dashboards/internal/utils"
	"github.com/pkg/errors"
)

// Inspection holds the claims of interest decoded from a platform access
// token. The 'exp' value is an upstream hint only: pasted tokens still get
// the fixed local lifetime regardless of what the token itself claims.
type Inspection struct {
	Subject   *string    // Users unique ID
	Issuer    *string    // Issuer of the token
	ExpiresAt *time.Time // Upstream expiration hint
	IssuedAt  *time.Time // Issued at time
	Scopes    []string   // Scopes granted to the token
}

// Inspect decodes the claims of a JWT access token without verifying its
// signature. The platform remains the authority on the token's validity;
// this exists so callers can log the subject and expiry hint of a pasted
// token before any network round-trip.
func Inspect(rawToken string) (*Inspection, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("[Inspect] empty token")
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[Inspect] ParseUnverified")
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[Inspect] error extracting claims")
	}

	inspection := &Inspection{}

	if sub, ok := claims["sub"].(string); ok {
		inspection.Subject = utils.Ptr(sub)
	}
	if iss, ok := claims["iss"].(string); ok {
		inspection.Issuer = utils.Ptr(iss)
	}
	if exp, ok := claims["exp"].(float64); ok {
		inspection.ExpiresAt = utils.Ptr(time.Unix(int64(exp), 0))
	}
	if iat, ok := claims["iat"].(float64); ok {
		inspection.IssuedAt = utils.Ptr(time.Unix(int64(iat), 0))
	}
	if scopes, ok := claims["scope"].([]any); ok {
		inspection.Scopes = utils.ToStringSlice(scopes)
	} else if scopes, ok := claims["scp"].([]any); ok {
		inspection.Scopes = utils.ToStringSlice(scopes)
	}

	return inspection, nil
}
