package authflow

import "net/url"

// State of the acquisition machine. Idle → AwaitingExchange → Authenticated
// for the redirect-code path, Idle → Authenticated for the direct path, with
// Failed reachable from any pending state.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingExchange State = "awaiting_exchange"
	StateAuthenticated    State = "authenticated"
	StateFailed           State = "failed"
)

// Decision names the acquisition path a URL query selects.
type Decision string

const (
	// DecisionExchangeCode exchanges an authorization code for a token.
	DecisionExchangeCode Decision = "exchange_code"

	// DecisionAcceptToken accepts a raw pasted token verbatim.
	DecisionAcceptToken Decision = "accept_token"

	// DecisionExistingSession falls back to a still-valid cached session.
	DecisionExistingSession Decision = "existing_session"
)

// Outcome is the result of the pure routing decision over a URL query.
// StripTokenParam is set when a secret arrived in the visible address and
// must be removed from history once accepted.
type Outcome struct {
	Decision        Decision
	Code            string
	Token           string
	StripTokenParam bool
}

// Resolve decides which acquisition path the query selects. It is pure: no
// network, no storage, no history mutation. A code parameter wins over a
// token parameter when both are present, matching the redirect flow being
// the platform-driven one.
func Resolve(query url.Values) Outcome {
	if code := query.Get("code"); code != "" {
		return Outcome{Decision: DecisionExchangeCode, Code: code}
	}
	if token := query.Get("token"); token != "" {
		return Outcome{Decision: DecisionAcceptToken, Token: token, StripTokenParam: true}
	}
	return Outcome{Decision: DecisionExistingSession}
}
