package credentials

import (
	"encoding/json"
	"time"

	apperrors "github.com/hubdash/go-hub-dashboards/internal/errors"
	"github.com/hubdash/go-hub-dashboards/kvstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultSessionKey is the namespaced key the session is cached under.
const DefaultSessionKey = "hubdash.session"

// Store owns the current session: it caches the token durably, applies lazy
// expiry on read, and clears the persisted copy when the token lapses.
type Store struct {
	kv         kvstore.Store
	sessionKey string
	logger     zerolog.Logger
	nowTime    func() time.Time // nowTime function (injectable for testing)
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// WithLogger sets the logger used for expiry and recovery events.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithSessionKey overrides the durable key the session is stored under.
func WithSessionKey(key string) StoreOption {
	return func(s *Store) {
		s.sessionKey = key
	}
}

// NewStore initializes a credential store over the given persistence port.
func NewStore(kv kvstore.Store, options ...StoreOption) (*Store, error) {
	if kv == nil {
		return nil, errors.New("[NewStore] kv store is required")
	}

	store := &Store{
		kv:         kv,
		sessionKey: DefaultSessionKey,
		logger:     zerolog.Nop(),
		nowTime:    time.Now,
	}

	for _, opt := range options {
		opt(store)
	}

	return store, nil
}

// Set overwrites the active session and writes it through synchronously.
func (cs *Store) Set(session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "[Store.Set] json.Marshal")
	}
	if err := cs.kv.Set(cs.sessionKey, string(data)); err != nil {
		return apperrors.Classify(apperrors.ErrPersistence, errors.Wrap(err, "[Store.Set] kv.Set"))
	}
	return nil
}

// Get returns the cached session iff it has not expired. An expired or
// unreadable session is treated as absent and its persisted copy is cleared;
// there is no background expiry timer.
func (cs *Store) Get() *Session {
	raw, ok, err := cs.kv.Get(cs.sessionKey)
	if err != nil {
		cs.logger.Warn().Err(err).Msg("credential read failed, treating session as absent")
		return nil
	}
	if !ok {
		return nil
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		cs.logger.Warn().Err(err).Msg("cached session is malformed, clearing it")
		cs.clearQuietly()
		return nil
	}

	if !session.Valid(cs.nowTime()) {
		cs.logger.Debug().Time("expires_at", session.ExpiresAt).Msg("cached session expired, clearing it")
		cs.clearQuietly()
		return nil
	}

	return &session
}

// Clear removes the persisted session. Used on logout or detected invalidity.
func (cs *Store) Clear() error {
	if err := cs.kv.Delete(cs.sessionKey); err != nil {
		return apperrors.Classify(apperrors.ErrPersistence, errors.Wrap(err, "[Store.Clear] kv.Delete"))
	}
	return nil
}

func (cs *Store) clearQuietly() {
	if err := cs.Clear(); err != nil {
		cs.logger.Warn().Err(err).Msg("failed to clear stale session")
	}
}
