package records

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/hubdash/go-hub-dashboards/internal/errors"
	"github.com/hubdash/go-hub-dashboards/kvstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Store is a generic CRUD layer over one entity collection kept in the
// key-value persistence port. The whole collection is re-serialized and
// written back on every mutation; there is no partial write. Reads fail
// soft: a missing or malformed collection is an empty one, logged but never
// propagated. Writes fail loud with ErrPersistence.
//
// There is no concurrent-writer protection beyond the port's own locking;
// overlapping saves are last-writer-wins. The system has a single writer.
type Store[T Record] struct {
	kv       kvstore.Store
	key      string
	validate *validator.Validate
	logger   zerolog.Logger
	nowTime  func() time.Time // nowTime function (injectable for testing)
}

// StoreOption defines a function type to modify a Store instance.
type StoreOption[T Record] func(*Store[T])

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime[T Record](nowFunc func() time.Time) StoreOption[T] {
	return func(s *Store[T]) {
		s.nowTime = nowFunc
	}
}

// WithLogger sets the logger for recovery diagnostics.
func WithLogger[T Record](logger zerolog.Logger) StoreOption[T] {
	return func(s *Store[T]) {
		s.logger = logger
	}
}

// NewStore initializes a record store for one collection key.
func NewStore[T Record](kv kvstore.Store, key string, options ...StoreOption[T]) (*Store[T], error) {
	if kv == nil {
		return nil, errors.New("[NewStore] kv store is required")
	}
	if key == "" {
		return nil, errors.New("[NewStore] collection key is required")
	}

	store := &Store[T]{
		kv:       kv,
		key:      key,
		validate: validator.New(),
		logger:   zerolog.Nop(),
		nowTime:  time.Now,
	}

	for _, opt := range options {
		opt(store)
	}

	return store, nil
}

// GetAll returns the collection in insertion order as persisted.
func (s *Store[T]) GetAll() []T {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("collection read failed, treating as empty")
		return []T{}
	}
	if !ok || raw == "" {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn().
			Err(apperrors.Classify(apperrors.ErrMalformedStorageData, err)).
			Str("key", s.key).
			Msg("collection is malformed, treating as empty")
		return []T{}
	}
	return items
}

// GetByID returns the entity with the given id, or false when absent.
func (s *Store[T]) GetByID(id string) (T, bool) {
	for _, item := range s.GetAll() {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Save upserts the entity by id. An existing record is replaced in place
// keeping its original createdAt; a new record is appended with both stamps
// set. Validation failures block the write entirely.
func (s *Store[T]) Save(entity T) (T, error) {
	var zero T

	if err := s.validate.Struct(entity); err != nil {
		return zero, apperrors.Classify(apperrors.ErrValidation, errors.Wrap(err, "[Store.Save]"))
	}

	now := Stamp(s.nowTime())
	items := s.GetAll()

	replaced := false
	for i, item := range items {
		if item.RecordID() == entity.RecordID() {
			entity.Stamp(item.CreatedStamp(), now)
			items[i] = entity
			replaced = true
			break
		}
	}
	if !replaced {
		entity.Stamp(now, now)
		items = append(items, entity)
	}

	if err := s.writeAll(items); err != nil {
		return zero, errors.Wrap(err, "[Store.Save]")
	}
	return entity, nil
}

// Delete removes the entity with the given id and reports whether a removal
// occurred. Deleting an absent id is not an error.
func (s *Store[T]) Delete(id string) (bool, error) {
	items := s.GetAll()

	kept := make([]T, 0, len(items))
	removed := false
	for _, item := range items {
		if item.RecordID() == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return false, nil
	}

	if err := s.writeAll(kept); err != nil {
		return false, errors.Wrap(err, "[Store.Delete]")
	}
	return true, nil
}

// SeedIfEmpty populates the collection with sample records only when the
// collection key has never been written. A collection the user emptied
// themselves stays empty, and a malformed collection is left untouched
// rather than overwritten, even though reads report it as empty.
func (s *Store[T]) SeedIfEmpty(samples []T) error {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return apperrors.Classify(apperrors.ErrPersistence, errors.Wrap(err, "[Store.SeedIfEmpty] kv.Get"))
	}
	if ok && raw != "" {
		return nil
	}

	now := Stamp(s.nowTime())
	for _, sample := range samples {
		sample.Stamp(now, now)
	}

	if err := s.writeAll(samples); err != nil {
		return errors.Wrap(err, "[Store.SeedIfEmpty]")
	}
	s.logger.Info().Str("key", s.key).Int("count", len(samples)).Msg("seeded empty collection")
	return nil
}

func (s *Store[T]) writeAll(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "json.Marshal")
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		return apperrors.Classify(apperrors.ErrPersistence, errors.Wrap(err, "kv.Set"))
	}
	return nil
}
