package kvstore

// Store is the durable key-value persistence port. Values are plain JSON
// strings so the backing store stays human-inspectable. Implementations must
// write through synchronously; there is no buffering layer above them.
type Store interface {
	// Get returns the value for key. The second return is false when the key
	// is absent, which is not an error.
	Get(key string) (string, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}
