package storage

// Backend defines the operations needed for persisting the serialized module
// collection under one fixed location (a single storage key).
// This allows swapping implementations (e.g., a file vs. an in-memory buffer
// for tests) later.
type Backend interface {
	// Load retrieves the serialized collection. Returns an error wrapping
	// os.ErrNotExist when nothing has been persisted yet.
	Load() ([]byte, error)

	// Save overwrites the persisted collection wholesale.
	Save(data []byte) error

	// Location returns a human-readable description of where the data lives,
	// for logging.
	Location() string
}
