package types

// Store is the durable home of a Snapshot. Implementations must make Save
// durable before returning and must round-trip a snapshot exactly.
type Store interface {
	// Load returns the last saved snapshot, or an empty snapshot if nothing
	// has been saved yet.
	Load() (Snapshot, error)

	// Save replaces the stored snapshot with s.
	Save(s Snapshot) error

	// Close releases backend resources. Idempotent. After Close, Load and
	// Save return ErrStoreClosed.
	Close() error
}
