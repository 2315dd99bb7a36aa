// Package store holds the durable key-value persistence for the wallet core:
// the last-connected account, the user profile, and the split-payment
// collection. Each record lives under a fixed key as a version-tagged JSON
// envelope so future field additions stay readable.
package store

// Fixed record keys.
const (
	KeyAccount = "wallet.address"
	KeyProfile = "user.profile"
	KeySplits  = "wallet.splits"
)

// schemaVersion tags every persisted envelope.
const schemaVersion = 1

// KV is the persistence collaborator. Get returns (nil, nil) for a missing
// key. Implementations are single-writer per process; calls are sequenced by
// the stores, so a Set immediately followed by a Get observes the new value.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
