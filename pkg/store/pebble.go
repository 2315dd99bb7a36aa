package store

import (
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
)

// PebbleKV is the durable KV implementation, backed by a Pebble database on
// disk. Writes use synchronous options: the store is the only writer in the
// process and every record must survive a restart.
type PebbleKV struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) the database under path.
func OpenPebble(path string) (*PebbleKV, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &PebbleKV{db: db}, nil
}

// Close closes the database.
func (p *PebbleKV) Close() error {
	return p.db.Close()
}

// Get retrieves a value, returning (nil, nil) when the key is absent.
func (p *PebbleKV) Get(key string) ([]byte, error) {
	value, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	// The value is only valid until closer.Close().
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// Set stores a value durably.
func (p *PebbleKV) Set(key string, value []byte) error {
	return p.db.Set([]byte(key), value, pebble.Sync)
}

// Delete removes a key. Deleting an absent key is not an error.
func (p *PebbleKV) Delete(key string) error {
	return p.db.Delete([]byte(key), pebble.Sync)
}
