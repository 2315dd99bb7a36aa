package store

import (
	"encoding/json"
	"fmt"
)

// SessionStore persists the last-connected account identifier.
type SessionStore struct {
	kv KV
}

// NewSessionStore creates a SessionStore over the given KV.
func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

type sessionRecord struct {
	Version   int    `json:"version"`
	AccountID string `json:"account_id"`
}

// Load reads the persisted account identifier. An absent record returns the
// empty string with no error.
func (s *SessionStore) Load() (string, error) {
	data, err := s.kv.Get(KeyAccount)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return "", nil
	}
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("decode session: %w", err)
	}
	return rec.AccountID, nil
}

// Save persists the account identifier, overwriting any prior value.
func (s *SessionStore) Save(accountID string) error {
	data, err := json.Marshal(sessionRecord{Version: schemaVersion, AccountID: accountID})
	if err != nil {
		return err
	}
	return s.kv.Set(KeyAccount, data)
}

// Clear removes the persisted identifier.
func (s *SessionStore) Clear() error {
	return s.kv.Delete(KeyAccount)
}
