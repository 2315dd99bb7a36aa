package store

import (
	"encoding/json"
	"fmt"

	"cwallet/pkg/models"
)

// ProfileStore persists the display identity, independently of the session.
type ProfileStore struct {
	kv KV
}

// NewProfileStore creates a ProfileStore over the given KV.
func NewProfileStore(kv KV) *ProfileStore {
	return &ProfileStore{kv: kv}
}

type profileRecord struct {
	Version int            `json:"version"`
	Profile models.Profile `json:"profile"`
}

// Load returns the persisted profile, or the default placeholder when none
// exists. A profile never has an empty display name.
func (s *ProfileStore) Load() (models.Profile, error) {
	data, err := s.kv.Get(KeyProfile)
	if err != nil {
		return models.DefaultProfile(), fmt.Errorf("load profile: %w", err)
	}
	if data == nil {
		return models.DefaultProfile(), nil
	}
	var rec profileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.DefaultProfile(), fmt.Errorf("decode profile: %w", err)
	}
	if rec.Profile.DisplayName == "" {
		rec.Profile.DisplayName = models.DefaultProfile().DisplayName
	}
	return rec.Profile, nil
}

// Save persists the profile. An empty display name is replaced by the
// default placeholder rather than persisted.
func (s *ProfileStore) Save(p models.Profile) error {
	if p.DisplayName == "" {
		p.DisplayName = models.DefaultProfile().DisplayName
	}
	data, err := json.Marshal(profileRecord{Version: schemaVersion, Profile: p})
	if err != nil {
		return err
	}
	return s.kv.Set(KeyProfile, data)
}

// Update applies a partial update: empty fields keep their current value.
func (s *ProfileStore) Update(displayName, avatarRef string) (models.Profile, error) {
	current, err := s.Load()
	if err != nil {
		return current, err
	}
	if displayName != "" {
		current.DisplayName = displayName
	}
	if avatarRef != "" {
		current.AvatarRef = avatarRef
	}
	if err := s.Save(current); err != nil {
		return current, err
	}
	return current, nil
}

// Clear resets the profile to defaults.
func (s *ProfileStore) Clear() error {
	return s.kv.Delete(KeyProfile)
}
