package store

import (
	"encoding/json"
	"fmt"

	"cwallet/pkg/models"
)

// SplitStore persists the split-payment collection as a single ordered
// record, most-recent first.
type SplitStore struct {
	kv KV
}

// NewSplitStore creates a SplitStore over the given KV.
func NewSplitStore(kv KV) *SplitStore {
	return &SplitStore{kv: kv}
}

type splitsRecord struct {
	Version int                   `json:"version"`
	Splits  []models.SplitPayment `json:"splits"`
}

// Load reads the full collection. An absent record returns an empty list.
func (s *SplitStore) Load() ([]models.SplitPayment, error) {
	data, err := s.kv.Get(KeySplits)
	if err != nil {
		return nil, fmt.Errorf("load splits: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var rec splitsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode splits: %w", err)
	}
	return rec.Splits, nil
}

// Save overwrites the full collection.
func (s *SplitStore) Save(splits []models.SplitPayment) error {
	data, err := json.Marshal(splitsRecord{Version: schemaVersion, Splits: splits})
	if err != nil {
		return err
	}
	return s.kv.Set(KeySplits, data)
}
