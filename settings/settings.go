// Package settings defines the per-guild settings boundary the dispatch
// engine consumes, plus a datastore-backed implementation of it.
package settings

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/keshon/datastore"
)

// Manager supplies per-guild settings objects. The dispatch engine never
// inspects the returned value itself; commands may.
type Manager interface {
	// Settings returns the settings object for a guild, or nil.
	Settings(guildID string) any
	Init() error
	Close() error
}

// PrefixProvider is an optional capability a Manager can implement to supply
// per-guild command prefixes. The dispatch engine resolves the capability
// once at construction and never probes per event.
type PrefixProvider interface {
	// Prefixes returns the guild's extra prefixes, nil or empty when none.
	Prefixes(guildID string) []string
}

// GuildRecord is the stored per-guild settings shape.
type GuildRecord struct {
	Prefixes []string `json:"prefixes"`
}

// Store is a Manager and PrefixProvider backed by a datastore JSON file.
type Store struct {
	ds *datastore.DataStore
}

// Open opens or creates the settings store at filePath.
func Open(filePath string) (*Store, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}
	return &Store{ds: ds}, nil
}

// Init implements Manager. The datastore is ready as soon as it is opened.
func (s *Store) Init() error { return nil }

// Close flushes and closes the backing datastore.
func (s *Store) Close() error { return s.ds.Close() }

// Settings returns the guild's record, an empty record when none is stored,
// or nil when the stored value cannot be decoded.
func (s *Store) Settings(guildID string) any {
	rec, err := s.record(guildID)
	if err != nil {
		return nil
	}
	return rec
}

// Prefixes implements PrefixProvider.
func (s *Store) Prefixes(guildID string) []string {
	rec, err := s.record(guildID)
	if err != nil {
		return nil
	}
	return rec.Prefixes
}

// SetPrefixes replaces the guild's prefix list.
func (s *Store) SetPrefixes(guildID string, prefixes []string) error {
	rec, err := s.record(guildID)
	if err != nil {
		return err
	}
	rec.Prefixes = prefixes
	s.ds.Add(guildID, rec)
	return nil
}

// AddPrefix appends a prefix to the guild's list if not already present.
func (s *Store) AddPrefix(guildID, prefix string) error {
	rec, err := s.record(guildID)
	if err != nil {
		return err
	}
	if slices.Contains(rec.Prefixes, prefix) {
		return nil
	}
	rec.Prefixes = append(rec.Prefixes, prefix)
	s.ds.Add(guildID, rec)
	return nil
}

// RemovePrefix deletes a prefix from the guild's list.
func (s *Store) RemovePrefix(guildID, prefix string) error {
	rec, err := s.record(guildID)
	if err != nil {
		return err
	}
	i := slices.Index(rec.Prefixes, prefix)
	if i < 0 {
		return nil
	}
	rec.Prefixes = slices.Delete(rec.Prefixes, i, i+1)
	s.ds.Add(guildID, rec)
	return nil
}

// record decodes the stored value for a guild. The datastore hands back
// generic JSON values, so round-trip through json to the concrete type.
func (s *Store) record(guildID string) (*GuildRecord, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		return &GuildRecord{}, nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling settings: %w", err)
	}
	var rec GuildRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("error unmarshalling settings: %w", err)
	}
	return &rec, nil
}
