package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"transcatalog/internal/model"
)

// Snapshot is the flattened key→content view of one locale.
// Snapshots are shared between callers and must not be modified.
type Snapshot struct {
	Locale     string
	Entries    map[string]string
	Body       []byte
	ComputedAt time.Time
	ExpiresAt  time.Time
}

// Live reports whether the snapshot may still be served at now.
func (s *Snapshot) Live(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// Len returns the number of distinct keys.
func (s *Snapshot) Len() int {
	return len(s.Entries)
}

// Fold builds a snapshot from items in scan order. When several items share a
// key the later one wins.
func Fold(locale string, items []model.Translation, now time.Time, ttl time.Duration) (*Snapshot, error) {
	entries := make(map[string]string, len(items))
	for _, t := range items {
		entries[t.Key] = t.Content
	}

	body, err := encodeEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %q: %w", locale, err)
	}

	return &Snapshot{
		Locale:     locale,
		Entries:    entries,
		Body:       body,
		ComputedAt: now,
		ExpiresAt:  now.Add(ttl),
	}, nil
}

// encodeEntries renders entries as a JSON object with sorted keys and without
// HTML escaping, so equal maps always produce equal bytes.
func encodeEntries(entries map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
