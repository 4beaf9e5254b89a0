package testutil

import (
	"context"
	"sync"

	"github.com/fixprobe/fixprobe/internal/tag"
)

// MemoryStore is an in-memory record store. Records can be appended at any
// time, including between poll attempts (via the retriever's Sleep hook),
// to simulate a counterparty that replies late.
type MemoryStore struct {
	mu      sync.Mutex
	records []*tag.FieldMap
	scans   int

	// ScanErr, if set, fails every Scan.
	ScanErr error
}

// Append adds a record to the end of the store.
func (s *MemoryStore) Append(rec *tag.FieldMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec.Clone())
}

// AppendLine decodes a delimited line and appends it.
func (s *MemoryStore) AppendLine(line, delim string) {
	s.Append(tag.Decode(line, delim))
}

// Scan returns all records, oldest first.
func (s *MemoryStore) Scan(_ context.Context) ([]*tag.FieldMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans++
	if s.ScanErr != nil {
		return nil, s.ScanErr
	}
	out := make([]*tag.FieldMap, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Scans returns how many times the store has been scanned.
func (s *MemoryStore) Scans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans
}
