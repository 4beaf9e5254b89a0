package wire

import (
	"bufio"
	"context"
	"os"

	"github.com/fixprobe/fixprobe/internal/tag"
)

// RecordStore is the counterparty's append-only reply log. Scan returns
// every decodable record, oldest first. The engine only reads the store.
type RecordStore interface {
	Scan(ctx context.Context) ([]*tag.FieldMap, error)
}

// LogStore reads an append-only log file of wire-delimited messages, one
// per line. The file is re-read from the top on every Scan so that records
// appended between polls, or present before the first poll, are all seen.
type LogStore struct {
	Path  string
	Delim string // wire delimiter used in the log, normally tag.SOH
}

// Scan decodes every line of the log. A missing file is not an error: the
// counterparty may not have produced output yet, which to the caller is the
// same as "no matching record yet".
func (s *LogStore) Scan(ctx context.Context) ([]*tag.FieldMap, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []*tag.FieldMap
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		records = append(records, tag.Decode(line, s.Delim))
	}
	return records, scanner.Err()
}
