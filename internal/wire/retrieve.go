package wire

import (
	"context"
	"log/slog"
	"time"

	"github.com/fixprobe/fixprobe/internal/tag"
)

// Retriever polls a RecordStore for the reply matching a correlation key.
//
// The poll loop is a bounded busy-wait: up to MaxAttempts scans with Delay
// between them, giving a hard worst-case latency of MaxAttempts × Delay per
// case. There is no cancellation beyond the context; a stalled counterparty
// simply exhausts the budget and the case fails soft.
type Retriever struct {
	Store       RecordStore
	MaxAttempts int
	Delay       time.Duration
	IDField     string
	TypeField   string

	// Sleep is swappable for tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// Retrieve returns the first record whose identifier field equals corrID
// and whose type field equals msgType, scanning the store from the top on
// every attempt. Exhausting the budget returns a *CorrelationTimeoutError.
func (r *Retriever) Retrieve(ctx context.Context, corrID, msgType string) (*tag.FieldMap, error) {
	sleep := r.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		sleep(r.Delay)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := r.Store.Scan(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if rec.Value(r.IDField) == corrID && rec.Value(r.TypeField) == msgType {
				slog.Debug("reply matched",
					"correlation_id", corrID,
					"msg_type", msgType,
					"attempt", attempt,
				)
				return rec, nil
			}
		}
		slog.Debug("no reply yet",
			"correlation_id", corrID,
			"msg_type", msgType,
			"attempt", attempt,
			"max_attempts", r.MaxAttempts,
		)
	}

	return nil, &CorrelationTimeoutError{
		CorrelationID: corrID,
		MsgType:       msgType,
		Attempts:      r.MaxAttempts,
		Delay:         r.Delay,
	}
}
