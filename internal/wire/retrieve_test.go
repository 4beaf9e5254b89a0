package wire

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixprobe/fixprobe/internal/tag"
	"github.com/fixprobe/fixprobe/internal/testutil"
)

func newRetriever(store RecordStore, attempts int, delay time.Duration, sleep func(time.Duration)) *Retriever {
	return &Retriever{
		Store:       store,
		MaxAttempts: attempts,
		Delay:       delay,
		IDField:     "11",
		TypeField:   "35",
		Sleep:       sleep,
	}
}

func TestRetrieve_FindsRecordPresentBeforeFirstPoll(t *testing.T) {
	store := &testutil.MemoryStore{}
	store.AppendLine("11=TC1_ab\x0135=D\x0139=0", tag.SOH)

	r := newRetriever(store, 1, 0, func(time.Duration) {})

	rec, err := r.Retrieve(context.Background(), "TC1_ab", "D")
	require.NoError(t, err)
	assert.Equal(t, "0", rec.Value("39"))
}

func TestRetrieve_FirstMatchWins(t *testing.T) {
	store := &testutil.MemoryStore{}
	store.AppendLine("11=TC1_ab\x0135=D\x0139=0", tag.SOH)
	store.AppendLine("11=TC1_ab\x0135=D\x0139=2", tag.SOH)

	r := newRetriever(store, 1, 0, func(time.Duration) {})

	rec, err := r.Retrieve(context.Background(), "TC1_ab", "D")
	require.NoError(t, err)
	assert.Equal(t, "0", rec.Value("39"), "scanning from the top, the oldest match wins")
}

func TestRetrieve_MatchesFullCorrelationKey(t *testing.T) {
	store := &testutil.MemoryStore{}
	store.AppendLine("11=TC1_ab\x0135=F", tag.SOH) // right id, wrong type
	store.AppendLine("11=OTHER\x0135=D", tag.SOH)  // wrong id, right type

	r := newRetriever(store, 2, 0, func(time.Duration) {})

	_, err := r.Retrieve(context.Background(), "TC1_ab", "D")
	assert.True(t, IsTimeoutError(err))
}

func TestRetrieve_RecordAppearsBetweenAttempts(t *testing.T) {
	store := &testutil.MemoryStore{}
	attempt := 0
	sleep := func(time.Duration) {
		attempt++
		if attempt == 3 {
			store.AppendLine("11=TC1_ab\x0135=D\x0139=0", tag.SOH)
		}
	}

	r := newRetriever(store, 5, time.Millisecond, sleep)

	rec, err := r.Retrieve(context.Background(), "TC1_ab", "D")
	require.NoError(t, err)
	assert.Equal(t, "0", rec.Value("39"))
	assert.Equal(t, 3, store.Scans(), "stops polling once matched")
}

func TestRetrieve_ExhaustsBudget(t *testing.T) {
	store := &testutil.MemoryStore{}
	var elapsed time.Duration
	sleep := func(d time.Duration) { elapsed += d }

	r := newRetriever(store, 5, 300*time.Millisecond, sleep)

	_, err := r.Retrieve(context.Background(), "TC1_ab", "D")
	require.Error(t, err)

	var ce *CorrelationTimeoutError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "TC1_ab", ce.CorrelationID)
	assert.Equal(t, "D", ce.MsgType)
	assert.Equal(t, 5, ce.Attempts)

	assert.Equal(t, 5, store.Scans())
	assert.Equal(t, 1500*time.Millisecond, elapsed,
		"total wait equals attempts times delay")
}

func TestRetrieve_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRetriever(&testutil.MemoryStore{}, 3, 0, func(time.Duration) {})

	_, err := r.Retrieve(ctx, "TC1_ab", "D")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransmissionError(t *testing.T) {
	err := &TransmissionError{CorrelationID: "TC1_ab", Err: assert.AnError}
	assert.True(t, IsTransmissionError(err))
	assert.False(t, IsTransmissionError(assert.AnError))
	assert.Contains(t, err.Error(), "ERR_TRANSMISSION")
}
