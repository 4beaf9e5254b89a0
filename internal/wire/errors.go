package wire

import (
	"errors"
	"fmt"
	"time"
)

// TransmissionError means the transport collaborator rejected the
// submission. Soft: the case is recorded as FAIL and the run continues.
type TransmissionError struct {
	CorrelationID string
	Err           error
}

func (e *TransmissionError) Error() string {
	return fmt.Sprintf("ERR_TRANSMISSION: submit message (11=%s): %v", e.CorrelationID, e.Err)
}

func (e *TransmissionError) Unwrap() error { return e.Err }

// CorrelationTimeoutError means no matching reply appeared within the retry
// budget. Soft: the case is recorded as FAIL and the run continues.
type CorrelationTimeoutError struct {
	CorrelationID string
	MsgType       string
	Attempts      int
	Delay         time.Duration
}

func (e *CorrelationTimeoutError) Error() string {
	return fmt.Sprintf("ERR_CORRELATION_TIMEOUT: no reply for (11=%s, 35=%s) after %d attempts (%s apart)",
		e.CorrelationID, e.MsgType, e.Attempts, e.Delay)
}

// IsTransmissionError reports whether err is (or wraps) a TransmissionError.
func IsTransmissionError(err error) bool {
	var te *TransmissionError
	return errors.As(err, &te)
}

// IsTimeoutError reports whether err is (or wraps) a CorrelationTimeoutError.
func IsTimeoutError(err error) bool {
	var ce *CorrelationTimeoutError
	return errors.As(err, &ce)
}
