// Package wire dispatches encoded messages to the external counterparty and
// retrieves the correlated reply from its record log.
package wire

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/fixprobe/fixprobe/internal/tag"
)

// Transport hands one fully encoded message to the counterparty.
// Fire-and-forget: the reply arrives asynchronously through the record
// store, never through the return value.
type Transport interface {
	Send(ctx context.Context, encoded string) error
}

// ScriptTransport submits messages by invoking an external command with the
// wire-delimited message as its final argument. This matches the historical
// send script contract: the script owns the session, we own the message.
type ScriptTransport struct {
	Command string
	Args    []string // fixed arguments placed before the message
}

// Send runs the command once. A non-zero exit or a spawn failure is a
// submission failure; the caller wraps it as a TransmissionError.
func (t *ScriptTransport) Send(ctx context.Context, encoded string) error {
	if t.Command == "" {
		return fmt.Errorf("script transport: no command configured")
	}
	args := append(append([]string{}, t.Args...), encoded)
	cmd := exec.CommandContext(ctx, t.Command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("run %s: %w (output: %s)", t.Command, err, out)
	}
	// Logs stay readable: SOH bytes are swapped for the printable delimiter.
	slog.Debug("message submitted",
		"command", t.Command,
		"message", tag.Rewire(encoded, tag.SOH, "|"),
	)
	return nil
}
