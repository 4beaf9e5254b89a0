// Package testutil provides deterministic collaborator fakes for tests.
package testutil

import (
	"context"
	"sync"
)

// FakeTransport records every submitted message. If Err is set, Send
// rejects each submission with it.
type FakeTransport struct {
	mu   sync.Mutex
	sent []string

	Err error
}

// Send records the encoded message, or fails with Err.
func (t *FakeTransport) Send(_ context.Context, encoded string) error {
	if t.Err != nil {
		return t.Err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, encoded)
	return nil
}

// Sent returns the submitted messages in order.
func (t *FakeTransport) Sent() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.sent))
	copy(out, t.sent)
	return out
}
