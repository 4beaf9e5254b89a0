// Package resolve substitutes ${tag} and ${caseId.tag} placeholders using
// the message under construction and the registry of previously sent
// messages.
package resolve

import (
	"github.com/fixprobe/fixprobe/internal/tag"
)

// Registry records the field map actually sent for each test case, keyed by
// TestCaseID. It is append-only and write-once: the runner populates an
// entry at dispatch time and later cases may read it. A lookup miss means
// the referenced case has not executed yet (or does not exist); forward
// references are a hard per-case error at resolution time.
//
// The run loop is single-threaded, so no locking is needed here.
type Registry struct {
	order   []string
	entries map[string]*tag.FieldMap
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*tag.FieldMap)}
}

// Put records the sent field map for testCaseID. The map is cloned so later
// mutation by the caller cannot rewrite history. Returns false if an entry
// already exists; entries are write-once.
func (r *Registry) Put(testCaseID string, sent *tag.FieldMap) bool {
	if _, ok := r.entries[testCaseID]; ok {
		return false
	}
	r.order = append(r.order, testCaseID)
	r.entries[testCaseID] = sent.Clone()
	return true
}

// Get returns the sent field map for testCaseID, if the case has executed.
func (r *Registry) Get(testCaseID string) (*tag.FieldMap, bool) {
	m, ok := r.entries[testCaseID]
	return m, ok
}

// Cases returns the recorded TestCaseIDs in execution order.
func (r *Registry) Cases() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of recorded cases.
func (r *Registry) Len() int {
	return len(r.order)
}
