package jobs

import "sync"

// Token is a per-job cancellation handle. The orchestrator binds the running
// process's kill hook at spawn time; the host layer calls Cancel when a
// matching cancel request arrives. A cancel racing ahead of Bind still kills
// the process once it is bound.
type Token struct {
	mu        sync.Mutex
	cancelled bool
	kill      func()
}

// NewToken creates an unbound, uncancelled token.
func NewToken() *Token {
	return &Token{}
}

// Bind attaches the kill hook of the job's process.
func (t *Token) Bind(kill func()) {
	t.mu.Lock()
	t.kill = kill
	cancelled := t.cancelled
	t.mu.Unlock()

	if cancelled && kill != nil {
		kill()
	}
}

// Unbind detaches the kill hook; later cancels become no-ops on the process.
func (t *Token) Unbind() {
	t.mu.Lock()
	t.kill = nil
	t.mu.Unlock()
}

// Cancel kills the bound process, if any, and records the cancellation.
func (t *Token) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	kill := t.kill
	t.mu.Unlock()

	if kill != nil {
		kill()
	}
}

// Cancelled reports whether Cancel was called. The supervisor reads this once
// after the process wait completes, so a cancel arriving after natural
// completion does not change the reported result.
func (t *Token) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}
