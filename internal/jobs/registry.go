package jobs

import (
	"errors"
	"fmt"
	"sync"
)

// ErrJobAlreadyRunning is returned when registering a duplicate job id.
var ErrJobAlreadyRunning = errors.New("job already running")

// ErrNoRunningJob is returned when cancel is requested for an unknown id.
var ErrNoRunningJob = errors.New("no running job")

// Registry maps running job ids to their cancellation tokens. It is the
// translation point between host cancel signals and per-job tokens; jobs do
// not share any other state.
type Registry struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tokens: make(map[string]*Token)}
}

// Register creates and tracks a token for a new job id.
func (r *Registry) Register(id string) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrJobAlreadyRunning, id)
	}

	token := NewToken()
	r.tokens[id] = token
	return token, nil
}

// Deregister stops tracking a finished job. Safe to call for unknown ids.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, id)
}

// Cancel cancels the job with the given id.
func (r *Registry) Cancel(id string) error {
	r.mu.Lock()
	token := r.tokens[id]
	r.mu.Unlock()

	if token == nil {
		return fmt.Errorf("%w: %s", ErrNoRunningJob, id)
	}

	token.Cancel()
	return nil
}

// CancelAll cancels every tracked job; used on host teardown.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	tokens := make([]*Token, 0, len(r.tokens))
	for _, token := range r.tokens {
		tokens = append(tokens, token)
	}
	r.mu.Unlock()

	for _, token := range tokens {
		token.Cancel()
	}
}

// Active returns the number of tracked jobs.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}
