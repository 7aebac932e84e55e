package engine

import (
	"io"
	"strings"
	"sync"
)

// fakeHandle scripts one spawned process. When release is non-nil, Wait blocks
// until the handle is killed, which models a long-running encode.
type fakeHandle struct {
	stdout  io.Reader
	stderr  io.Reader
	waitErr error
	release chan struct{}

	mu     sync.Mutex
	killed bool
}

func newFakeHandle(stdout, stderr string, waitErr error) *fakeHandle {
	return &fakeHandle{
		stdout:  strings.NewReader(stdout),
		stderr:  strings.NewReader(stderr),
		waitErr: waitErr,
	}
}

func newBlockingHandle(waitErr error) *fakeHandle {
	h := newFakeHandle("", "", waitErr)
	h.release = make(chan struct{})
	return h
}

func (h *fakeHandle) Stdout() io.Reader { return h.stdout }

func (h *fakeHandle) Stderr() io.Reader { return h.stderr }

func (h *fakeHandle) Kill() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.killed {
		return
	}
	h.killed = true
	if h.release != nil {
		close(h.release)
	}
}

func (h *fakeHandle) Wait() error {
	if h.release != nil {
		<-h.release
	}
	return h.waitErr
}

func (h *fakeHandle) Killed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.killed
}

// fakeStarter hands out scripted handles in order and records every launch.
type fakeStarter struct {
	mu      sync.Mutex
	handles []*fakeHandle
	err     error
	calls   [][]string
}

func (s *fakeStarter) Start(name string, args []string) (processHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	s.calls = append(s.calls, append([]string{name}, args...))
	if len(s.handles) == 0 {
		return newFakeHandle("", "", nil), nil
	}
	h := s.handles[0]
	s.handles = s.handles[1:]
	return h, nil
}

func (s *fakeStarter) callArgs(i int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= len(s.calls) {
		return nil
	}
	return s.calls[i]
}

func (s *fakeStarter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func fixedID(id string) func() string {
	return func() string { return id }
}
