package engine

import (
	"context"
	"io"
	"os/exec"
	"sync"
)

// starter abstracts process creation for testability.
type starter interface {
	Start(name string, args []string) (processHandle, error)
}

// processHandle is one spawned encoder process, shared between the stream
// readers, the cancellation hooks, and final cleanup. Kill is idempotent and
// safe to call from any of them, including after the process has exited.
type processHandle interface {
	Stdout() io.Reader
	Stderr() io.Reader
	Kill()
	Wait() error
}

// execStarter spawns real processes via os/exec.
type execStarter struct{}

// Start launches the command with both streams piped.
func (execStarter) Start(name string, args []string) (processHandle, error) {
	cmd := exec.Command(name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &sharedProcess{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

// sharedProcess wraps one child process with a lock-guarded kill.
type sharedProcess struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader

	mu     sync.Mutex
	killed bool
}

func (p *sharedProcess) Stdout() io.Reader {
	return p.stdout
}

func (p *sharedProcess) Stderr() io.Reader {
	return p.stderr
}

// Kill terminates the process. Killing an already-exited process is not an
// error; repeated calls are no-ops.
func (p *sharedProcess) Kill() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.killed || p.cmd.Process == nil {
		return
	}
	p.killed = true
	_ = p.cmd.Process.Kill()
}

// Wait blocks until the process exits. Callers must finish reading both
// streams first.
func (p *sharedProcess) Wait() error {
	return p.cmd.Wait()
}

// watchTeardown kills the process if the host context ends while the job is
// still running. Closing done releases the watcher.
func watchTeardown(ctx context.Context, proc processHandle, done <-chan struct{}) {
	if ctx == nil {
		return
	}
	go func() {
		select {
		case <-ctx.Done():
			proc.Kill()
		case <-done:
		}
	}()
}

// drain consumes a stream to EOF so process teardown is never blocked on a
// full pipe.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, r)
}
