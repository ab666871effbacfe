// Package subprocess supervises a spawned child process (the GraphWalker
// generator, or a co-spawned test executor): it captures stdout/stderr into
// bounded ring buffers, waits for a readiness signal, and guarantees the
// child is killed on every exit path.
//
// Grounded on original_source/altwalker/_utils.py's Command class, which
// wraps psutil.Popen with a dedicated process group so the whole tree can
// be killed together.
package subprocess

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Supervisor owns one spawned child process.
type Supervisor struct {
	cmd    *exec.Cmd
	Stdout *RingBuffer
	Stderr *RingBuffer

	mu      sync.Mutex
	killed  bool
	exited  chan struct{}
	exitErr error
}

// Start spawns name with args, wiring stdout/stderr into bounded ring
// buffers. The child starts immediately; callers should follow up with
// WaitHealthy or WaitForMarker before trusting it is ready.
func Start(ctx context.Context, name string, args []string, bufferLines int) (*Supervisor, error) {
	cmd := exec.CommandContext(context.Background(), name, args...) // own lifetime, not tied to a request context
	setProcessGroup(cmd)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("subprocess: stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("subprocess: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("subprocess: starting %s: %w", name, err)
	}

	s := &Supervisor{
		cmd:    cmd,
		Stdout: NewRingBuffer(bufferLines),
		Stderr: NewRingBuffer(bufferLines),
		exited: make(chan struct{}),
	}

	var g errgroup.Group
	g.Go(func() error { drain(stdoutPipe, s.Stdout); return nil })
	g.Go(func() error { drain(stderrPipe, s.Stderr); return nil })

	go func() {
		_ = g.Wait()
		s.exitErr = cmd.Wait()
		close(s.exited)
	}()

	return s, nil
}

func drain(r io.Reader, buf *RingBuffer) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		buf.Write(scanner.Text())
	}
}

// Alive reports whether the child is still running.
func (s *Supervisor) Alive() bool {
	select {
	case <-s.exited:
		return false
	default:
		return true
	}
}

// ExitCode returns the child's exit code once it has exited, or -1 if it
// is still running.
func (s *Supervisor) ExitCode() int {
	if s.Alive() {
		return -1
	}
	return s.cmd.ProcessState.ExitCode()
}

// Pid returns the spawned process's id.
func (s *Supervisor) Pid() int {
	if s.cmd.Process == nil {
		return -1
	}
	return s.cmd.Process.Pid
}

// WaitHealthy polls probe until it returns nil, the child exits, or
// timeout elapses.
func (s *Supervisor) WaitHealthy(ctx context.Context, timeout time.Duration, probe func() error) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := probe(); err == nil {
			return nil
		}
		if !s.Alive() {
			return fmt.Errorf("subprocess exited during health check (exit code %d):\n%s", s.ExitCode(), s.Stderr.String())
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("subprocess did not become healthy within %s:\n%s", timeout, s.Stderr.String())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitForMarker polls the captured stdout and stderr for a line containing marker,
// used when a child announces readiness via a log line rather than an
// independently reachable health endpoint, as the GraphWalker service does.
func (s *Supervisor) WaitForMarker(ctx context.Context, timeout time.Duration, marker string) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Stdout.Contains(marker) || s.Stderr.Contains(marker) {
			return nil
		}
		if !s.Alive() {
			return fmt.Errorf("subprocess exited before announcing readiness (exit code %d):\n%s", s.ExitCode(), s.Stderr.String())
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("subprocess did not announce readiness within %s:\n%s", timeout, s.Stdout.String())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Kill terminates the child (and its process group) and is idempotent.
func (s *Supervisor) Kill() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.killed {
		return
	}
	s.killed = true

	if s.cmd.Process != nil {
		killProcessGroup(s.cmd)
	}

	select {
	case <-s.exited:
	case <-time.After(5 * time.Second):
	}
}
