package executor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
	"github.com/altwalker/altwalker/internal/subprocess"
)

// ProcessConfig configures a co-spawned executor service: a test-code
// process that speaks the executor HTTP wire protocol, started and
// supervised by this runner rather than by the user ahead of time.
//
// Grounded on original_source/altwalker/executor.py's DotnetExecutorService,
// generalized from a hardcoded "dotnet" invocation to an arbitrary command
// since the wire protocol doesn't care what language started the service.
type ProcessConfig struct {
	Command      []string
	URL          string // service base URL once it's listening, e.g. http://localhost:5000
	ReadyMarker  string // log substring to wait for; empty disables marker-based readiness
	ReadyTimeout time.Duration
}

// ExecutorProcess owns a spawned test-executor subprocess and an
// HTTPExecutor wired to its service.
type ExecutorProcess struct {
	sup *subprocess.Supervisor
	*HTTPExecutor
}

// StartProcess spawns the configured command and waits for the service to
// become reachable before returning.
func StartProcess(ctx context.Context, cfg ProcessConfig) (*ExecutorProcess, error) {
	if len(cfg.Command) == 0 {
		return nil, &walkererrors.ExecutorTransportError{Message: "executor process: empty command"}
	}

	sup, err := subprocess.Start(ctx, cfg.Command[0], cfg.Command[1:], 512)
	if err != nil {
		return nil, &walkererrors.ExecutorTransportError{Message: "could not start executor service", Err: err}
	}

	timeout := cfg.ReadyTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpExecutor := NewHTTPExecutor(cfg.URL)

	var waitErr error
	if cfg.ReadyMarker != "" {
		waitErr = sup.WaitForMarker(ctx, timeout, cfg.ReadyMarker)
	} else {
		probe := func() error {
			resp, err := http.Get(cfg.URL + "/altwalker/hasModel?name=__readiness_probe__")
			if err != nil {
				return err
			}
			resp.Body.Close()
			return nil
		}
		waitErr = sup.WaitHealthy(ctx, timeout, probe)
	}

	if waitErr != nil {
		sup.Kill()
		return nil, &walkererrors.ExecutorTransportError{
			Message: fmt.Sprintf("executor service at %s did not become ready", cfg.URL),
			Err:     waitErr,
		}
	}

	return &ExecutorProcess{sup: sup, HTTPExecutor: httpExecutor}, nil
}

// Kill terminates the executor subprocess, overriding HTTPExecutor's
// no-op Kill since this variant does own the process.
func (p *ExecutorProcess) Kill() {
	p.sup.Kill()
}

// Alive reports whether the executor subprocess is still running.
func (p *ExecutorProcess) Alive() bool { return p.sup.Alive() }
