package gwclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
	"github.com/altwalker/altwalker/internal/subprocess"
)

// ModelSource is one --model argument: a path to a model file paired with
// the stop condition GraphWalker should generate a path against (e.g.
// "random(edge_coverage(100))").
type ModelSource struct {
	Path          string
	StopCondition string
}

// ReadyMarker is the log line the GraphWalker REST service prints once its
// HTTP server is accepting connections. Grounded on
// GraphWalkerService._read_logs, which polls its log file for this exact
// substring.
const ReadyMarker = "[HttpServer] Started"

// binaryName is the executable original_source shells out to. Overridable
// in tests.
var binaryName = "gw"

func buildArgs(command string, models []ModelSource, port int, service, startElement string, verbose, unvisited bool, blocked *bool) []string {
	var args []string
	args = append(args, command)
	for _, m := range models {
		args = append(args, "--model", m.Path, m.StopCondition)
	}
	if port != 0 {
		args = append(args, "--port", strconv.Itoa(port))
	}
	if service != "" {
		args = append(args, "--service", service)
	}
	if startElement != "" {
		args = append(args, "--start-element", startElement)
	}
	if verbose {
		args = append(args, "--verbose")
	}
	if unvisited {
		args = append(args, "--unvisited")
	}
	if blocked != nil {
		args = append(args, "--blocked", strconv.FormatBool(*blocked))
	}
	return args
}

// ServiceConfig configures a spawned GraphWalker REST service.
type ServiceConfig struct {
	Models       []ModelSource
	Port         int // 0 picks a free port automatically
	StartElement string
	Unvisited    bool
	Blocked      *bool
	ReadyTimeout time.Duration
}

// GeneratorProcess owns a spawned "gw online" subprocess and a Client
// wired to its REST service.
type GeneratorProcess struct {
	sup    *subprocess.Supervisor
	Client *Client
	Port   int
}

// StartService spawns the GraphWalker REST service and blocks until it
// announces readiness or fails to start.
func StartService(ctx context.Context, cfg ServiceConfig) (*GeneratorProcess, error) {
	port := cfg.Port
	if port == 0 {
		p, err := pickFreePort()
		if err != nil {
			return nil, &walkererrors.GeneratorError{Message: "could not allocate a port for the generator service", Err: err}
		}
		port = p
	}

	args := buildArgs("online", cfg.Models, port, "RESTFUL", cfg.StartElement, true, cfg.Unvisited, cfg.Blocked)

	sup, err := subprocess.Start(ctx, binaryName, args, 512)
	if err != nil {
		return nil, &walkererrors.GeneratorError{Message: "could not start the generator service", Err: err}
	}

	timeout := cfg.ReadyTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if err := sup.WaitForMarker(ctx, timeout, ReadyMarker); err != nil {
		sup.Kill()
		return nil, &walkererrors.GeneratorError{
			Message:  fmt.Sprintf("generator service did not become ready on port %d", port),
			ExitCode: sup.ExitCode(),
			LogTail:  sup.Stdout.String() + "\n" + sup.Stderr.String(),
			Err:      err,
		}
	}

	return &GeneratorProcess{
		sup:    sup,
		Client: NewClient("127.0.0.1", port, true),
		Port:   port,
	}, nil
}

// Kill terminates the generator subprocess and closes its HTTP client.
func (g *GeneratorProcess) Kill() {
	g.sup.Kill()
	_ = g.Client.Close()
}

// Alive reports whether the generator subprocess is still running.
func (g *GeneratorProcess) Alive() bool { return g.sup.Alive() }

// runOneShot executes a "gw <command>" invocation to completion and
// returns its stdout. Any output on stderr is treated as a failure,
// matching original_source's _execute_command ("if error: raise").
func runOneShot(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binaryName, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stderr.Len() > 0 {
		return "", &walkererrors.GeneratorError{Message: strings.TrimSpace(stderr.String()), Err: err}
	}
	if err != nil {
		return "", &walkererrors.GeneratorError{Message: fmt.Sprintf("gw %s failed", strings.Join(args, " ")), Err: err}
	}
	return stdout.String(), nil
}

// Check runs "gw check" against a model set, validating it the way the
// generator itself understands the model (path-finding reachability,
// stop-condition syntax) rather than just JSON shape.
func Check(ctx context.Context, models []ModelSource, blocked *bool) (string, error) {
	args := buildArgs("check", models, 0, "", "", false, false, blocked)
	return runOneShot(ctx, args)
}

// Methods runs "gw methods" against a single model file and returns every
// unique vertex/edge name it contains, used to cross-check test code
// against the model without loading the full JSON model set.
func Methods(ctx context.Context, modelPath string, blocked bool) ([]string, error) {
	args := []string{"methods", "--model", modelPath}
	if blocked {
		args = append(args, "--blocked", "true")
	}
	output, err := runOneShot(ctx, args)
	if err != nil {
		return nil, err
	}
	output = strings.Trim(output, "\n")
	if output == "" {
		return nil, nil
	}
	return strings.Split(output, "\n"), nil
}

// Offline runs "gw offline" and returns the fully generated path as a
// slice of steps, for use by an OfflinePlanner. The command is always run
// with --verbose so each step carries its modelName.
func Offline(ctx context.Context, models []ModelSource, startElement string, unvisited bool, blocked *bool) ([]Step, error) {
	args := buildArgs("offline", models, 0, "", startElement, true, unvisited, blocked)
	output, err := runOneShot(ctx, args)
	if err != nil {
		return nil, err
	}

	var steps []Step
	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		var body map[string]any
		if err := json.Unmarshal([]byte(line), &body); err != nil {
			return nil, &walkererrors.GeneratorError{Message: "malformed offline output line", Err: err}
		}
		steps = append(steps, normalizeStep(body, true))
	}
	return steps, nil
}
