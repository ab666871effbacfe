// Package gwclient talks to the GraphWalker path-generator: it spawns the
// "gw" subprocess and drives its REST service over HTTP.
//
// Grounded on original_source/altwalker/graphwalker.py's GraphWalkerClient
// and GraphWalkerService. The HTTP client is resty.dev/v3, the same
// library used for the executor wire client, rather than net/http
// directly — the corpus reaches for resty wherever it talks REST.
package gwclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"resty.dev/v3"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
)

// Client drives a running GraphWalker REST service.
type Client struct {
	http    *resty.Client
	base    string
	verbose bool
	alive   func() bool
}

// SetAliveChecker registers fn as the liveness probe HasNext consults when
// the generator returns an empty or malformed /hasNext body. Called by
// OnlinePlanner when it owns the generator subprocess; left nil for a
// client pointed at an independently-started service, where there is
// nothing to probe.
func (c *Client) SetAliveChecker(fn func() bool) {
	c.alive = fn
}

// NewClient returns a client pointed at a GraphWalker service listening on
// host:port. verbose controls whether GetNext strips the data/properties
// fields the service always includes (the service is always started with
// --verbose so modelName is present; verbose here is about what the
// caller wants surfaced, mirroring the Python client's own verbose flag).
func NewClient(host string, port int, verbose bool) *Client {
	return &Client{
		http:    resty.New(),
		base:    fmt.Sprintf("http://%s:%d/graphwalker", host, port),
		verbose: verbose,
	}
}

// Close releases the underlying HTTP client's resources.
func (c *Client) Close() error {
	return c.http.Close()
}

type envelope struct {
	Result string          `json:"result"`
	Error  string          `json:"error,omitempty"`
	Data   json.RawMessage `json:"-"`
}

func (c *Client) call(ctx context.Context, method, path string, body any) (map[string]any, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req = req.SetBody(body)
	}

	var resp *resty.Response
	var err error
	switch method {
	case "GET":
		resp, err = req.Get(c.base + path)
	case "PUT":
		resp, err = req.Put(c.base + path)
	case "POST":
		resp, err = req.Post(c.base + path)
	default:
		return nil, fmt.Errorf("gwclient: unsupported method %s", method)
	}
	if err != nil {
		return nil, &walkererrors.GeneratorError{Message: fmt.Sprintf("request to %s failed", path), Err: err}
	}

	if resp.StatusCode() != 200 {
		return nil, &walkererrors.GeneratorError{
			Message:  fmt.Sprintf("generator responded with status code %d", resp.StatusCode()),
			ExitCode: resp.StatusCode(),
		}
	}

	var out map[string]any
	if err := json.Unmarshal(resp.Bytes(), &out); err != nil {
		return nil, &walkererrors.GeneratorError{Message: "malformed response body", Err: err}
	}

	result, _ := out["result"].(string)
	switch result {
	case "ok":
		delete(out, "result")
		return out, nil
	case "nok":
		if msg, ok := out["error"].(string); ok && msg != "" {
			return nil, &walkererrors.GeneratorError{Message: msg}
		}
		return nil, &walkererrors.GeneratorError{Message: "generator responded with an nok status"}
	default:
		return nil, &walkererrors.GeneratorError{Message: "generator did not respond with an ok status"}
	}
}

// Load uploads a model set in JSON format to the generator.
func (c *Client) Load(ctx context.Context, modelSetJSON []byte) error {
	_, err := c.call(ctx, "POST", "/load", string(modelSetJSON))
	return err
}

// HasNext reports whether another step is available before the stop
// conditions are satisfied. The generator occasionally responds to
// /hasNext with an empty or malformed body right as a long-running stop
// condition is being evaluated; that is treated as "no more" when the
// generator subprocess is still alive (there is no process to check for
// a client pointed at an independently-started service, so the body is
// treated as every other envelope there), and as a hard error otherwise.
func (c *Client) HasNext(ctx context.Context) (bool, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.base + "/hasNext")
	if err != nil {
		return false, &walkererrors.GeneratorError{Message: "request to /hasNext failed", Err: err}
	}
	if resp.StatusCode() != 200 {
		return false, &walkererrors.GeneratorError{
			Message:  fmt.Sprintf("generator responded with status code %d", resp.StatusCode()),
			ExitCode: resp.StatusCode(),
		}
	}

	var out map[string]any
	if err := json.Unmarshal(resp.Bytes(), &out); err != nil || len(out) == 0 {
		if c.alive != nil && c.alive() {
			return false, nil
		}
		return false, &walkererrors.GeneratorError{Message: "malformed response body", Err: err}
	}

	result, _ := out["result"].(string)
	switch result {
	case "ok":
		v, _ := out["hasNext"].(string)
		return v == "true", nil
	case "nok":
		if msg, ok := out["error"].(string); ok && msg != "" {
			return false, &walkererrors.GeneratorError{Message: msg}
		}
		return false, &walkererrors.GeneratorError{Message: "generator responded with an nok status"}
	default:
		return false, &walkererrors.GeneratorError{Message: "generator did not respond with an ok status"}
	}
}

// Step mirrors the generator's getNext response before normalization.
type Step struct {
	ID                string
	Name              string
	ModelName         string
	Data              map[string]string
	Properties        map[string]any
	Actions           []string
	UnvisitedElements []string
}

// GetNext returns the next step of the generated path.
func (c *Client) GetNext(ctx context.Context) (Step, error) {
	body, err := c.call(ctx, "GET", "/getNext", nil)
	if err != nil {
		return Step{}, err
	}
	return normalizeStep(body, c.verbose), nil
}

func normalizeStep(body map[string]any, verbose bool) Step {
	s := Step{}
	if v, ok := body["currentElementID"].(string); ok {
		s.ID = v
	}
	if v, ok := body["currentElementName"].(string); ok {
		s.Name = v
	}
	if v, ok := body["modelName"].(string); ok {
		s.ModelName = v
	}
	if raw, ok := body["unvisitedElements"].([]any); ok {
		for _, e := range raw {
			if str, ok := e.(string); ok {
				s.UnvisitedElements = append(s.UnvisitedElements, str)
			}
		}
	}
	if raw, ok := body["actions"].([]any); ok {
		for _, a := range raw {
			if m, ok := a.(map[string]any); ok {
				if act, ok := m["Action"].(string); ok {
					s.Actions = append(s.Actions, act)
				}
			}
		}
	}
	if verbose {
		if raw, ok := body["data"].([]any); ok {
			merged := map[string]string{}
			for _, entry := range raw {
				if m, ok := entry.(map[string]any); ok {
					for k, v := range m {
						merged[k] = fmt.Sprint(v)
					}
				}
			}
			s.Data = merged
		}
		if props, ok := body["properties"].(map[string]any); ok {
			s.Properties = props
		}
	}
	return s
}

// GetData returns the graph data currently held by the generator.
func (c *Client) GetData(ctx context.Context) (map[string]any, error) {
	body, err := c.call(ctx, "GET", "/getData", nil)
	if err != nil {
		return nil, err
	}
	data, _ := body["data"].(map[string]any)
	return data, nil
}

// SetData updates a single key in the generator's graph data. String
// values are quoted and other values rendered as JavaScript literals so the generator
// parses them as the right type rather than as an opaque string, matching
// the Python client's _normalize_data.
func (c *Client) SetData(ctx context.Context, key string, value any) error {
	k, v := normalizeData(key, value)
	_, err := c.call(ctx, "PUT", "/setData/"+k+"="+v, nil)
	return err
}

func normalizeData(key string, value any) (string, string) {
	var rendered string
	switch v := value.(type) {
	case bool:
		if v {
			rendered = "true"
		} else {
			rendered = "false"
		}
	case string:
		rendered = strconv.Quote(v)
	default:
		rendered = fmt.Sprint(v)
	}
	return url.QueryEscape(key), url.QueryEscape(rendered)
}

// Restart resets the currently loaded model set to its initial state.
func (c *Client) Restart(ctx context.Context) error {
	_, err := c.call(ctx, "PUT", "/restart", nil)
	return err
}

// Fail marks the current step as failed in the generator's path-finding
// state, so path generators that react to failures (weighted random,
// etc.) can route around the failing element.
func (c *Client) Fail(ctx context.Context, message string) error {
	if message == "" {
		message = "Unknown error."
	}
	_, err := c.call(ctx, "PUT", "/fail/"+url.QueryEscape(message), nil)
	return err
}

// Statistics reports path/failure coverage for the current generator
// session.
func (c *Client) Statistics(ctx context.Context) (map[string]any, error) {
	return c.call(ctx, "GET", "/getStatistics", nil)
}
