package executor

import (
	"context"
	"encoding/json"
	"fmt"

	"resty.dev/v3"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
	"github.com/altwalker/altwalker/internal/model"
)

// protocolKindByStatus maps the executor wire protocol's reserved status
// codes to a typed ProtocolKind.
var protocolKindByStatus = map[int]walkererrors.ProtocolKind{
	460: walkererrors.ModelNotFound,
	461: walkererrors.StepNotFound,
	462: walkererrors.InvalidStepHandler,
	463: walkererrors.PathNotFound,
	464: walkererrors.LoadError,
	465: walkererrors.NoCodeLoaded,
	500: walkererrors.Unhandled,
}

// HTTPExecutor talks to a test-code executor service over HTTP.
type HTTPExecutor struct {
	http *resty.Client
	base string
}

// NewHTTPExecutor returns an executor pointed at baseURL (e.g.
// "http://localhost:5000").
func NewHTTPExecutor(baseURL string) *HTTPExecutor {
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	return &HTTPExecutor{
		http: resty.New(),
		base: baseURL + "/altwalker",
	}
}

type errorPayload struct {
	Message string `json:"message"`
	Trace   string `json:"trace"`
}

type responseEnvelope struct {
	Payload json.RawMessage `json:"payload"`
	Error   *errorPayload   `json:"error"`
}

func (e *HTTPExecutor) validate(resp *resty.Response) (json.RawMessage, error) {
	var env responseEnvelope
	_ = json.Unmarshal(resp.Bytes(), &env)

	if resp.StatusCode() == 200 {
		if env.Payload == nil {
			return json.RawMessage("{}"), nil
		}
		return env.Payload, nil
	}

	kind, known := protocolKindByStatus[resp.StatusCode()]
	if !known {
		kind = walkererrors.Unhandled
	}

	message := fmt.Sprintf("executor responded with status code %d", resp.StatusCode())
	trace := ""
	if env.Error != nil {
		message = env.Error.Message
		trace = env.Error.Trace
	}

	return nil, &walkererrors.ExecutorProtocolError{Kind: kind, Message: message, Trace: trace}
}

func (e *HTTPExecutor) get(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	resp, err := e.http.R().SetContext(ctx).SetQueryParams(params).Get(e.base + "/" + path)
	if err != nil {
		return nil, &walkererrors.ExecutorTransportError{Message: fmt.Sprintf("GET %s failed", path), Err: err}
	}
	return e.validate(resp)
}

func (e *HTTPExecutor) put(ctx context.Context, path string) (json.RawMessage, error) {
	resp, err := e.http.R().SetContext(ctx).Put(e.base + "/" + path)
	if err != nil {
		return nil, &walkererrors.ExecutorTransportError{Message: fmt.Sprintf("PUT %s failed", path), Err: err}
	}
	return e.validate(resp)
}

func (e *HTTPExecutor) post(ctx context.Context, path string, params map[string]string, body any) (json.RawMessage, error) {
	resp, err := e.http.R().SetContext(ctx).SetQueryParams(params).SetBody(body).Post(e.base + "/" + path)
	if err != nil {
		return nil, &walkererrors.ExecutorTransportError{Message: fmt.Sprintf("POST %s failed", path), Err: err}
	}
	return e.validate(resp)
}

// Kill is a no-op: HTTPExecutor does not own the service's process. A
// co-spawned executor's lifetime is managed by ExecutorProcess instead.
func (e *HTTPExecutor) Kill() {}

func (e *HTTPExecutor) Reset(ctx context.Context) error {
	_, err := e.put(ctx, "reset")
	return err
}

func (e *HTTPExecutor) Load(ctx context.Context, path string) error {
	_, err := e.post(ctx, "load", nil, map[string]string{"path": path})
	return err
}

func (e *HTTPExecutor) HasModel(ctx context.Context, modelName string) (bool, error) {
	payload, err := e.get(ctx, "hasModel", map[string]string{"name": modelName})
	if err != nil {
		return false, err
	}
	var body struct {
		HasModel *bool `json:"hasModel"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.HasModel == nil {
		return false, &walkererrors.ExecutorTransportError{Message: "invalid response: payload must include hasModel"}
	}
	return *body.HasModel, nil
}

func (e *HTTPExecutor) HasStep(ctx context.Context, modelName, name string) (bool, error) {
	payload, err := e.get(ctx, "hasStep", map[string]string{"modelName": modelName, "name": name})
	if err != nil {
		return false, err
	}
	var body struct {
		HasStep *bool `json:"hasStep"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.HasStep == nil {
		return false, &walkererrors.ExecutorTransportError{Message: "invalid response: payload must include hasStep"}
	}
	return *body.HasStep, nil
}

func (e *HTTPExecutor) ExecuteStep(ctx context.Context, modelName, name string, data map[string]string, step *model.Step) (model.ExecutionResult, error) {
	payload, err := e.post(ctx, "executeStep",
		map[string]string{"modelName": modelName, "name": name},
		map[string]any{"data": data, "step": step},
	)
	if err != nil {
		return model.ExecutionResult{}, err
	}

	var result model.ExecutionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return model.ExecutionResult{}, &walkererrors.ExecutorTransportError{Message: "invalid response: could not decode executeStep payload", Err: err}
	}
	var fields map[string]json.RawMessage
	_ = json.Unmarshal(payload, &fields)
	if _, ok := fields["output"]; !ok && result.Error == nil {
		return model.ExecutionResult{}, &walkererrors.ExecutorTransportError{Message: "invalid response: payload must include output"}
	}
	return result, nil
}
