package inferra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type Source string

const (
	SourceWeb Source = "web"
	SourceAPI Source = "api"
)

type PredictionInput map[string]interface{}
type PredictionOutput interface{}

type PredictionMetrics struct {
	PredictTime *float64 `json:"predict_time,omitempty"`
	TotalTime   *float64 `json:"total_time,omitempty"`
}

type Prediction struct {
	ID      string             `json:"id"`
	Status  Status             `json:"status"`
	Model   string             `json:"model"`
	Version string             `json:"version"`
	Input   PredictionInput    `json:"input"`
	Output  PredictionOutput   `json:"output,omitempty"`
	Source  Source             `json:"source"`
	Error   interface{}        `json:"error,omitempty"`
	Logs    *string            `json:"logs,omitempty"`
	Metrics *PredictionMetrics `json:"metrics,omitempty"`

	// Webhook and WebhookEventsFilter echo the configuration the
	// prediction was created with.
	Webhook             *string        `json:"webhook,omitempty"`
	WebhookEventsFilter []WebhookEvent `json:"webhook_events_filter,omitempty"`

	URLs        map[string]string `json:"urls,omitempty"`
	CreatedAt   string            `json:"created_at"`
	StartedAt   *string           `json:"started_at,omitempty"`
	CompletedAt *string           `json:"completed_at,omitempty"`

	rawJSON json.RawMessage `json:"-"`
}

func (p *Prediction) RawJSON() json.RawMessage {
	return p.rawJSON
}

var _ json.Unmarshaler = (*Prediction)(nil)

func (p *Prediction) UnmarshalJSON(data []byte) error {
	p.rawJSON = data
	type Alias Prediction
	alias := &struct{ *Alias }{Alias: (*Alias)(p)}
	return json.Unmarshal(data, alias)
}

type createPredictionOptions struct {
	version string

	modelOwner string
	modelName  string

	deploymentOwner string
	deploymentName  string

	input          PredictionInput
	webhook        *Webhook
	stream         bool
	idempotencyKey string
}

// CreatePredictionOption is a function that modifies the options used to
// create a prediction.
type CreatePredictionOption func(*createPredictionOptions) error

// WithVersion creates the prediction from a specific model version.
func WithVersion(version string) CreatePredictionOption {
	return func(o *createPredictionOptions) error {
		o.version = version
		return nil
	}
}

// WithModel creates the prediction from the latest version of a model.
func WithModel(owner string, name string) CreatePredictionOption {
	return func(o *createPredictionOptions) error {
		o.modelOwner = owner
		o.modelName = name
		return nil
	}
}

// WithDeployment creates the prediction on a deployment.
func WithDeployment(owner string, name string) CreatePredictionOption {
	return func(o *createPredictionOptions) error {
		o.deploymentOwner = owner
		o.deploymentName = name
		return nil
	}
}

// WithInput sets the prediction input.
func WithInput(input PredictionInput) CreatePredictionOption {
	return func(o *createPredictionOptions) error {
		o.input = input
		return nil
	}
}

// WithWebhook configures a webhook to be called as the prediction
// progresses.
func WithWebhook(webhook *Webhook) CreatePredictionOption {
	return func(o *createPredictionOptions) error {
		o.webhook = webhook
		return nil
	}
}

// WithStream requests a streaming URL for the prediction output.
func WithStream(stream bool) CreatePredictionOption {
	return func(o *createPredictionOptions) error {
		o.stream = stream
		return nil
	}
}

// WithIdempotencyKey sets the Idempotency-Key header on the create
// request. When not set, the client generates one, so that a create
// retried after a 429 cannot start the same prediction twice.
func WithIdempotencyKey(key string) CreatePredictionOption {
	return func(o *createPredictionOptions) error {
		o.idempotencyKey = key
		return nil
	}
}

// CreatePredictionWithOptions sends a request to the Inferra API to
// create a prediction. Exactly one of WithVersion, WithModel, or
// WithDeployment must be provided.
func (r *Client) CreatePredictionWithOptions(ctx context.Context, opts ...CreatePredictionOption) (*Prediction, error) {
	options := &createPredictionOptions{}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	path := "/predictions"
	data := map[string]interface{}{
		"input": options.input,
	}

	switch {
	case options.version != "":
		data["version"] = options.version
	case options.modelOwner != "" && options.modelName != "":
		path = fmt.Sprintf("/models/%s/%s/predictions", options.modelOwner, options.modelName)
	case options.deploymentOwner != "" && options.deploymentName != "":
		path = fmt.Sprintf("/deployments/%s/%s/predictions", options.deploymentOwner, options.deploymentName)
	default:
		return nil, errors.New("a version, model, or deployment must be specified")
	}

	if options.webhook != nil {
		data["webhook"] = options.webhook.Endpoint()
		data["webhook_events_filter"] = options.webhook.Events()
	}

	if options.stream {
		data["stream"] = true
	}

	idempotencyKey := options.idempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	bodyBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	request, err := r.newRequest(ctx, http.MethodPost, path, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Idempotency-Key", idempotencyKey)

	prediction := &Prediction{}
	if err := r.do(request, prediction); err != nil {
		return nil, fmt.Errorf("failed to create prediction: %w", err)
	}

	return prediction, nil
}

// CreatePrediction sends a request to the Inferra API to create a
// prediction from a model version.
func (r *Client) CreatePrediction(ctx context.Context, version string, input PredictionInput, webhook *Webhook, stream bool) (*Prediction, error) {
	return r.CreatePredictionWithOptions(ctx,
		WithVersion(version),
		WithInput(input),
		WithWebhook(webhook),
		WithStream(stream),
	)
}

// CreatePredictionWithModel sends a request to the Inferra API to create a
// prediction using the latest version of the specified model.
func (r *Client) CreatePredictionWithModel(ctx context.Context, modelOwner string, modelName string, input PredictionInput, webhook *Webhook, stream bool) (*Prediction, error) {
	return r.CreatePredictionWithOptions(ctx,
		WithModel(modelOwner, modelName),
		WithInput(input),
		WithWebhook(webhook),
		WithStream(stream),
	)
}

// ListPredictions returns a paginated list of predictions.
func (r *Client) ListPredictions(ctx context.Context) (*Page[Prediction], error) {
	response := &Page[Prediction]{}
	err := r.fetch(ctx, http.MethodGet, "/predictions", nil, response)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return response, nil
}

// GetPrediction retrieves a prediction from the Inferra API by its ID.
func (r *Client) GetPrediction(ctx context.Context, predictionID string) (*Prediction, error) {
	prediction := &Prediction{}
	err := r.fetch(ctx, http.MethodGet, fmt.Sprintf("/predictions/%s", predictionID), nil, prediction)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return prediction, nil
}

// CancelPrediction sends a request to the Inferra API to cancel a
// prediction.
func (r *Client) CancelPrediction(ctx context.Context, predictionID string) (*Prediction, error) {
	prediction := &Prediction{}
	err := r.fetch(ctx, http.MethodPost, fmt.Sprintf("/predictions/%s/cancel", predictionID), nil, prediction)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel prediction: %w", err)
	}
	return prediction, nil
}
