package inferra

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/inferra/inferra-go/internal/sse"
)

// SSEEvent is a server-sent event emitted while a prediction runs.
type SSEEvent struct {
	Type string
	ID   string
	Data string
}

var ErrStreamingNotSupported = errors.New("streaming not supported for this prediction")

// Stream runs a model with the given input and streams its output as
// server-sent events. Both channels are closed when the stream ends.
func (r *Client) Stream(ctx context.Context, identifier string, input PredictionInput, webhook *Webhook) (<-chan SSEEvent, <-chan error) {
	sseChan := make(chan SSEEvent, 64)
	errChan := make(chan error, 64)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := ParseIdentifier(identifier)
		if err != nil {
			return err
		}

		var prediction *Prediction
		if id.Version == nil {
			prediction, err = r.CreatePredictionWithModel(ctx, id.Owner, id.Name, input, webhook, true)
		} else {
			prediction, err = r.CreatePrediction(ctx, *id.Version, input, webhook, true)
		}
		if err != nil {
			return err
		}

		return r.streamPrediction(ctx, prediction, sseChan, errChan)
	})

	go func() {
		defer close(sseChan)
		defer close(errChan)

		if err := g.Wait(); err != nil {
			errChan <- err
		}
	}()

	return sseChan, errChan
}

func (r *Client) streamPrediction(ctx context.Context, prediction *Prediction, sseChan chan<- SSEEvent, errChan chan<- error) error {
	url := prediction.URLs["stream"]
	if url == "" {
		return ErrStreamingNotSupported
	}

	streamer := sse.NewStreamer(r.c, url, r.options.retryPolicy.maxRetries, r.options.retryPolicy.backoff)
	defer streamer.Close()

	for {
		event, err := streamer.NextEvent(ctx)
		if err != nil {
			return err
		}

		// the decoder keeps the terminal LF on each data line
		data := strings.TrimSuffix(event.Data, "\n")

		switch event.Type {
		case "error":
			var apiError APIError
			if unmarshalErr := json.Unmarshal([]byte(data), &apiError); unmarshalErr != nil {
				apiError.Detail = data
			}
			errChan <- &apiError
		case "done":
			return nil
		default:
			t := event.Type
			if t == "" {
				t = "message"
			}
			select {
			case sseChan <- SSEEvent{Type: t, ID: event.ID, Data: data}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
