package inferra

import (
	"context"
	"time"
)

const defaultPollingInterval = 1 * time.Second

type waitOptions struct {
	interval time.Duration
}

// WaitOption is a function that modifies an options struct.
type WaitOption func(*waitOptions) error

// WithPollingInterval sets the interval between polling attempts.
func WithPollingInterval(interval time.Duration) WaitOption {
	return func(o *waitOptions) error {
		o.interval = interval
		return nil
	}
}

// Wait blocks until the prediction has finished or the context is
// canceled. The prediction is updated in place as it progresses. If the
// prediction has already finished, Wait returns immediately.
func (r *Client) Wait(ctx context.Context, prediction *Prediction, opts ...WaitOption) error {
	predChan, errChan := r.WaitAsync(ctx, prediction, opts...)

	go func() {
		for range predChan { //nolint:all
			// Drain the channel
		}
	}()

	return <-errChan
}

// WaitAsync returns a channel that receives the prediction as it
// progresses.
//
// The channel is closed when the prediction has finished, or the context
// is canceled. If the prediction has already finished, the channel is
// closed immediately.
func (r *Client) WaitAsync(ctx context.Context, prediction *Prediction, opts ...WaitOption) (<-chan *Prediction, <-chan error) {
	predChan := make(chan *Prediction)
	errChan := make(chan error, 1)

	options := &waitOptions{
		interval: defaultPollingInterval,
	}

	for _, option := range opts {
		err := option(options)
		if err != nil {
			errChan <- err
			close(predChan)
			close(errChan)
			return predChan, errChan
		}
	}

	go func() {
		defer close(predChan)
		defer close(errChan)

		if prediction.Status.Terminated() {
			errChan <- nil
			return
		}

		ticker := time.NewTicker(options.interval)
		defer ticker.Stop()

		id := prediction.ID
		for {
			select {
			case <-ticker.C:
				updatedPrediction, err := r.GetPrediction(ctx, id)
				if err != nil {
					errChan <- err
					return
				}

				*prediction = *updatedPrediction
				predChan <- updatedPrediction

				if prediction.Status.Terminated() {
					errChan <- nil
					return
				}
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return predChan, errChan
}
