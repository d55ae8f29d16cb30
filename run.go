package inferra

import (
	"context"
)

// Run creates a prediction from an "owner/name:version" identifier, waits
// for it to finish, and returns its output.
func (r *Client) Run(ctx context.Context, identifier string, input PredictionInput, webhook *Webhook) (PredictionOutput, error) {
	id, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	var prediction *Prediction
	if id.Version == nil {
		prediction, err = r.CreatePredictionWithModel(ctx, id.Owner, id.Name, input, webhook, false)
	} else {
		prediction, err = r.CreatePrediction(ctx, *id.Version, input, webhook, false)
	}
	if err != nil {
		return nil, err
	}

	err = r.Wait(ctx, prediction)
	if err != nil {
		return nil, err
	}

	return prediction.Output, nil
}
