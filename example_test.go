package inferra_test

import (
	"context"
	"fmt"

	"github.com/inferra/inferra-go"
)

func ExampleClient_Run() {
	ctx := context.Background()

	// You can also provide a token directly with `inferra.NewClient(inferra.WithToken("inf_..."))`
	client, err := inferra.NewClient(inferra.WithTokenFromEnv())
	if err != nil {
		// handle error
	}

	version := "acme/upscaler:632231d0d49d34d5c4633bd838aee3d81d936e59a886fbf28524702003b4c532"

	input := inferra.PredictionInput{
		"image": "https://example.com/low-res.png",
	}

	// Notify this endpoint when the prediction starts and finishes
	webhook := inferra.NewWebhook("https://example.com/webhook", []inferra.WebhookEvent{
		inferra.WebhookEventStart,
		inferra.WebhookEventCompleted,
	})

	// Run a model and wait for its output
	output, err := client.Run(ctx, version, input, &webhook)
	if err != nil {
		// handle error
	}
	fmt.Println("output: ", output)
}

func ExampleClient_CreatePrediction() {
	ctx := context.Background()

	client, err := inferra.NewClient(inferra.WithTokenFromEnv())
	if err != nil {
		// handle error
	}

	version := "632231d0d49d34d5c4633bd838aee3d81d936e59a886fbf28524702003b4c532"

	input := inferra.PredictionInput{
		"prompt": "a moody watercolor lighthouse",
	}

	// A webhook constructed without an explicit event list is triggered by
	// every event
	webhook := inferra.NewWebhook("https://example.com/webhook", nil)

	prediction, err := client.CreatePrediction(ctx, version, input, &webhook, false)
	if err != nil {
		// handle error
	}
	fmt.Println("prediction ID: ", prediction.ID)
}
