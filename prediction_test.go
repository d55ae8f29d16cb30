package inferra_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferra/inferra-go"
)

func TestCreatePrediction(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predictions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		key := r.Header.Get("Idempotency-Key")
		require.NotEmpty(t, key)
		require.NoError(t, uuid.Validate(key))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var request map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &request))
		assert.Equal(t, "632231d0d49d34d5c4633bd838aee3d81d936e59a886fbf28524702003b4c532", request["version"])
		assert.Equal(t, map[string]interface{}{"prompt": "a moody watercolor lighthouse"}, request["input"])
		assert.Equal(t, "https://example.com/hook", request["webhook"])
		assert.Equal(t, []interface{}{"start", "completed"}, request["webhook_events_filter"])
		_, hasStream := request["stream"]
		assert.False(t, hasStream)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{
			"id": "ufawqhfynnddngldkgtslldrkq",
			"status": "starting",
			"version": "632231d0d49d34d5c4633bd838aee3d81d936e59a886fbf28524702003b4c532",
			"webhook": "https://example.com/hook",
			"webhook_events_filter": ["start", "completed"],
			"urls": {"get": "/predictions/ufawqhfynnddngldkgtslldrkq"}
		}`)
	}))
	defer mockServer.Close()

	client, err := inferra.NewClient(
		inferra.WithToken("test-token"),
		inferra.WithBaseURL(mockServer.URL),
	)
	require.NoError(t, err)

	webhook := inferra.NewWebhook("https://example.com/hook", []inferra.WebhookEvent{
		inferra.WebhookEventCompleted,
		inferra.WebhookEventStart,
		inferra.WebhookEventCompleted,
	})

	input := inferra.PredictionInput{"prompt": "a moody watercolor lighthouse"}
	prediction, err := client.CreatePrediction(context.Background(),
		"632231d0d49d34d5c4633bd838aee3d81d936e59a886fbf28524702003b4c532",
		input, &webhook, false)
	require.NoError(t, err)

	assert.Equal(t, "ufawqhfynnddngldkgtslldrkq", prediction.ID)
	assert.Equal(t, inferra.Starting, prediction.Status)
	assert.Equal(t, []inferra.WebhookEvent{
		inferra.WebhookEventStart,
		inferra.WebhookEventCompleted,
	}, prediction.WebhookEventsFilter)
}

func TestCreatePredictionWithModel(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/acme/upscaler/predictions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var request map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &request))
		_, hasVersion := request["version"]
		assert.False(t, hasVersion)
		assert.Equal(t, true, request["stream"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "ufawqhfynnddngldkgtslldrkq", "status": "starting"}`)
	}))
	defer mockServer.Close()

	client, err := inferra.NewClient(
		inferra.WithToken("test-token"),
		inferra.WithBaseURL(mockServer.URL),
	)
	require.NoError(t, err)

	prediction, err := client.CreatePredictionWithModel(context.Background(), "acme", "upscaler",
		inferra.PredictionInput{"image": "https://example.com/in.png"}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "ufawqhfynnddngldkgtslldrkq", prediction.ID)
}

func TestCreatePredictionWithDeployment(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deployments/acme/image-upscaler/predictions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "ufawqhfynnddngldkgtslldrkq", "status": "starting"}`)
	}))
	defer mockServer.Close()

	client, err := inferra.NewClient(
		inferra.WithToken("test-token"),
		inferra.WithBaseURL(mockServer.URL),
	)
	require.NoError(t, err)

	prediction, err := client.CreatePredictionWithDeployment(context.Background(), "acme", "image-upscaler",
		inferra.PredictionInput{"image": "https://example.com/in.png"}, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "ufawqhfynnddngldkgtslldrkq", prediction.ID)
}

func TestCreatePredictionWithoutTarget(t *testing.T) {
	client, err := inferra.NewClient(inferra.WithToken("test-token"))
	require.NoError(t, err)

	_, err = client.CreatePredictionWithOptions(context.Background(),
		inferra.WithInput(inferra.PredictionInput{"prompt": "no target"}),
	)
	require.ErrorContains(t, err, "version, model, or deployment")
}

func TestCreatePredictionWithExplicitIdempotencyKey(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "my-key", r.Header.Get("Idempotency-Key"))

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "ufawqhfynnddngldkgtslldrkq", "status": "starting"}`)
	}))
	defer mockServer.Close()

	client, err := inferra.NewClient(
		inferra.WithToken("test-token"),
		inferra.WithBaseURL(mockServer.URL),
	)
	require.NoError(t, err)

	_, err = client.CreatePredictionWithOptions(context.Background(),
		inferra.WithVersion("632231d0d49d34d5c4633bd838aee3d81d936e59a886fbf28524702003b4c532"),
		inferra.WithInput(inferra.PredictionInput{"prompt": "hello"}),
		inferra.WithIdempotencyKey("my-key"),
	)
	require.NoError(t, err)
}

func TestGetPrediction(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predictions/ufawqhfynnddngldkgtslldrkq", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"id": "ufawqhfynnddngldkgtslldrkq",
			"status": "succeeded",
			"output": ["https://example.com/out.png"],
			"metrics": {"predict_time": 4.2}
		}`)
	}))
	defer mockServer.Close()

	client, err := inferra.NewClient(
		inferra.WithToken("test-token"),
		inferra.WithBaseURL(mockServer.URL),
	)
	require.NoError(t, err)

	prediction, err := client.GetPrediction(context.Background(), "ufawqhfynnddngldkgtslldrkq")
	require.NoError(t, err)
	assert.Equal(t, inferra.Succeeded, prediction.Status)
	require.NotNil(t, prediction.Metrics)
	require.NotNil(t, prediction.Metrics.PredictTime)
	assert.InDelta(t, 4.2, *prediction.Metrics.PredictTime, 0.001)
	assert.NotNil(t, prediction.RawJSON())
}

func TestListPredictions(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predictions", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{
			"results": [
				{"id": "ufawqhfynnddngldkgtslldrkq", "status": "succeeded"},
				{"id": "rrr4z55ocneqzikepnug6xezpe", "status": "starting"}
			]
		}`)
	}))
	defer mockServer.Close()

	client, err := inferra.NewClient(
		inferra.WithToken("test-token"),
		inferra.WithBaseURL(mockServer.URL),
	)
	require.NoError(t, err)

	page, err := client.ListPredictions(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "ufawqhfynnddngldkgtslldrkq", page.Results[0].ID)
	assert.Nil(t, page.Next)
}

func TestRun(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/predictions":
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var request map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &request))
			assert.Equal(t, "632231d0d49d34d5c4633bd838aee3d81d936e59a886fbf28524702003b4c532", request["version"])

			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id": "ufawqhfynnddngldkgtslldrkq", "status": "starting"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/predictions/ufawqhfynnddngldkgtslldrkq":
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"id": "ufawqhfynnddngldkgtslldrkq", "status": "succeeded", "output": "ok"}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer mockServer.Close()

	client, err := inferra.NewClient(
		inferra.WithToken("test-token"),
		inferra.WithBaseURL(mockServer.URL),
	)
	require.NoError(t, err)

	output, err := client.Run(context.Background(),
		"acme/upscaler:632231d0d49d34d5c4633bd838aee3d81d936e59a886fbf28524702003b4c532",
		inferra.PredictionInput{"image": "https://example.com/in.png"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", output)
}

func TestRunInvalidIdentifier(t *testing.T) {
	client, err := inferra.NewClient(inferra.WithToken("test-token"))
	require.NoError(t, err)

	_, err = client.Run(context.Background(), "not-an-identifier", nil, nil)
	require.ErrorIs(t, err, inferra.ErrInvalidIdentifier)
}
