package inferra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	envAuthToken = "INFERRA_API_TOKEN"

	defaultUserAgent = "inferra/go"
	defaultBaseURL   = "https://api.inferra.dev/v1"

	defaultMaxRetries = 5
	defaultBackoff    = &ExponentialBackoff{
		Multiplier: 2,
		Base:       500 * time.Millisecond,
		Jitter:     50 * time.Millisecond,
	}

	ErrNoAuth       = errors.New(`no auth token or token source provided -- perhaps you forgot to pass inferra.WithToken("...")`)
	ErrEnvVarNotSet = fmt.Errorf("%s environment variable not set", envAuthToken)
	ErrEnvVarEmpty  = fmt.Errorf("%s environment variable is empty", envAuthToken)
)

// Client is a client for the Inferra API.
type Client struct {
	options *clientOptions
	c       *http.Client
	log     *zap.Logger
}

type retryPolicy struct {
	maxRetries int
	backoff    Backoff
}

// NewClient creates a new Inferra API client.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		options: &clientOptions{
			userAgent: &defaultUserAgent,
			baseURL:   defaultBaseURL,
			retryPolicy: &retryPolicy{
				maxRetries: defaultMaxRetries,
				backoff:    defaultBackoff,
			},
			httpClient: http.DefaultClient,
			logger:     zap.NewNop(),
		},
	}

	var errs []error
	for _, option := range opts {
		err := option(c.options)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if c.options.auth == "" {
		return nil, ErrNoAuth
	}

	c.c = c.options.httpClient
	c.log = c.options.logger

	return c, nil
}

func (r *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := constructURL(r.options.baseURL, path)
	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.options.auth))
	if r.options.userAgent != nil {
		request.Header.Set("User-Agent", *r.options.userAgent)
	}

	return request, nil
}

func (r *Client) do(request *http.Request, out interface{}) error {
	maxRetries := r.options.retryPolicy.maxRetries
	backoff := r.options.retryPolicy.backoff

	// Re-sending a request with a consumed body would fail, so buffer it
	// up front when retries are possible.
	var bodyBytes []byte
	if request.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(request.Body)
		if err != nil {
			return fmt.Errorf("failed to read request body: %w", err)
		}
		request.Body.Close()
	}

	var apiError *APIError
	attempts := 0
	for ok := true; ok; ok = attempts < maxRetries {
		if bodyBytes != nil {
			request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		response, err := r.c.Do(request)
		if err != nil || response == nil {
			return fmt.Errorf("failed to make request: %w", err)
		}

		responseBytes, err := io.ReadAll(response.Body)
		response.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if response.StatusCode >= 200 && response.StatusCode < 400 {
			if out != nil {
				if err := json.Unmarshal(responseBytes, &out); err != nil {
					return fmt.Errorf("failed to unmarshal response: %w", err)
				}
			}

			return nil
		}

		apiError = unmarshalAPIError(response, responseBytes)
		if !r.shouldRetry(response, request.Method) {
			return apiError
		}

		delay := backoff.NextDelay(attempts)

		retryAfter := response.Header.Get("Retry-After")
		if retryAfter != "" {
			if parsedDelay, parseErr := time.Parse(time.RFC1123, retryAfter); parseErr == nil {
				delay = time.Until(parsedDelay)
			} else if seconds, convErr := strconv.Atoi(retryAfter); convErr == nil {
				delay = time.Duration(seconds) * time.Second
			}
		}

		r.log.Debug("retrying request",
			zap.String("method", request.Method),
			zap.String("url", request.URL.String()),
			zap.Int("status", response.StatusCode),
			zap.Int("attempt", attempts),
			zap.Duration("delay", delay),
		)

		if delay > 0 {
			time.Sleep(delay)
		}

		attempts++
	}

	if apiError != nil {
		r.log.Warn("request failed",
			zap.String("method", request.Method),
			zap.String("url", request.URL.String()),
			zap.Int("attempts", attempts),
			zap.Error(apiError),
		)
		return apiError
	}

	return fmt.Errorf("request failed after %d attempts", maxRetries)
}

// fetch makes an HTTP request to Inferra's API.
func (r *Client) fetch(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	bodyBuffer := &bytes.Buffer{}
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyBuffer = bytes.NewBuffer(bodyBytes)
	}

	request, err := r.newRequest(ctx, method, path, bodyBuffer)
	if err != nil {
		return err
	}

	return r.do(request, out)
}

// shouldRetry returns true if the request should be retried.
//
// - GET requests are retried if the response status code is 429 or 5xx.
// - Other requests are retried only on 429, and only because creates carry
//   an idempotency key.
func (r *Client) shouldRetry(response *http.Response, method string) bool {
	if method == http.MethodGet {
		return response.StatusCode == 429 || (response.StatusCode >= 500 && response.StatusCode < 600)
	}

	return response.StatusCode == 429
}

func constructURL(baseURL, route string) string {
	// pagination cursors may be absolute URLs
	if strings.HasPrefix(route, "http://") || strings.HasPrefix(route, "https://") {
		return route
	}

	route = strings.TrimPrefix(route, "/")

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return baseURL + route
}
