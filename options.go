package inferra

import (
	"net/http"
	"os"

	"go.uber.org/zap"
)

type clientOptions struct {
	auth        string
	baseURL     string
	httpClient  *http.Client
	retryPolicy *retryPolicy
	userAgent   *string
	logger      *zap.Logger
}

// ClientOption is a function that modifies an options struct.
type ClientOption func(*clientOptions) error

// WithToken sets the auth token used by the client.
func WithToken(token string) ClientOption {
	return func(o *clientOptions) error {
		o.auth = token
		return nil
	}
}

// WithTokenFromEnv configures the client to use the auth token provided in
// the INFERRA_API_TOKEN environment variable.
func WithTokenFromEnv() ClientOption {
	return func(o *clientOptions) error {
		token, ok := os.LookupEnv(envAuthToken)
		if !ok {
			return ErrEnvVarNotSet
		}
		if token == "" {
			return ErrEnvVarEmpty
		}
		o.auth = token
		return nil
	}
}

// WithUserAgent sets the User-Agent header on requests made by the client.
func WithUserAgent(userAgent string) ClientOption {
	return func(o *clientOptions) error {
		o.userAgent = &userAgent
		return nil
	}
}

// WithBaseURL sets the base URL for the client.
func WithBaseURL(baseURL string) ClientOption {
	return func(o *clientOptions) error {
		o.baseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets the HTTP client used by the client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(o *clientOptions) error {
		o.httpClient = httpClient
		return nil
	}
}

// WithRetryPolicy sets the retry policy used by the client.
func WithRetryPolicy(maxRetries int, backoff Backoff) ClientOption {
	return func(o *clientOptions) error {
		o.retryPolicy = &retryPolicy{
			maxRetries: maxRetries,
			backoff:    backoff,
		}
		return nil
	}
}

// WithLogger sets the logger used by the client. The client logs retries
// and failed requests; by default it is silent.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(o *clientOptions) error {
		o.logger = logger
		return nil
	}
}
