package inferra

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// WebhookEvent is a condition under which Inferra calls a webhook back.
type WebhookEvent string

const (
	// WebhookEventStart fires immediately when the job begins.
	WebhookEventStart WebhookEvent = "start"

	// WebhookEventOutput fires each time the job emits incremental output.
	WebhookEventOutput WebhookEvent = "output"

	// WebhookEventLogs fires each time the job emits log text.
	WebhookEventLogs WebhookEvent = "logs"

	// WebhookEventCompleted fires once, when the job reaches a terminal
	// state (succeeded, canceled, or failed).
	WebhookEventCompleted WebhookEvent = "completed"
)

// AllWebhookEvents lists every webhook event in canonical order.
var AllWebhookEvents = []WebhookEvent{
	WebhookEventStart,
	WebhookEventOutput,
	WebhookEventLogs,
	WebhookEventCompleted,
}

// webhookEventRank orders events by their declaration order for
// deterministic serialization.
var webhookEventRank = func() map[WebhookEvent]int {
	rank := make(map[WebhookEvent]int, len(AllWebhookEvents))
	for i, event := range AllWebhookEvents {
		rank[event] = i
	}
	return rank
}()

func (e WebhookEvent) String() string {
	return string(e)
}

// Webhook specifies a destination URL and the events that should trigger
// a callback to it. It is immutable once constructed and safe to share
// across goroutines.
type Webhook struct {
	endpoint string
	events   map[WebhookEvent]struct{}
}

// NewWebhook returns a webhook configuration for the given endpoint.
//
// A nil events slice selects all events. An empty non-nil slice selects
// none. Duplicate events collapse to a single membership; order is not
// significant.
//
// The endpoint is carried verbatim. Parsing and validating the URL is the
// caller's responsibility (see net/url).
func NewWebhook(endpoint string, events []WebhookEvent) Webhook {
	if events == nil {
		events = AllWebhookEvents
	}

	set := make(map[WebhookEvent]struct{}, len(events))
	for _, event := range events {
		set[event] = struct{}{}
	}

	return Webhook{
		endpoint: endpoint,
		events:   set,
	}
}

// Endpoint returns the destination URL.
func (w Webhook) Endpoint() string {
	return w.endpoint
}

// Events returns the selected events as a fresh slice in canonical order.
// Mutating the result does not affect the webhook.
func (w Webhook) Events() []WebhookEvent {
	events := make([]WebhookEvent, 0, len(w.events))
	for event := range w.events {
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		ri, iKnown := webhookEventRank[events[i]]
		rj, jKnown := webhookEventRank[events[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return events[i] < events[j]
		}
	})

	return events
}

// Has reports whether the webhook is triggered by the given event.
func (w Webhook) Has(event WebhookEvent) bool {
	_, ok := w.events[event]
	return ok
}

// Len returns the number of selected events.
func (w Webhook) Len() int {
	return len(w.events)
}

// Equal reports whether two webhooks have the same endpoint and the same
// event set, regardless of the order the events were supplied in.
func (w Webhook) Equal(other Webhook) bool {
	if w.endpoint != other.endpoint {
		return false
	}
	if len(w.events) != len(other.events) {
		return false
	}
	for event := range w.events {
		if _, ok := other.events[event]; !ok {
			return false
		}
	}
	return true
}

// WebhookSigningSecret is the key Inferra uses to sign outgoing webhook
// requests.
type WebhookSigningSecret struct {
	Key string `json:"key"`

	rawJSON json.RawMessage
}

func (wss *WebhookSigningSecret) RawJSON() json.RawMessage {
	return wss.rawJSON
}

var _ json.Unmarshaler = (*WebhookSigningSecret)(nil)

func (wss *WebhookSigningSecret) UnmarshalJSON(data []byte) error {
	wss.rawJSON = data
	type Alias WebhookSigningSecret
	alias := &struct{ *Alias }{Alias: (*Alias)(wss)}
	return json.Unmarshal(data, alias)
}

// GetDefaultWebhookSecret gets the default webhook signing secret.
func (r *Client) GetDefaultWebhookSecret(ctx context.Context) (*WebhookSigningSecret, error) {
	secret := &WebhookSigningSecret{}
	err := r.fetch(ctx, http.MethodGet, "/webhooks/default/secret", nil, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to get default webhook signing secret: %w", err)
	}

	return secret, nil
}

// ValidateWebhookRequest validates the signature on an incoming webhook
// request using the provided secret.
func ValidateWebhookRequest(req *http.Request, secret WebhookSigningSecret) (bool, error) {
	id := req.Header.Get("webhook-id")
	timestamp := req.Header.Get("webhook-timestamp")
	signature := req.Header.Get("webhook-signature")
	if id == "" || timestamp == "" || signature == "" {
		return false, fmt.Errorf("missing required webhook headers: id=%s, timestamp=%s, signature=%s", id, timestamp, signature)
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read request body: %w", err)
	}
	defer req.Body.Close()

	// leave the body readable for the caller's handler
	req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	signedContent := fmt.Sprintf("%s.%s.%s", id, timestamp, string(bodyBytes))

	keyParts := strings.Split(secret.Key, "_")
	if len(keyParts) != 2 {
		return false, fmt.Errorf("invalid secret key format: %s", secret.Key)
	}
	secretBytes, err := base64.StdEncoding.DecodeString(keyParts[1])
	if err != nil {
		return false, fmt.Errorf("failed to base64 decode secret key: %w", err)
	}

	h := hmac.New(sha256.New, secretBytes)
	h.Write([]byte(signedContent))
	computedSignature := h.Sum(nil)

	for _, sig := range strings.Split(signature, " ") {
		sigParts := strings.Split(sig, ",")
		if len(sigParts) < 2 {
			return false, fmt.Errorf("invalid signature format: %s", sig)
		}

		sigBytes, err := base64.StdEncoding.DecodeString(sigParts[1])
		if err != nil {
			return false, fmt.Errorf("failed to base64 decode signature: %w", err)
		}

		if hmac.Equal(sigBytes, computedSignature) {
			return true, nil
		}
	}

	return false, nil
}
