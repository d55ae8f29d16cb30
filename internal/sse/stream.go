package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Backoff mirrors the client's backoff interface to avoid an import cycle.
type Backoff interface {
	NextDelay(retries int) time.Duration
}

// Streamer reads events from an SSE endpoint, reconnecting with backoff
// and resuming from the last seen event ID.
type Streamer struct {
	c          *http.Client
	url        string
	maxRetries int
	backoff    Backoff

	attempt     int
	lastEventID string

	decoder       *Decoder
	currentStream io.ReadCloser
}

func NewStreamer(c *http.Client, url string, maxRetries int, backoff Backoff) *Streamer {
	return &Streamer{
		c:          c,
		url:        url,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func (s *Streamer) connect(ctx context.Context) error {
	if s.attempt > s.maxRetries {
		return fmt.Errorf("exceeded maximum retries")
	}

	delay := 0 * time.Second
	if s.attempt > 0 {
		delay = s.backoff.NextDelay(s.attempt - 1)
	}
	reconnectDelay := time.NewTimer(delay)
	defer reconnectDelay.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-reconnectDelay.C:
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	if s.lastEventID != "" {
		req.Header.Set("Last-Event-ID", s.lastEventID)
	}

	resp, err := s.c.Do(req)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("received invalid status code: %d", resp.StatusCode)
	}

	if s.currentStream != nil {
		if err := s.currentStream.Close(); err != nil {
			return err
		}
	}
	s.currentStream = resp.Body
	s.decoder = NewDecoder(s.currentStream)
	s.attempt++
	return nil
}

// NextEvent returns the next event from the stream, reconnecting as
// needed when the underlying connection drops.
func (s *Streamer) NextEvent(ctx context.Context) (*Event, error) {
	if s.decoder == nil {
		if err := s.connect(ctx); err != nil {
			return nil, err
		}
	}
	for {
		e, err := s.decoder.Next()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if err := s.connect(ctx); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}
		s.lastEventID = e.ID
		return &e, nil
	}
}

func (s *Streamer) Close() error {
	if s.currentStream != nil {
		return s.currentStream.Close()
	}
	return nil
}
