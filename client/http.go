package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the HTTP boundary to the stallama server. Generation responses
// are unbounded in size and duration, so the streaming client carries no
// request timeout; Health uses a short dedicated client instead.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	healthClient *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		HTTPClient:   &http.Client{Timeout: 0},
		healthClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Health calls GET /api/health. Failure is advisory: the caller reports it
// once and carries on.
func (c *Client) Health() (*HealthResponse, error) {
	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"/api/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.healthClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode health: %w", err)
	}
	return &health, nil
}

// OpenChat starts a free-form generation via POST /api/chat and returns the
// open response stream.
func (c *Client) OpenChat(ctx context.Context, message string) (*Stream, error) {
	return c.open(ctx, "/api/chat", ChatRequest{Message: message})
}

// OpenCommand starts a command generation via POST /api/commands/{name}.
func (c *Client) OpenCommand(ctx context.Context, name, code string) (*Stream, error) {
	return c.open(ctx, "/api/commands/"+name, CommandRequest{Code: code})
}

// open issues the request and hands the chunked response body to a frame
// decoder. A network failure or non-success status before any bytes are
// read is a *TransportError.
func (c *Client) open(ctx context.Context, path string, body any) (*Stream, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		var apiErr ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, &TransportError{Status: resp.StatusCode, Body: apiErr.Error}
		}
		return nil, &TransportError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return &Stream{body: resp.Body, dec: NewFrameDecoder(resp.Body)}, nil
}

// Stream is one open generation response: the response body wrapped by a
// frame decoder. It is consumed once, in arrival order.
type Stream struct {
	body io.ReadCloser
	dec  *FrameDecoder
}

// Next decodes and interprets frames until it can return a semantic event.
// Frames with no recognized field are skipped here. It returns io.EOF when
// the stream ends, a *MalformedFrameError for an undecodable record, or the
// read error that tore the connection down.
func (s *Stream) Next() (Event, error) {
	for {
		payload, err := s.dec.Next()
		if err != nil {
			return Event{}, err
		}
		ev, err := Interpret(payload)
		if err != nil {
			return Event{}, err
		}
		if ev.Kind == EventIgnored {
			continue
		}
		return ev, nil
	}
}

// Close tears down the transport. Closing mid-generation is the only way
// to abort an in-flight exchange.
func (s *Stream) Close() error {
	return s.body.Close()
}
