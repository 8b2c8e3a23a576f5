// Package ollama is the HTTP client for the local Ollama API, used by the
// stallama server to run generations.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientError categorizes failures talking to Ollama.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error { return e.Cause }

// ErrorType is the failure category.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeNotRunning
	ErrTypeInvalidResponse
	ErrTypeBackend
)

// Config holds the generation backend settings.
type Config struct {
	// Host is the Ollama base URL (default http://127.0.0.1:11434).
	Host string
	// Model is the model name passed to /api/generate.
	Model string
	// System is prepended as the system prompt.
	System string
	// Sampling options.
	Temperature float64
	TopP        float64
	MaxTokens   int
	// HealthTimeout bounds the version probe; generations are unbounded.
	HealthTimeout time.Duration
}

// DefaultConfig mirrors the shipped config.yaml defaults.
func DefaultConfig() Config {
	return Config{
		Host:          "http://127.0.0.1:11434",
		Model:         "llama3.2",
		Temperature:   0.7,
		TopP:          0.9,
		MaxTokens:     2048,
		HealthTimeout: 5 * time.Second,
	}
}

// Client talks to one Ollama host. Safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient fills zero-valued fields of cfg from DefaultConfig.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Host == "" {
		cfg.Host = def.Host
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.HealthTimeout == 0 {
		cfg.HealthTimeout = def.HealthTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 0},
	}
}

// Host returns the configured base URL.
func (c *Client) Host() string { return c.cfg.Host }

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// Health probes GET /api/version.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Host+"/api/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeNotRunning, Message: "Ollama is not reachable", Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: fmt.Sprintf("version probe returned %d", resp.StatusCode)}
	}
	return nil
}

// generateRequest is the /api/generate request body.
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// generateChunk is one NDJSON line of the streaming response.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate streams a completion for prompt, calling onToken for every text
// fragment in arrival order. It returns when the model reports done, the
// context is cancelled, or the stream fails.
func (c *Client) Generate(ctx context.Context, prompt string, onToken func(string) error) error {
	body := generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		System: c.cfg.System,
		Stream: true,
		Options: map[string]any{
			"temperature": c.cfg.Temperature,
			"top_p":       c.cfg.TopP,
			"num_predict": c.cfg.MaxTokens,
		},
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Host+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "generate request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ClientError{
			Type:    ErrTypeBackend,
			Message: fmt.Sprintf("generate returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw)),
		}
	}

	reader := bufio.NewReader(resp.Body)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			var chunk generateChunk
			if jerr := json.Unmarshal(line, &chunk); jerr != nil {
				return &ClientError{Type: ErrTypeInvalidResponse, Message: "undecodable chunk", Cause: jerr}
			}
			if chunk.Error != "" {
				return &ClientError{Type: ErrTypeBackend, Message: chunk.Error}
			}
			if chunk.Response != "" {
				if cbErr := onToken(chunk.Response); cbErr != nil {
					return cbErr
				}
			}
			if chunk.Done {
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				return &ClientError{Type: ErrTypeInvalidResponse, Message: "stream ended before done"}
			}
			return &ClientError{Type: ErrTypeConnection, Message: "stream read failed", Cause: err}
		}
	}
}
