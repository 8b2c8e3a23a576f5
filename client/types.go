package client

import "fmt"

// HealthResponse from GET /api/health.
type HealthResponse struct {
	Status     string `json:"status"`
	Model      string `json:"model"`
	OllamaHost string `json:"ollama_host"`
	Version    string `json:"version"`
}

// ChatRequest for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// CommandRequest for POST /api/commands/{name}.
type CommandRequest struct {
	Code string `json:"code"`
}

// ErrorResponse is the JSON error body returned on non-streaming failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// TransportError reports a network failure or a non-success status that
// occurred before any frame of the response was read.
type TransportError struct {
	Status int // zero when the request never reached the server
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }
