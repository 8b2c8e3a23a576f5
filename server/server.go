// Package server exposes the chat, command, and health endpoints consumed
// by the stallama TUI, streaming generation output as newline-delimited
// data records.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/statalabs/stallama/stata"
)

// Generator runs one streamed completion. ollama.Client satisfies it; tests
// substitute a scripted fake.
type Generator interface {
	Generate(ctx context.Context, prompt string, onToken func(string) error) error
	Model() string
	Host() string
}

// Server routes API requests to a Generator.
type Server struct {
	gen     Generator
	log     *zap.Logger
	version string
	router  chi.Router
}

// New builds a Server with its routes mounted.
func New(gen Generator, log *zap.Logger, version string) *Server {
	s := &Server{gen: gen, log: log, version: version}

	r := chi.NewRouter()
	r.Use(requestLogger(log))
	r.Get("/api/health", s.handleHealth)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/commands/{name}", s.handleCommand)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// healthBody is the GET /api/health response.
type healthBody struct {
	Status     string `json:"status"`
	Model      string `json:"model"`
	OllamaHost string `json:"ollama_host"`
	Version    string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{
		Status:     "healthy",
		Model:      s.gen.Model(),
		OllamaHost: s.gen.Host(),
		Version:    s.version,
	})
}

// chatBody is the POST /api/chat request.
type chatBody struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body chatBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Message == "" {
		writeError(w, http.StatusBadRequest, "no message provided")
		return
	}
	s.stream(w, r, stata.EnhancePrompt(body.Message))
}

// commandBody is the POST /api/commands/{name} request.
type commandBody struct {
	Code string `json:"code"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body commandBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Code == "" {
		writeError(w, http.StatusBadRequest, "no code provided")
		return
	}

	prompt, err := stata.CommandPrompt(name, body.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.stream(w, r, prompt)
}

// stream runs the generation and writes each fragment as a data record,
// flushed immediately so the client renders it as it arrives. A backend
// failure after streaming has begun is reported in-band as an error frame;
// the status line has already been sent.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, prompt string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	err := s.gen.Generate(r.Context(), prompt, func(tok string) error {
		if err := writeFrame(w, map[string]any{"content": tok}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; nothing left to tell it.
			return
		}
		s.log.Warn("generation failed", zap.Error(err))
		writeFrame(w, map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	writeFrame(w, map[string]any{"done": true})
	flusher.Flush()
}

func writeFrame(w http.ResponseWriter, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
