package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate_StreamsTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Stream)
		require.Equal(t, "llama3.2", req.Model)

		io.WriteString(w, `{"response":"Hello"}`+"\n")
		io.WriteString(w, `{"response":" world"}`+"\n")
		io.WriteString(w, `{"done":true}`+"\n")
	}))
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL})
	var got strings.Builder
	err := c.Generate(context.Background(), "hi", func(tok string) error {
		got.WriteString(tok)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "Hello world", got.String())
}

func TestGenerate_BackendErrorChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"model not found"}`+"\n")
	}))
	defer srv.Close()

	err := NewClient(Config{Host: srv.URL}).Generate(context.Background(), "hi", func(string) error { return nil })
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrTypeBackend, ce.Type)
	require.Contains(t, ce.Message, "model not found")
}

func TestGenerate_TruncatedStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response":"partial"}`+"\n")
	}))
	defer srv.Close()

	err := NewClient(Config{Host: srv.URL}).Generate(context.Background(), "hi", func(string) error { return nil })
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrTypeInvalidResponse, ce.Type)
}

func TestGenerate_CallbackErrorStopsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"response":"a"}`+"\n")
		io.WriteString(w, `{"response":"b"}`+"\n")
		io.WriteString(w, `{"done":true}`+"\n")
	}))
	defer srv.Close()

	sentinel := errors.New("client went away")
	err := NewClient(Config{Host: srv.URL}).Generate(context.Background(), "hi", func(string) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}

func TestHealth_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewClient(Config{Host: srv.URL}).Health(context.Background())
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrTypeNotRunning, ce.Type)
}
