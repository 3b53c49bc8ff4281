package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spigell/jobfit/internal/ai"
)

func TestClientChat(t *testing.T) {
	var got chatRequest
	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(chatResponse{
			Model:   "llama3.1",
			Message: message{Role: "assistant", Content: " {\"score\": 70} "},
			Done:    true,
		})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL + "/"}, nil)

	out, err := client.Chat(context.Background(), "score it", "profile and job")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != `{"score": 70}` {
		t.Fatalf("unexpected output %q", out)
	}
	if path != chatPath {
		t.Fatalf("expected path %q, got %q", chatPath, path)
	}
	if got.Model != DefaultModel || got.Stream || got.Format != "json" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "profile and job" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestClientChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(error) bool
	}{
		{
			name: "bad status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			check: func(err error) bool { return strings.Contains(err.Error(), "model not found") },
		},
		{
			name: "error field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(chatResponse{Error: "out of memory"})
			},
			check: func(err error) bool { return strings.Contains(err.Error(), "out of memory") },
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(chatResponse{Done: true})
			},
			check: func(err error) bool { return errors.Is(err, ai.ErrEmptyResponse) },
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
			check: func(err error) bool { return strings.Contains(err.Error(), "decode ollama response") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := New(Config{BaseURL: server.URL, Model: "qwen2.5"}, nil).Chat(context.Background(), "", "prompt")
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestClientChatTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := New(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil)
	if _, err := client.Chat(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestNewDefaults(t *testing.T) {
	client := New(Config{}, nil)
	if client.BaseURL != DefaultBaseURL || client.Model() != DefaultModel || client.HTTPClient.Timeout != DefaultTimeout {
		t.Fatalf("unexpected defaults: %+v", client)
	}
}
