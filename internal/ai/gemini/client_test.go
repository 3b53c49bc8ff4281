package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/jobfit/internal/ai"
)

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type callRecord struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeModels struct {
	mu    sync.Mutex
	calls []callRecord
	queue []fakeResponse
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, callRecord{model: model, contents: contents, config: config})
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func stubWait(t *testing.T) *[]time.Duration {
	t.Helper()

	var delays []time.Duration
	original := wait
	wait = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { wait = original })

	return &delays
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	delays := stubWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("```json", `{"ok":true}`, "```"), nil)

	g := newGenerator(models, Config{Model: "gemini-pro", MaxRetries: 2}, zap.NewNop())

	output, err := g.Chat(context.Background(), "system", "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "```json\n{\"ok\":true}\n```" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
	if len(*delays) != 1 || (*delays)[0] != baseRetryDelay {
		t.Fatalf("unexpected retry delays: %v", *delays)
	}

	for _, call := range models.calls {
		if call.model != "gemini-pro" {
			t.Fatalf("unexpected model %q", call.model)
		}
		if call.config == nil || call.config.SystemInstruction == nil {
			t.Fatalf("expected system instruction to be set")
		}
		if got := call.config.SystemInstruction.Parts[0].Text; got != "system" {
			t.Fatalf("unexpected system instruction: %q", got)
		}
		if call.config.ResponseMIMEType != jsonMIMEType {
			t.Fatalf("expected json response mime type, got %q", call.config.ResponseMIMEType)
		}
		if len(call.contents) != 1 || call.contents[0].Parts[0].Text != "message" {
			t.Fatalf("unexpected contents: %+v", call.contents)
		}
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	stubWait(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	g := newGenerator(models, Config{MaxRetries: 2}, nil)

	_, err := g.Chat(context.Background(), "sys", "msg")
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected api error after retries exhausted, got %v", err)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestGeneratorHonoursShortRetryHint(t *testing.T) {
	delays := stubWait(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, please retry in 1.5s",
	})
	models.enqueue(textResponse(`{"ok":true}`), nil)

	g := newGenerator(models, Config{MaxRetries: 3}, nil)

	if _, err := g.Chat(context.Background(), "", "msg"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(*delays) != 1 || (*delays)[0] != 1500*time.Millisecond {
		t.Fatalf("unexpected retry delays: %v", *delays)
	}
	if models.calls[0].config.SystemInstruction != nil {
		t.Fatal("expected no system instruction for empty system prompt")
	}
}

func TestGeneratorDoesNotRetry(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
		want func(error) bool
	}{
		{
			name: "long quota delay",
			err: genai.APIError{
				Code:    http.StatusTooManyRequests,
				Status:  "RESOURCE_EXHAUSTED",
				Message: "quota exhausted, retry after 60 seconds",
			},
			want: func(err error) bool { return err != nil },
		},
		{
			name: "client error",
			err:  genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"},
			want: func(err error) bool { return err != nil },
		},
		{
			name: "empty response",
			resp: textResponse("   "),
			want: func(err error) bool { return errors.Is(err, ai.ErrEmptyResponse) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delays := stubWait(t)

			models := &fakeModels{}
			models.enqueue(tt.resp, tt.err)

			g := newGenerator(models, Config{MaxRetries: 3}, zap.NewNop())

			_, err := g.Chat(context.Background(), "sys", "msg")
			if !tt.want(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(models.calls) != 1 {
				t.Fatalf("expected single call, got %d", len(models.calls))
			}
			if len(*delays) != 0 {
				t.Fatalf("expected no waits, got %v", *delays)
			}
		})
	}
}

func TestParseRetryDelay(t *testing.T) {
	tests := map[string]time.Duration{
		"retry after 60 seconds":   60 * time.Second,
		"Please retry in 2s.":      2 * time.Second,
		"retry in 250ms":           250 * time.Millisecond,
		"retry after 1 second now": time.Second,
	}

	for message, want := range tests {
		got, ok := parseRetryDelay(message)
		if !ok || got != want {
			t.Fatalf("%q: expected %v, got %v (ok=%v)", message, want, got, ok)
		}
	}

	if _, ok := parseRetryDelay("internal error"); ok {
		t.Fatal("expected no delay for message without hint")
	}
}
