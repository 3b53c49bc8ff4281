// Package ollama talks to a self-hosted Ollama server over its chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
)

const (
	// DefaultBaseURL is where a local Ollama listens by default.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel is used when no model override is configured.
	DefaultModel = "llama3.1"
	// DefaultTimeout bounds a single chat call.
	DefaultTimeout = 20 * time.Second

	chatPath        = "/api/chat"
	maxErrorPreview = 512
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Stream   bool      `json:"stream"`
	Format   string    `json:"format,omitempty"`
}

type chatResponse struct {
	Model   string  `json:"model"`
	Message message `json:"message"`
	Done    bool    `json:"done"`
	Error   string  `json:"error"`
}

// Config configures the self-hosted client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client implements ai.Chatter for Ollama.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	BaseURL    string
	model      string
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		BaseURL: base,
		model:   model,
	}
}

// Chat sends a non-streaming chat request asking for a JSON answer.
func (c *Client) Chat(ctx context.Context, system, prompt string) (string, error) {
	if c == nil {
		return "", ai.ErrNoProvider
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	messages := make([]message, 0, 2)
	if system = strings.TrimSpace(system); system != "" {
		messages = append(messages, message{Role: "system", Content: system})
	}
	messages = append(messages, message{Role: "user", Content: prompt})

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Format:   "json",
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+chatPath, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.request(req)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		preview := string(body)
		if len(preview) > maxErrorPreview {
			preview = preview[:maxErrorPreview]
		}
		return "", fmt.Errorf("ollama chat: bad status %s: %s", resp.Status, strings.TrimSpace(preview))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama chat: %s", out.Error)
	}

	content := strings.TrimSpace(out.Message.Content)
	if content == "" {
		return "", ai.ErrEmptyResponse
	}

	return content, nil
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()), zap.String("model", c.model))
	return c.HTTPClient.Do(req)
}
