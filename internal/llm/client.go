package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dharmasatrya/flexiflight/internal/ratelimit"
)

// Message is one role-tagged turn in a chat-completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is one call to the text-interpretation service.
type Request struct {
	Messages []Message
	// Model overrides the client default when non-empty.
	Model string
	// EnableThinking lets the model emit its reasoning. When false the
	// client also strips any <think> blocks from the response text.
	EnableThinking bool
}

// Completer is the boundary the interpretation pipeline depends on: text in,
// text out. Tests inject a fake; production uses Client.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

var ErrEmptyResponse = errors.New("llm: response contained no choices")

var thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>\s*`)

const serviceName = "llm"

// Client talks to an OpenAI-compatible chat-completions endpoint
// (vLLM in deployment).
type Client struct {
	httpClient HTTPClient
	endpoint   string
	model      string
	limiter    *ratelimit.ServiceLimiter
}

type Option func(*Client)

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

func WithLimiter(limiter *ratelimit.ServiceLimiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   "http://localhost:8000/v1/chat/completions",
		model:      "Qwen/Qwen3-1.7B",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type chatRequest struct {
	Model              string         `json:"model"`
	Messages           []Message      `json:"messages"`
	ChatTemplateKwargs map[string]any `json:"chat_template_kwargs,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion round trip and returns the assistant
// text. The caller's context carries the timeout; no retries are made here.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, serviceName); err != nil {
			return "", fmt.Errorf("llm: waiting for rate limiter: %w", err)
		}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	body := chatRequest{
		Model:    model,
		Messages: req.Messages,
		ChatTemplateKwargs: map[string]any{
			"enable_thinking": req.EnableThinking,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("llm: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("llm: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm: calling %s: %w", c.endpoint, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: unexpected status %d from %s", resp.StatusCode, c.endpoint)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("llm: decoding response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := parsed.Choices[0].Message.Content
	if !req.EnableThinking {
		content = thinkBlockRe.ReplaceAllString(content, "")
	}

	return strings.TrimSpace(content), nil
}
