// Package llmclient wraps an OpenAI-compatible chat endpoint for the
// mobile agent loop, generalizing internal/llm/openai.Client to the
// multimodal agentctx.Message shape (text plus an optional screenshot per
// turn) and to plain-text action streaming instead of function calling.
package llmclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/agentctx"
	openailib "github.com/sashabaranov/go-openai"
)

// StreamCallback is invoked once per streamed text delta.
type StreamCallback func(chunk string)

// Reply is the assembled response to one chat completion call.
type Reply struct {
	Text string
}

// Client sends agentctx message lists to an OpenAI-compatible endpoint.
type Client struct {
	raw    *openailib.Client
	config *Config
}

// New builds a Client from an already-validated Config.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rawCfg := openailib.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		rawCfg.BaseURL = cfg.BaseURL
	}
	rawCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.HTTPTimeout) * time.Second}

	return &Client{raw: openailib.NewClientWithConfig(rawCfg), config: cfg}, nil
}

// NewFromEnv builds a Client from MOBILEAGENT_LLM_* environment variables.
func NewFromEnv() (*Client, error) {
	cfg, err := NewConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load llm config from env: %w", err)
	}
	return New(cfg)
}

// toOpenAI converts an agentctx.Message into the wire shape go-openai
// expects, using MultiContent parts when an image is present and plain
// Content otherwise (single-part text messages stay cheap to serialize).
func toOpenAI(m agentctx.Message) openailib.ChatCompletionMessage {
	if !m.HasImage() {
		return openailib.ChatCompletionMessage{Role: m.Role, Content: m.JoinText()}
	}

	parts := make([]openailib.ChatMessagePart, 0, len(m.Parts))
	for _, p := range m.Parts {
		switch p.Kind {
		case agentctx.PartImage:
			parts = append(parts, openailib.ChatMessagePart{
				Type:     openailib.ChatMessagePartTypeImageURL,
				ImageURL: &openailib.ChatMessageImageURL{URL: p.ImageDataURL},
			})
		case agentctx.PartText:
			if p.Text != "" {
				parts = append(parts, openailib.ChatMessagePart{
					Type: openailib.ChatMessagePartTypeText,
					Text: p.Text,
				})
			}
		}
	}
	return openailib.ChatCompletionMessage{Role: m.Role, MultiContent: parts}
}

func (c *Client) buildRequest(msgs []agentctx.Message, stream bool) openailib.ChatCompletionRequest {
	converted := make([]openailib.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		converted[i] = toOpenAI(m)
	}
	req := openailib.ChatCompletionRequest{Model: c.config.Model, Messages: converted, Stream: stream}
	if c.config.Temperature != nil {
		req.Temperature = *c.config.Temperature
	}
	if c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}
	return req
}

// Call sends msgs and returns the complete response (no streaming).
func (c *Client) Call(ctx context.Context, msgs []agentctx.Message) (Reply, error) {
	if len(msgs) == 0 {
		return Reply{}, fmt.Errorf("no messages to send")
	}
	req := c.buildRequest(msgs, false)

	var resp openailib.ChatCompletionResponse
	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		resp, lastErr = c.raw.CreateChatCompletion(ctx, req)
		if lastErr == nil {
			break
		}
		if attempt < c.config.MaxRetries {
			wait := time.Duration(attempt+1) * time.Second
			log.Printf("[llmclient] retry %d/%d after %v: %v", attempt+1, c.config.MaxRetries, wait, lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return Reply{}, ctx.Err()
			}
		}
	}
	if lastErr != nil {
		return Reply{}, fmt.Errorf("llm call failed after %d retries: %w", c.config.MaxRetries, lastErr)
	}
	if len(resp.Choices) == 0 {
		return Reply{}, fmt.Errorf("no choices returned from llm")
	}
	return Reply{Text: resp.Choices[0].Message.Content}, nil
}

// CallStream sends msgs and streams the response delta-by-delta through
// onChunk, falling back to a synchronous Call if stream creation fails or
// onChunk is nil.
func (c *Client) CallStream(ctx context.Context, msgs []agentctx.Message, onChunk StreamCallback) (Reply, error) {
	if onChunk == nil {
		return c.Call(ctx, msgs)
	}
	if len(msgs) == 0 {
		return Reply{}, fmt.Errorf("no messages to send")
	}

	req := c.buildRequest(msgs, true)
	stream, err := c.raw.CreateChatCompletionStream(ctx, req)
	if err != nil {
		log.Printf("[llmclient] stream creation failed, falling back to sync: %v", err)
		return c.Call(ctx, msgs)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if sb.Len() > 0 {
				log.Printf("[llmclient] stream interrupted after %d chars: %v", sb.Len(), err)
				break
			}
			return Reply{}, fmt.Errorf("stream recv error: %w", err)
		}
		if len(chunk.Choices) > 0 {
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				sb.WriteString(delta)
				onChunk(delta)
			}
		}
	}
	return Reply{Text: sb.String()}, nil
}

// Name identifies the provider for logging.
func (c *Client) Name() string {
	return fmt.Sprintf("openai-compatible (%s)", c.config.Model)
}
