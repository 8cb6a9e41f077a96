// Package openai implements the completion client for OpenAI-compatible
// chat completion endpoints. It is selected with ai.provider: openai.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/edgard/saansbot/internal/ai"
	"github.com/edgard/saansbot/internal/config"
)

// Client sends stateless prompts to a chat completion model with a fixed system message.
type Client struct {
	openAIClient *openai.Client
	log          *slog.Logger
	model        string
	temperature  float32
	instruction  string
	timeout      time.Duration
}

var _ ai.Completer = (*Client)(nil)

// New creates an OpenAI client. The HTTP client timeout matches ai.timeout
// so a stalled connection cannot outlive the request context.
func New(cfg config.OpenAIConfig, aiCfg config.AIConfig, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	openAICfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openAICfg.BaseURL = cfg.BaseURL
	}
	if aiCfg.Timeout > 0 {
		openAICfg.HTTPClient = &http.Client{Timeout: aiCfg.Timeout}
	}

	logger := log.With("component", "openai_client")
	logger.Info("OpenAI client initialized", "model", cfg.Model, "base_url", openAICfg.BaseURL)

	return &Client{
		openAIClient: openai.NewClientWithConfig(openAICfg),
		log:          logger,
		model:        cfg.Model,
		temperature:  aiCfg.Temperature,
		instruction:  aiCfg.SystemInstruction,
		timeout:      aiCfg.Timeout,
	}, nil
}

// Complete sends the system instruction and prompt and classifies the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) ai.Result {
	if strings.TrimSpace(prompt) == "" {
		return ai.Empty("empty prompt")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if c.instruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: c.instruction})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	startTime := time.Now()
	resp, err := c.openAIClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.log.DebugContext(ctx, "OpenAI API returned an error", "status_code", apiErr.HTTPStatusCode, "type", apiErr.Type)
		}
		return ai.Failed(fmt.Errorf("chat completion failed: %w", err))
	}

	result := classifyResponse(resp)
	c.log.DebugContext(ctx, "OpenAI completion finished",
		"result", result.Kind, "reason", result.Reason, "duration", time.Since(startTime))
	return result
}

func classifyResponse(resp openai.ChatCompletionResponse) ai.Result {
	if len(resp.Choices) == 0 {
		return ai.Empty("no choices")
	}

	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Message.Content) == "" {
		reason := "blank content"
		if choice.FinishReason != "" {
			reason += ", finish reason " + string(choice.FinishReason)
		}
		return ai.Empty(reason)
	}
	return ai.Text(choice.Message.Content)
}
