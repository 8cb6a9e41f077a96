// Package gemini implements the completion client on top of Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/saansbot/internal/ai"
	"github.com/edgard/saansbot/internal/config"
)

// Client sends stateless prompts to a Gemini model with a fixed system instruction.
type Client struct {
	genaiClient   *genai.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	timeout       time.Duration
}

var _ ai.Completer = (*Client)(nil)

// NewClient creates a Gemini client. It is called once per process; the
// system instruction and temperature are fixed for its whole lifetime.
func NewClient(ctx context.Context, cfg config.GeminiConfig, aiCfg config.AIConfig, log *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if log == nil {
		log = slog.Default()
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := aiCfg.Temperature
	contentCfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if aiCfg.SystemInstruction != "" {
		contentCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: aiCfg.SystemInstruction}}}
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.Model, "timeout", aiCfg.Timeout)

	return &Client{
		genaiClient:   gi,
		log:           logger,
		contentConfig: contentCfg,
		modelName:     cfg.Model,
		timeout:       aiCfg.Timeout,
	}, nil
}

// Complete sends prompt as a single user turn and classifies the response.
func (c *Client) Complete(ctx context.Context, prompt string) ai.Result {
	if strings.TrimSpace(prompt) == "" {
		return ai.Empty("empty prompt")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, c.contentConfig)
	if err != nil {
		var apiErr *genai.APIError
		if errors.As(err, &apiErr) {
			c.log.DebugContext(ctx, "Gemini API returned an error", "code", apiErr.Code, "status", apiErr.Status)
		}
		return ai.Failed(fmt.Errorf("gemini generate content: %w", err))
	}

	result := classifyResponse(resp)
	c.log.DebugContext(ctx, "Gemini completion finished",
		"result", result.Kind, "reason", result.Reason, "duration", time.Since(startTime))
	return result
}

// classifyResponse maps a successful API response to a Result. A blocked
// prompt or a response without text is an empty completion, not a failure.
func classifyResponse(resp *genai.GenerateContentResponse) ai.Result {
	if resp == nil {
		return ai.Failed(errors.New("gemini returned a nil response"))
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		reason := string(fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			reason = fb.BlockReasonMessage
		}
		return ai.Empty("prompt blocked: " + reason)
	}

	if len(resp.Candidates) == 0 {
		return ai.Empty("no candidates")
	}

	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 {
		finishReason := "unknown"
		if cand != nil && cand.FinishReason != "" {
			finishReason = string(cand.FinishReason)
		}
		return ai.Empty("no content, finish reason " + finishReason)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return ai.Empty("blank text")
	}
	return ai.Text(text)
}
