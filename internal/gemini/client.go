// Package gemini implements the generative layer on Google's Gemini
// API: clone replies conditioned by the voice-fingerprint system
// prompt, the qualitative voice-analysis pass (structured JSON
// output), and conversation-opening messages.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/rllyu/twinbot/internal/config"
	"github.com/rllyu/twinbot/internal/voice"
)

// Turn is one prior message of the rolling conversation history passed
// to GenerateCloneReply. Role is "user" or "clone".
type Turn struct {
	Role    string
	Content string
}

// RoleClone marks turns spoken by the clone itself.
const RoleClone = "clone"

// Client defines the generative operations used by the bot.
type Client interface {
	// GenerateCloneReply produces the clone's next message given the
	// assembled system prompt, the rolling history, and the incoming
	// user message.
	GenerateCloneReply(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error)

	// AnalyzeVoice runs the qualitative analysis pass over a message
	// sample and returns the extracted traits.
	AnalyzeVoice(ctx context.Context, samples []string) (*voice.Traits, error)

	// GenerateOpeningMessage produces the clone's first message of a
	// fresh conversation from a style description and sample messages.
	GenerateOpeningMessage(ctx context.Context, styleDescription string, samples []string) (string, error)
}

type sdkClient struct {
	genaiClient       *genai.Client
	log               *slog.Logger
	cfg               config.GeminiConfig
	defaultModelName  string
	analysisModelName string
	maxRetries        int
	retryDelay        time.Duration
}

// NewClient creates a Gemini client from configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.ModelName, "analysis_model", cfg.AnalysisModelName)
	return &sdkClient{
		genaiClient:       gi,
		log:               logger,
		cfg:               cfg,
		defaultModelName:  cfg.ModelName,
		analysisModelName: cfg.AnalysisModelName,
		maxRetries:        cfg.MaxRetries,
		retryDelay:        time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, modelName string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, modelName, contents, cfg)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Gemini API call failed, checking for retry", "attempt", i+1, "max_retries", c.maxRetries, "error", err)

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
			if i < c.maxRetries {
				c.log.InfoContext(ctx, "Retrying Gemini API call", "delay", c.retryDelay, "code", apiErr.Code)
				time.Sleep(c.retryDelay)
				continue
			}
			return nil, fmt.Errorf("gemini API call failed after %d retries (APIError code %d): %w", c.maxRetries, apiErr.Code, err)
		}

		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return nil, err
}

func (c *sdkClient) extractText(ctx context.Context, resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		c.log.WarnContext(ctx, "Gemini candidate has no content parts", "finish_reason", candidate.FinishReason)
		return "", fmt.Errorf("gemini returned an empty candidate")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}

func (c *sdkClient) GenerateCloneReply(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (string, error) {
	c.log.DebugContext(ctx, "Generating clone reply", "history_turns", len(history))

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleClone {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(userMessage, genai.RoleUser))

	genCfg := &genai.GenerateContentConfig{
		Temperature:       &c.cfg.Temperature,
		MaxOutputTokens:   c.cfg.MaxOutputTokens,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
	}

	resp, err := c.generateContentWithRetries(ctx, c.defaultModelName, contents, genCfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Clone reply generation failed", "error", err)
		return "", err
	}
	return c.extractText(ctx, resp)
}

// traitsSchema constrains the analysis response to the exact qualitative
// fields the fingerprint carries through.
var traitsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"humor":        {Type: genai.TypeString, Description: "Their humor style. Empty if no evidence."},
		"bluntness":    {Type: genai.TypeString, Description: "How direct or indirect they are. Empty if no evidence."},
		"topics":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Up to 6 topics they talk about most."},
		"slang":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Up to 8 slang words or abbreviations they use."},
		"catchphrases": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Up to 5 phrases they repeat."},
	},
	Required: []string{"humor", "bluntness", "topics", "slang", "catchphrases"},
}

func (c *sdkClient) AnalyzeVoice(ctx context.Context, samples []string) (*voice.Traits, error) {
	c.log.DebugContext(ctx, "Analyzing voice sample", "sample_size", len(samples))
	if len(samples) == 0 {
		return &voice.Traits{}, nil
	}

	analysisTemp := float32(0.3)
	genCfg := &genai.GenerateContentConfig{
		Temperature:       &analysisTemp,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: AnalysisSystemInstruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    traitsSchema,
	}

	prompt := fmt.Sprintf(analysisUserPrompt, strings.Join(samples, "\n"))
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateContentWithRetries(ctx, c.analysisModelName, contents, genCfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Voice analysis failed", "error", err)
		return nil, err
	}

	text, err := c.extractText(ctx, resp)
	if err != nil {
		return nil, err
	}

	var traits voice.Traits
	if err := json.Unmarshal([]byte(text), &traits); err != nil {
		c.log.ErrorContext(ctx, "Failed to parse voice analysis response", "error", err)
		return nil, fmt.Errorf("failed to parse voice analysis response: %w", err)
	}
	return &traits, nil
}

func (c *sdkClient) GenerateOpeningMessage(ctx context.Context, styleDescription string, samples []string) (string, error) {
	c.log.DebugContext(ctx, "Generating opening message", "sample_size", len(samples))

	openingTemp := float32(0.9)
	genCfg := &genai.GenerateContentConfig{
		Temperature:     &openingTemp,
		MaxOutputTokens: 120,
	}

	prompt := fmt.Sprintf(openingMessagePrompt, styleDescription, strings.Join(samples, "\n"))
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := c.generateContentWithRetries(ctx, c.defaultModelName, contents, genCfg)
	if err != nil {
		c.log.WarnContext(ctx, "Opening message generation failed, using fallback", "error", err)
		return fallbackOpeningMessage, nil
	}

	text, err := c.extractText(ctx, resp)
	if err != nil {
		return fallbackOpeningMessage, nil
	}
	return text, nil
}
