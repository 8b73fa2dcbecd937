package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/outvoice/backend/internal/infrastructure/config"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIGenerator calls any OpenAI-compatible Chat Completions endpoint
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	visionModel string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      *zap.Logger
}

// NewOpenAIGenerator creates a generator from the AI settings
func NewOpenAIGenerator(cfg config.AIConfig, logger *zap.Logger) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = cfg.Model
	}
	return &OpenAIGenerator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		visionModel: visionModel,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		logger:      logger.Named("ai"),
	}, nil
}

// Generate sends the prompt and returns the first choice's content
func (g *OpenAIGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := g.buildRequest(p)
	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.Warn("Chat completion failed",
			zap.String("model", req.Model),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err))
		if ctx.Err() == context.Canceled {
			return "", context.Canceled
		}
		return "", RequestFailed(err)
	}
	if len(resp.Choices) == 0 {
		return "", RequestFailed(fmt.Errorf("model returned no choices"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	g.logger.Debug("Chat completion finished",
		zap.String("model", req.Model),
		zap.Duration("latency", time.Since(start)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))
	return content, nil
}

func (g *OpenAIGenerator) buildRequest(p Prompt) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}
	if p.System != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: p.System,
		})
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(p.Images) == 0 {
		user.Content = p.User
	} else {
		req.Model = g.visionModel
		user.MultiContent = make([]openai.ChatMessagePart, 0, len(p.Images)+1)
		for _, img := range p.Images {
			user.MultiContent = append(user.MultiContent, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: img.DataURL(), Detail: openai.ImageURLDetailAuto},
			})
		}
		user.MultiContent = append(user.MultiContent, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: p.User,
		})
	}
	req.Messages = append(req.Messages, user)

	if p.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return req
}

var _ TextGenerator = (*OpenAIGenerator)(nil)
