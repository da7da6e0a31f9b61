package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
)

const finishReasonContentFilter = "content_filter"

// OpenAIGenerator 走 OpenAI 兼容接口（七牛、deepseek 等）
type OpenAIGenerator struct {
	l      *log.Logger
	config *config.Config
}

func NewOpenAIGenerator(l *log.Logger, c *config.Config) *OpenAIGenerator {
	return &OpenAIGenerator{
		l:      l.WithModule("OpenAIGenerator"),
		config: c,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	maxTokens := req.MaxOutputTokens
	temperature := req.Temperature
	chatConfig := &openai.ChatModelConfig{
		APIKey:      g.config.Dialogue.ApiKey,
		BaseURL:     g.config.Dialogue.BaseUrl,
		Model:       g.config.Dialogue.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
	chatModel, err := openai.NewChatModel(ctx, chatConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	msg, err := chatModel.Generate(ctx, toSchemaMessages(req))
	if err != nil {
		return nil, fmt.Errorf("failed to generate: %w", err)
	}
	return openAIResult(msg), nil
}

func toSchemaMessages(req GenerateRequest) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.Contents)+1)
	messages = append(messages, schema.SystemMessage(req.SystemInstruction))
	for _, t := range req.Contents {
		if t.Role == domain.HistoryRoleModel {
			messages = append(messages, schema.AssistantMessage(t.Text(), nil))
			continue
		}
		messages = append(messages, schema.UserMessage(t.Text()))
	}
	return messages
}

func openAIResult(msg *schema.Message) *GenerateResult {
	res := &GenerateResult{}
	if msg == nil {
		return res
	}
	res.Text = msg.Content
	if res.Text == "" && msg.ResponseMeta != nil && msg.ResponseMeta.FinishReason == finishReasonContentFilter {
		res.BlockReason = finishReasonContentFilter
	}
	return res
}

// NewGenerator picks the backend named by dialogue.provider.
func NewGenerator(l *log.Logger, c *config.Config) Generator {
	if c.Dialogue.Provider == config.DialogueProviderOpenAI {
		return NewOpenAIGenerator(l, c)
	}
	return NewGeminiGenerator(l, c)
}
