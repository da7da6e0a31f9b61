package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeminiGenerator calls generateContent on the Gemini API.
type GeminiGenerator struct {
	l      *log.Logger
	config *config.Config

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGeminiGenerator(l *log.Logger, c *config.Config) *GeminiGenerator {
	return &GeminiGenerator{
		l:      l.WithModule("GeminiGenerator"),
		config: c,
	}
}

// 第一次请求时才创建 client，没配 key 也能启动服务
func (g *GeminiGenerator) getClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:  g.config.Dialogue.ApiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.config.Dialogue.BaseUrl != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.config.Dialogue.BaseUrl}
		}
		g.client, g.initErr = genai.NewClient(ctx, cc)
	})
	if g.initErr != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", g.initErr)
	}
	return g.client, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	temperature := req.Temperature
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemInstruction}}},
		MaxOutputTokens:   int32(req.MaxOutputTokens),
		Temperature:       &temperature,
	}
	resp, err := client.Models.GenerateContent(ctx, g.config.Dialogue.Model, toGeminiContents(req.Contents), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	return geminiResult(resp), nil
}

func toGeminiContents(turns []domain.HistoryTurn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		parts := make([]*genai.Part, 0, len(t.Parts))
		for _, p := range t.Parts {
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		out = append(out, &genai.Content{Role: string(t.Role), Parts: parts})
	}
	return out
}

// geminiResult reads candidates[0].content.parts[0].text, then promptFeedback.blockReason.
func geminiResult(resp *genai.GenerateContentResponse) *GenerateResult {
	res := &GenerateResult{}
	if resp == nil {
		return res
	}
	if len(resp.Candidates) > 0 {
		c := resp.Candidates[0]
		if c != nil && c.Content != nil && len(c.Content.Parts) > 0 && c.Content.Parts[0] != nil {
			res.Text = c.Content.Parts[0].Text
		}
	}
	if res.Text == "" && resp.PromptFeedback != nil {
		res.BlockReason = string(resp.PromptFeedback.BlockReason)
	}
	return res
}
