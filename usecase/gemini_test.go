package usecase

import (
	"context"
	"encoding/json"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiResult(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want GenerateResult
	}{
		{"nil response", nil, GenerateResult{}},
		{"no candidates", &genai.GenerateContentResponse{}, GenerateResult{}},
		{
			"text",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: "Hi!"}, {Text: "ignored"}}},
			}}},
			GenerateResult{Text: "Hi!"},
		},
		{
			"blocked",
			&genai.GenerateContentResponse{PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety}},
			GenerateResult{BlockReason: "SAFETY"},
		},
		{
			"candidate without content",
			&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			GenerateResult{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, &tt.want, geminiResult(tt.resp))
		})
	}
}

func TestToGeminiContents(t *testing.T) {
	got := toGeminiContents([]domain.HistoryTurn{
		domain.NewHistoryTurn(domain.HistoryRoleUser, "hello"),
		domain.NewHistoryTurn(domain.HistoryRoleModel, "hi there"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "hello", got[0].Parts[0].Text)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "hi there", got[1].Parts[0].Text)
}

func TestGeminiGeneratorCallsGenerateContent(t *testing.T) {
	var (
		path string
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Wow, tell me more!"}]}}]}`)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Dialogue.ApiKey = "test-key"
	cfg.Dialogue.BaseUrl = srv.URL + "/"
	g := NewGeminiGenerator(log.Discard(), cfg)

	res, err := g.Generate(context.Background(), GenerateRequest{
		SystemInstruction: "You are Emma",
		Contents:          []domain.HistoryTurn{domain.NewHistoryTurn(domain.HistoryRoleUser, "I went hiking")},
		MaxOutputTokens:   200,
		Temperature:       0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "Wow, tell me more!", res.Text)
	assert.True(t, strings.HasSuffix(path, "/models/gemini-2.0-flash:generateContent"), path)
	assert.Contains(t, body, "contents")
	assert.Contains(t, body, "systemInstruction")
}
