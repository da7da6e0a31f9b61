package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"errors"
	"fmt"
	"strings"
)

const (
	FilteredFallback = "Teacher couldn't respond: Content was filtered. Please try rephrasing."
	KickoffText      = "Hello! I'm ready to start our conversation."
)

type GenerateRequest struct {
	SystemInstruction string
	Contents          []domain.HistoryTurn
	MaxOutputTokens   int
	Temperature       float32
}

// GenerateResult carries either candidate text or a block reason. Both empty means malformed.
type GenerateResult struct {
	Text        string
	BlockReason string
}

// Generator is one remote dialogue backend. A returned error is a transport failure.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}

type DialogueErrorKind string

const (
	DialogueTransport DialogueErrorKind = "transport"
	DialogueMalformed DialogueErrorKind = "malformed"
)

type DialogueError struct {
	Kind     DialogueErrorKind
	Attempts int
	Err      error
}

func (e *DialogueError) Error() string {
	return fmt.Sprintf("%s failure after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
}

func (e *DialogueError) Unwrap() error {
	return e.Err
}

type Reply struct {
	Text          string
	Filtered      bool
	RepeatRequest bool
	BlockReason   string
	Attempts      int
}

// DialogueClient sends one turn to the Generator and keeps History consistent with the outcome.
type DialogueClient struct {
	l      *log.Logger
	gen    Generator
	policy RetryPolicy

	maxOutputTokens int
	temperature     float32
}

func NewDialogueClient(l *log.Logger, c *config.Config, gen Generator) *DialogueClient {
	return &DialogueClient{
		l:               l.WithModule("DialogueClient"),
		gen:             gen,
		policy:          NewRetryPolicy(c),
		maxOutputTokens: c.Dialogue.MaxOutputTokens,
		temperature:     c.Dialogue.Temperature,
	}
}

// SendTurn issues the turn, retrying malformed replies under the retry policy. History gains
// user and model turns on success, the user turn alone when filtered, and nothing on failure.
func (d *DialogueClient) SendTurn(ctx context.Context, h *History, userText string, in PromptInput) (*Reply, error) {
	user := domain.NewHistoryTurn(domain.HistoryRoleUser, userText)
	contents := append(h.Turns(), user)

	var res *GenerateResult
	attempts, err := d.policy.Do(ctx, func(ctx context.Context) error {
		r, err := d.gen.Generate(ctx, GenerateRequest{
			SystemInstruction: BuildSystemPrompt(in),
			Contents:          contents,
			MaxOutputTokens:   d.maxOutputTokens,
			Temperature:       d.temperature,
		})
		if err != nil {
			return err
		}
		if r == nil || (r.Text == "" && r.BlockReason == "") {
			d.l.Warn("malformed reply, retrying", log.Duration("backoff", d.policy.Backoff))
			return Retryable(domain.ErrMalformedReply)
		}
		res = r
		return nil
	})
	if err != nil {
		kind := DialogueTransport
		if errors.Is(err, domain.ErrMalformedReply) {
			kind = DialogueMalformed
		}
		d.l.Error("turn failed", log.String("kind", string(kind)), log.Int("attempts", attempts), log.Error(err))
		return nil, &DialogueError{Kind: kind, Attempts: attempts, Err: err}
	}

	if res.Text != "" {
		h.append(user, domain.NewHistoryTurn(domain.HistoryRoleModel, res.Text))
		return &Reply{
			Text:          res.Text,
			RepeatRequest: IsRepeatRequest(res.Text, in.Level.ID),
			Attempts:      attempts,
		}, nil
	}

	d.l.Warn("reply blocked", log.String("block_reason", res.BlockReason))
	h.append(user)
	return &Reply{
		Text:        FilteredFallback,
		Filtered:    true,
		BlockReason: res.BlockReason,
		Attempts:    attempts,
	}, nil
}

// IsRepeatRequest reports whether the teacher asked a beginner or intermediate student to say it again.
func IsRepeatRequest(reply string, level domain.LevelID) bool {
	if !level.NeedsGrammarCheck() {
		return false
	}
	lower := strings.ToLower(reply)
	return strings.Contains(lower, "again") || strings.Contains(lower, "repeat")
}
