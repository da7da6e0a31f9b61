package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"sync"
	"time"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:      ":0",
		ServeName: "englishtalk-test",
		Dialogue: config.DialogueConfig{
			Provider:        config.DialogueProviderGemini,
			Model:           "gemini-2.0-flash",
			MaxOutputTokens: 200,
			Temperature:     0.9,
			MaxRetries:      2,
			RetryBackoff:    time.Millisecond,
		},
		Speech: config.SpeechConfig{
			Lang:      "en-US",
			VoiceWait: 50 * time.Millisecond,
		},
		Session: config.SessionConfig{
			IdleTTL:       time.Minute,
			SweepInterval: time.Minute,
		},
		Avatar: config.AvatarConfig{
			ApiKey: "r8_test",
			Model:  "stability-ai/sdxl",
		},
	}
}

type genStep struct {
	res *GenerateResult
	err error
}

func replyStep(s string) genStep { return genStep{res: &GenerateResult{Text: s}} }
func blockedStep(reason string) genStep { return genStep{res: &GenerateResult{BlockReason: reason}} }
func malformedStep() genStep { return genStep{res: &GenerateResult{}} }
func failingStep(err error) genStep { return genStep{err: err} }

// scriptedGenerator replays steps in order; the last step repeats. A non-nil gate holds every call
// until it is closed. peak records the most calls ever running at once.
type scriptedGenerator struct {
	mu       sync.Mutex
	steps    []genStep
	requests []GenerateRequest
	gate     chan struct{}
	active   int
	peak     int
}

func newScriptedGenerator(steps ...genStep) *scriptedGenerator {
	return &scriptedGenerator{steps: steps}
}

func (g *scriptedGenerator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	g.mu.Lock()
	g.active++
	g.peak = max(g.peak, g.active)
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.active--
		g.mu.Unlock()
	}()

	if g.gate != nil {
		select {
		case <-g.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	i := len(g.requests) - 1
	if i >= len(g.steps) {
		i = len(g.steps) - 1
	}
	return g.steps[i].res, g.steps[i].err
}

func (g *scriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

func (g *scriptedGenerator) Peak() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.peak
}

func (g *scriptedGenerator) Request(i int) GenerateRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests[i]
}

type fakeBridge struct {
	mu        sync.Mutex
	listens   []domain.ListenRequest
	aborts    int
	speaks    []domain.SpeakRequest
	cancels   int
	states    []domain.SessionSnapshot
	messages  []domain.Message
	notices   []string
	listenErr error
}

func (b *fakeBridge) Listen(ctx context.Context, req domain.ListenRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listenErr != nil {
		return b.listenErr
	}
	b.listens = append(b.listens, req)
	return nil
}

func (b *fakeBridge) Abort() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.aborts++
	return nil
}

func (b *fakeBridge) Speak(ctx context.Context, req domain.SpeakRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.speaks = append(b.speaks, req)
	return nil
}

func (b *fakeBridge) Cancel() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancels++
	return nil
}

func (b *fakeBridge) PublishState(snap domain.SessionSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.states = append(b.states, snap)
}

func (b *fakeBridge) PublishMessage(m domain.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, m)
}

func (b *fakeBridge) Notify(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, text)
}

func (b *fakeBridge) Speaks() []domain.SpeakRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.SpeakRequest(nil), b.speaks...)
}

func (b *fakeBridge) Listens() []domain.ListenRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.ListenRequest(nil), b.listens...)
}

func (b *fakeBridge) Notices() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.notices...)
}

func (b *fakeBridge) Cancels() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancels
}

var usVoices = []domain.Voice{
	{Name: "Google 日本語", Lang: "ja-JP"},
	{Name: "Microsoft Zira - English (United States)", Lang: "en-US"},
	{Name: "Microsoft David - English (United States)", Lang: "en-US"},
}
