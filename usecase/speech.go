package usecase

import (
	"context"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"englishtalk/usecase/utils"
	"fmt"
	"strings"
)

// Recognizer is the browser's speech recognition capability.
type Recognizer interface {
	Listen(ctx context.Context, req domain.ListenRequest) error
	Abort() error
}

// Synthesizer is the browser's speech synthesis capability.
type Synthesizer interface {
	Speak(ctx context.Context, req domain.SpeakRequest) error
	Cancel() error
}

// Capture tracks one recogniser. It is driven from the controller loop only.
type Capture struct {
	l     *log.Logger
	lang  string
	rec   Recognizer
	state domain.CaptureState
}

func NewCapture(l *log.Logger, lang string) *Capture {
	return &Capture{l: l.WithModule("Capture"), lang: lang}
}

func (c *Capture) Attach(r Recognizer) {
	c.rec = r
	c.state = domain.CaptureIdle
}

func (c *Capture) Detach() {
	c.rec = nil
	c.state = domain.CaptureIdle
}

func (c *Capture) State() domain.CaptureState {
	return c.state
}

// Start asks the recogniser for one final English result.
func (c *Capture) Start(ctx context.Context) error {
	if c.rec == nil {
		return domain.ErrCaptureUnavailable
	}
	if c.state == domain.CaptureRecording {
		return domain.ErrCaptureActive
	}
	err := c.rec.Listen(ctx, domain.ListenRequest{Lang: c.lang})
	if err != nil {
		c.state = domain.CaptureError
		return fmt.Errorf("failed to start capture: %w", err)
	}
	c.state = domain.CaptureRecording
	return nil
}

// OnResult accepts a transcript. ok is false when no capture was recording.
func (c *Capture) OnResult(transcript string) (string, bool) {
	if c.state != domain.CaptureRecording {
		return "", false
	}
	c.state = domain.CaptureDone
	return strings.TrimSpace(transcript), true
}

func (c *Capture) OnError(reason string) (string, bool) {
	if c.state != domain.CaptureRecording {
		return "", false
	}
	c.state = domain.CaptureError
	return reason, true
}

// OnEnd returns to idle and reports whether the capture ended without a result.
func (c *Capture) OnEnd() bool {
	wasRecording := c.state == domain.CaptureRecording
	c.state = domain.CaptureIdle
	return wasRecording
}

func (c *Capture) Stop() {
	if c.state == domain.CaptureRecording && c.rec != nil {
		if err := c.rec.Abort(); err != nil {
			c.l.Warn("abort capture failed", log.Error(err))
		}
	}
	c.state = domain.CaptureIdle
}

type Utterance struct {
	Text    string
	Teacher domain.TeacherProfile
	Level   domain.LevelID
}

// Playback tracks one synthesiser and the voice catalog it reported.
type Playback struct {
	l     *log.Logger
	lang  string
	syn   Synthesizer
	state domain.PlaybackState

	voices     []domain.Voice
	pending    *Utterance
	pendingSeq uint64
	reported   bool
}

func NewPlayback(l *log.Logger, lang string) *Playback {
	return &Playback{l: l.WithModule("Playback"), lang: lang}
}

func (p *Playback) Attach(s Synthesizer) {
	p.syn = s
	p.state = domain.PlaybackIdle
	p.voices = nil
	p.pending = nil
	p.reported = false
}

// Detach drops the synthesiser and the voice catalog that came with it.
func (p *Playback) Detach() {
	p.Attach(nil)
}

func (p *Playback) State() domain.PlaybackState {
	return p.state
}

func (p *Playback) Voices() []domain.Voice {
	return p.voices
}

// Speak starts an utterance. With an empty voice catalog the utterance is parked and deferred is
// true; seq identifies it for FlushPending.
func (p *Playback) Speak(ctx context.Context, u Utterance) (deferred bool, seq uint64, err error) {
	if p.syn == nil {
		return false, 0, domain.ErrPlaybackUnavailable
	}
	p.Cancel()
	if len(p.voices) == 0 {
		p.pendingSeq++
		p.pending = &u
		p.state = domain.PlaybackSpeaking
		return true, p.pendingSeq, nil
	}
	return false, 0, p.speakNow(ctx, u)
}

// SetVoices stores the catalog and flushes a parked utterance.
func (p *Playback) SetVoices(ctx context.Context, voices []domain.Voice) error {
	p.voices = voices
	if p.pending == nil || len(voices) == 0 {
		return nil
	}
	return p.FlushPending(ctx, p.pendingSeq)
}

// FlushPending speaks the parked utterance with whatever voices are known, possibly none.
// A stale seq is ignored.
func (p *Playback) FlushPending(ctx context.Context, seq uint64) error {
	if p.pending == nil || seq != p.pendingSeq {
		return nil
	}
	u := *p.pending
	p.pending = nil
	return p.speakNow(ctx, u)
}

func (p *Playback) speakNow(ctx context.Context, u Utterance) error {
	if p.syn == nil {
		p.state = domain.PlaybackIdle
		return domain.ErrPlaybackUnavailable
	}
	req := utils.BuildSpeakRequest(u.Text, u.Teacher, u.Level, p.voices, p.lang)
	if err := p.syn.Speak(ctx, req); err != nil {
		p.state = domain.PlaybackIdle
		return fmt.Errorf("failed to speak: %w", err)
	}
	p.state = domain.PlaybackSpeaking
	p.l.Debug("speaking", log.String("voice", req.Voice), log.Any("rate", req.Rate), log.Any("pitch", req.Pitch))
	return nil
}

// OnEnded reports whether an utterance was actually playing.
func (p *Playback) OnEnded() bool {
	was := p.state == domain.PlaybackSpeaking && p.pending == nil
	if was {
		p.state = domain.PlaybackIdle
	}
	return was
}

// Cancel silences the current utterance and forgets a parked one.
func (p *Playback) Cancel() {
	p.pending = nil
	if p.state != domain.PlaybackSpeaking {
		return
	}
	p.state = domain.PlaybackIdle
	if p.syn == nil {
		return
	}
	if err := p.syn.Cancel(); err != nil {
		p.l.Warn("cancel playback failed", log.Error(err))
	}
}

// Disable is used when the browser says it cannot synthesise speech.
func (p *Playback) Disable() {
	p.syn = nil
	p.pending = nil
	p.state = domain.PlaybackIdle
}

// ReportUnavailable returns true only the first time per attachment.
func (p *Playback) ReportUnavailable() bool {
	if p.reported {
		return false
	}
	p.reported = true
	return true
}
