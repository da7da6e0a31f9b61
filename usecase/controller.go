package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	noticeMicrophone  = "Cannot access microphone. Please check permissions."
	noticeNoPlayback  = "Your browser does not support speech output."
	noticeRecognition = "Speech recognition error: %s."
	noticeTurnFailed  = "Error: %s. Please check API key and network."
)

// Notifier receives everything the student should see.
type Notifier interface {
	PublishState(snap domain.SessionSnapshot)
	PublishMessage(m domain.Message)
	Notify(text string)
}

// Bridge is a connected browser: it can listen, speak and show things.
type Bridge interface {
	Recognizer
	Synthesizer
	Notifier
}

// Controller runs the turn state machine of one session. All session state is touched on the
// goroutine in Run; public methods hand closures to it.
type Controller struct {
	l         *log.Logger
	session   *Session
	dialogue  *DialogueClient
	capture   *Capture
	playback  *Playback
	voiceWait time.Duration

	events    chan func()
	done      chan struct{}
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc

	state domain.TurnState
	epoch uint64

	// pending is set while a dialogue request is outstanding, including one a reset
	// has orphaned. Only finishTurn clears it.
	pending bool
	bridge  Bridge
}

func NewController(l *log.Logger, c *config.Config, session *Session, dialogue *DialogueClient) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		l:         &log.Logger{Logger: l.WithModule("Controller").With(log.String("session", session.ID))},
		session:   session,
		dialogue:  dialogue,
		capture:   NewCapture(l, c.Speech.Lang),
		playback:  NewPlayback(l, c.Speech.Lang),
		voiceWait: c.Speech.VoiceWait,
		events:    make(chan func(), 32),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		state:     domain.TurnIdle,
	}
}

func (c *Controller) ID() string {
	return c.session.ID
}

func (c *Controller) LastActive() time.Time {
	return c.session.LastActive()
}

// Run processes events until ctx is done or the controller is closed.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-ctx.Done():
			c.Close()
			return nil
		case <-c.done:
			return nil
		}
	}
}

// Close stops the loop and cancels any in-flight dialogue request.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
	})
}

func (c *Controller) post(fn func()) error {
	select {
	case <-c.done:
		return domain.ErrSessionClosed
	default:
	}
	select {
	case c.events <- fn:
		return nil
	case <-c.done:
		return domain.ErrSessionClosed
	}
}

// call runs fn on the loop and waits for it. Never call it from the loop itself.
func (c *Controller) call(fn func() error) error {
	res := make(chan error, 1)
	if err := c.post(func() { res <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-res:
		return err
	case <-c.done:
		return domain.ErrSessionClosed
	}
}

func (c *Controller) touch() {
	c.session.Touch(time.Now())
}

// ---- user actions ----

// StartCapture begins listening for one utterance. Only allowed while idle.
func (c *Controller) StartCapture() error {
	return c.call(func() error {
		c.touch()
		if c.busy() {
			return domain.ErrTurnInFlight
		}
		c.playback.Cancel()
		if err := c.capture.Start(c.ctx); err != nil {
			c.l.Warn("start capture failed", log.Error(err))
			c.capture.Stop()
			c.notify(noticeMicrophone)
			c.setState(domain.TurnIdle)
			return err
		}
		c.setState(domain.TurnCapturing)
		return nil
	})
}

// SubmitText runs a turn from typed input.
func (c *Controller) SubmitText(text string) error {
	text = strings.TrimSpace(text)
	return c.call(func() error {
		c.touch()
		if c.busy() {
			return domain.ErrTurnInFlight
		}
		if text == "" {
			return domain.ErrEmptyText
		}
		c.playback.Cancel()
		c.beginTurn(text, true)
		return nil
	})
}

// StartChat clears the session, opens the chat screen and lets the teacher speak first.
func (c *Controller) StartChat() error {
	return c.call(func() error {
		c.touch()
		if c.pending {
			return domain.ErrTurnInFlight
		}
		c.resetConversation()
		if err := c.session.Navigate(domain.ScreenChat); err != nil {
			return err
		}
		c.beginTurn(KickoffText, false)
		return nil
	})
}

func (c *Controller) Reset() error {
	return c.call(func() error {
		c.touch()
		c.resetConversation()
		c.publishState()
		return nil
	})
}

func (c *Controller) Navigate(screen domain.Screen) error {
	return c.call(func() error {
		c.touch()
		if !screen.Valid() {
			return domain.ErrUnknownScreen
		}
		// the session clears the conversation itself on home
		if screen == domain.ScreenHome {
			c.abandonTurn()
		}
		if err := c.session.Navigate(screen); err != nil {
			return err
		}
		c.publishState()
		return nil
	})
}

func (c *Controller) SelectTopic(id domain.TopicID) error {
	return c.selection(func() error { return c.session.SelectTopic(id) })
}

func (c *Controller) SelectLevel(id domain.LevelID) error {
	return c.selection(func() error { return c.session.SelectLevel(id) })
}

func (c *Controller) SelectTeacher(id domain.TeacherID) error {
	return c.selection(func() error { return c.session.SelectTeacher(id) })
}

func (c *Controller) selection(fn func() error) error {
	return c.call(func() error {
		c.touch()
		if err := fn(); err != nil {
			return err
		}
		c.publishState()
		return nil
	})
}

func (c *Controller) Snapshot() (domain.SessionSnapshot, error) {
	var snap domain.SessionSnapshot
	err := c.call(func() error {
		snap = c.snapshot()
		return nil
	})
	return snap, err
}

// ---- bridge lifecycle ----

// Attach connects a browser. A previously attached bridge is replaced.
func (c *Controller) Attach(b Bridge) error {
	return c.call(func() error {
		c.touch()
		if c.bridge != nil {
			c.l.Info("replacing bridge")
		}
		c.bridge = b
		c.capture.Attach(b)
		c.playback.Attach(b)
		c.abandonIO()
		c.publishState()
		return nil
	})
}

// Detach disconnects b if it is still the current bridge.
func (c *Controller) Detach(b Bridge) error {
	return c.call(func() error {
		if c.bridge != b {
			return nil
		}
		c.bridge = nil
		c.capture.Detach()
		c.playback.Detach()
		c.abandonIO()
		return nil
	})
}

// abandonIO drops a capture or playback that belonged to a bridge that is gone.
func (c *Controller) abandonIO() {
	if c.state == domain.TurnCapturing || c.state == domain.TurnSpeaking {
		c.state = domain.TurnIdle
	}
}

// ---- bridge events ----

func (c *Controller) OnCaptureResult(transcript string) {
	_ = c.post(func() {
		if c.state != domain.TurnCapturing {
			c.l.Debug("ignoring capture result", log.String("state", string(c.state)))
			return
		}
		text, ok := c.capture.OnResult(transcript)
		if !ok {
			return
		}
		if text == "" {
			c.capture.OnEnd()
			c.setState(domain.TurnIdle)
			return
		}
		c.beginTurn(text, true)
	})
}

func (c *Controller) OnCaptureError(reason string) {
	_ = c.post(func() {
		if c.state != domain.TurnCapturing {
			return
		}
		c.capture.OnError(reason)
		c.capture.OnEnd()
		c.fail(fmt.Sprintf(noticeRecognition, reason))
	})
}

func (c *Controller) OnCaptureEnd() {
	_ = c.post(func() {
		if c.capture.OnEnd() && c.state == domain.TurnCapturing {
			c.setState(domain.TurnIdle)
		}
	})
}

func (c *Controller) OnPlaybackEnded() {
	_ = c.post(func() {
		if c.playback.OnEnded() && c.state == domain.TurnSpeaking {
			c.setState(domain.TurnIdle)
		}
	})
}

func (c *Controller) OnVoices(voices []domain.Voice) {
	_ = c.post(func() {
		if err := c.playback.SetVoices(c.ctx, voices); err != nil {
			c.playbackFailed(err)
		}
	})
}

func (c *Controller) OnPlaybackUnavailable() {
	_ = c.post(func() {
		c.playback.Disable()
		c.playbackFailed(domain.ErrPlaybackUnavailable)
	})
}

// ---- turn ----

func (c *Controller) beginTurn(text string, showUser bool) {
	if showUser {
		m := c.session.AppendMessage(domain.MessageRoleUser, text, time.Now())
		c.publishMessage(m)
	}
	c.setState(domain.TurnAwaitingReply)
	c.pending = true

	epoch := c.epoch
	history := c.session.History()
	in := c.session.PromptInput()
	go func() {
		reply, err := c.dialogue.SendTurn(c.ctx, history, text, in)
		_ = c.post(func() { c.finishTurn(epoch, reply, err) })
	}()
}

func (c *Controller) finishTurn(epoch uint64, reply *Reply, err error) {
	c.pending = false
	if epoch != c.epoch || c.state != domain.TurnAwaitingReply {
		c.l.Info("discarding reply from a reset turn")
		return
	}
	if err != nil {
		c.fail(fmt.Sprintf(noticeTurnFailed, err.Error()))
		return
	}

	role := domain.MessageRoleAssistant
	switch {
	case reply.Filtered:
	case reply.RepeatRequest:
		role = domain.MessageRoleCorrection
		c.session.EnterRepeatMode()
	default:
		c.session.CompleteTurn()
	}
	m := c.session.AppendMessage(role, reply.Text, time.Now())
	c.publishMessage(m)
	c.speak(reply.Text)
}

func (c *Controller) speak(text string) {
	u := Utterance{Text: text, Teacher: c.session.Teacher(), Level: c.session.Level()}
	deferred, seq, err := c.playback.Speak(c.ctx, u)
	if err != nil {
		c.playbackFailed(err)
		c.setState(domain.TurnIdle)
		return
	}
	c.setState(domain.TurnSpeaking)
	if deferred {
		c.l.Debug("voices not known yet, deferring utterance", log.Duration("wait", c.voiceWait))
		time.AfterFunc(c.voiceWait, func() {
			_ = c.post(func() {
				if err := c.playback.FlushPending(c.ctx, seq); err != nil {
					c.playbackFailed(err)
				}
			})
		})
	}
}

func (c *Controller) playbackFailed(err error) {
	if errors.Is(err, domain.ErrPlaybackUnavailable) {
		if c.playback.ReportUnavailable() {
			c.notify(noticeNoPlayback)
		}
	} else {
		c.l.Warn("playback failed", log.Error(err))
	}
	if c.state == domain.TurnSpeaking {
		c.setState(domain.TurnIdle)
	}
}

// fail reports a turn failure and returns to idle.
func (c *Controller) fail(notice string) {
	c.setState(domain.TurnError)
	c.notify(notice)
	c.setState(domain.TurnIdle)
}

// busy reports whether a new turn must be refused.
func (c *Controller) busy() bool {
	return c.state != domain.TurnIdle || c.pending
}

func (c *Controller) resetConversation() {
	c.abandonTurn()
	c.session.Reset()
}

// abandonTurn stops capture and playback and makes any outstanding reply stale.
func (c *Controller) abandonTurn() {
	c.capture.Stop()
	c.playback.Cancel()
	c.epoch++
	c.state = domain.TurnIdle
}

// ---- publishing ----

func (c *Controller) snapshot() domain.SessionSnapshot {
	return c.session.Snapshot(c.state)
}

func (c *Controller) setState(s domain.TurnState) {
	c.state = s
	c.publishState()
}

func (c *Controller) publishState() {
	if c.bridge != nil {
		c.bridge.PublishState(c.snapshot())
	}
}

func (c *Controller) publishMessage(m domain.Message) {
	if c.bridge != nil {
		c.bridge.PublishMessage(m)
	}
}

func (c *Controller) notify(text string) {
	c.l.Info("notify", log.String("text", text))
	if c.bridge != nil {
		c.bridge.Notify(text)
	}
}
