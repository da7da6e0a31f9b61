package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

func newTestController(t *testing.T, gen Generator) *Controller {
	t.Helper()
	return newTestControllerWithConfig(t, testConfig(), gen)
}

func newTestControllerWithConfig(t *testing.T, cfg *config.Config, gen Generator) *Controller {
	t.Helper()
	s := NewSession("session-1", time.Now())
	c := NewController(log.Discard(), cfg, s, NewDialogueClient(log.Discard(), cfg, gen))
	go func() { _ = c.Run(context.Background()) }()
	t.Cleanup(c.Close)
	return c
}

// attachWithVoices connects a fake browser that already reported its voice catalog.
func attachWithVoices(t *testing.T, c *Controller) *fakeBridge {
	t.Helper()
	b := &fakeBridge{}
	require.NoError(t, c.Attach(b))
	c.OnVoices(usVoices)
	return b
}

func snapshot(t *testing.T, c *Controller) domain.SessionSnapshot {
	t.Helper()
	snap, err := c.Snapshot()
	require.NoError(t, err)
	return snap
}

func messageLen(c *Controller) int {
	snap, err := c.Snapshot()
	if err != nil {
		return -1
	}
	return len(snap.Messages)
}

func waitState(t *testing.T, c *Controller, want domain.TurnState) {
	t.Helper()
	require.Eventually(t, func() bool {
		snap, err := c.Snapshot()
		return err == nil && snap.State == want
	}, waitFor, tick, "state never became %s", want)
}

func TestControllerSingleFlight(t *testing.T) {
	gen := newScriptedGenerator(replyStep("Sounds great!"))
	gen.gate = make(chan struct{})
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.SubmitText("Hello teacher"))
	assert.Equal(t, domain.TurnAwaitingReply, snapshot(t, c).State)

	assert.ErrorIs(t, c.SubmitText("Another one"), domain.ErrTurnInFlight)
	assert.ErrorIs(t, c.StartCapture(), domain.ErrTurnInFlight)

	close(gen.gate)
	waitState(t, c, domain.TurnSpeaking)
	assert.ErrorIs(t, c.StartCapture(), domain.ErrTurnInFlight)

	c.OnPlaybackEnded()
	waitState(t, c, domain.TurnIdle)

	require.NoError(t, c.StartCapture())
	assert.Equal(t, domain.TurnCapturing, snapshot(t, c).State)
	assert.ErrorIs(t, c.StartCapture(), domain.ErrTurnInFlight)

	listens := b.Listens()
	require.Len(t, listens, 1)
	assert.Equal(t, domain.ListenRequest{Lang: "en-US"}, listens[0])
	assert.Equal(t, 1, gen.Calls())
}

func TestControllerFilteredReplyAppendsOneFallback(t *testing.T) {
	gen := newScriptedGenerator(blockedStep("SAFETY"))
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.SubmitText("something rude"))
	waitState(t, c, domain.TurnSpeaking)

	snap := snapshot(t, c)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, domain.MessageRoleUser, snap.Messages[0].Role)
	assert.Equal(t, domain.MessageRoleAssistant, snap.Messages[1].Role)
	assert.Equal(t, FilteredFallback, snap.Messages[1].Content)
	assert.Equal(t, 0, snap.MessageCount)
	assert.False(t, snap.RepeatMode)
	assert.Equal(t, 1, snap.HistoryLen)
	assert.Equal(t, 1, gen.Calls())

	speaks := b.Speaks()
	require.Len(t, speaks, 1)
	assert.Equal(t, "Teacher couldnt respond: Content was filtered. Please try rephrasing.", speaks[0].Text)
}

func TestControllerMalformedRepliesFailTheTurn(t *testing.T) {
	gen := newScriptedGenerator(malformedStep())
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.SubmitText("hello"))
	require.Eventually(t, func() bool { return len(b.Notices()) == 1 }, waitFor, tick)
	waitState(t, c, domain.TurnIdle)

	assert.Equal(t, 3, gen.Calls())
	assert.Contains(t, b.Notices()[0], "Please check API key and network.")

	snap := snapshot(t, c)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, domain.MessageRoleUser, snap.Messages[0].Role)
	assert.Equal(t, 0, snap.HistoryLen)
	assert.Empty(t, b.Speaks())

	// the session stays usable
	require.NoError(t, c.SubmitText("hello again"))
}

func TestControllerTransportFailureReportsError(t *testing.T) {
	gen := newScriptedGenerator(failingStep(errors.New("dial tcp: timeout")))
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.SubmitText("hello"))
	require.Eventually(t, func() bool { return len(b.Notices()) == 1 }, waitFor, tick)
	waitState(t, c, domain.TurnIdle)

	notice := b.Notices()[0]
	assert.Contains(t, notice, "Error: ")
	assert.Contains(t, notice, "dial tcp: timeout")
	assert.Equal(t, 1, gen.Calls())

	var sawError bool
	b.mu.Lock()
	for _, s := range b.states {
		sawError = sawError || s.State == domain.TurnError
	}
	b.mu.Unlock()
	assert.True(t, sawError)
}

func TestControllerRepeatMode(t *testing.T) {
	gen := newScriptedGenerator(
		replyStep("Almost there! Just say 'I am happy'. Can you try that again?"),
		replyStep("Perfect! Why are you happy today?"),
	)
	c := newTestController(t, gen)
	attachWithVoices(t, c)
	require.NoError(t, c.SelectLevel(domain.LevelBeginner))

	require.NoError(t, c.SubmitText("I is happy"))
	waitState(t, c, domain.TurnSpeaking)

	snap := snapshot(t, c)
	assert.True(t, snap.RepeatMode)
	assert.Equal(t, 0, snap.MessageCount)
	assert.Equal(t, domain.MessageRoleCorrection, snap.Messages[len(snap.Messages)-1].Role)
	assert.Contains(t, gen.Request(0).SystemInstruction, grammarCheckClause)

	c.OnPlaybackEnded()
	waitState(t, c, domain.TurnIdle)

	require.NoError(t, c.SubmitText("I am happy"))
	waitState(t, c, domain.TurnSpeaking)

	snap = snapshot(t, c)
	assert.False(t, snap.RepeatMode)
	assert.Equal(t, 1, snap.MessageCount)
	assert.Equal(t, domain.MessageRoleAssistant, snap.Messages[len(snap.Messages)-1].Role)

	second := gen.Request(1).SystemInstruction
	assert.Contains(t, second, repeatEvaluationClause)
	assert.NotContains(t, second, grammarCheckClause)
}

func TestControllerAdvancedTechnologyWithJames(t *testing.T) {
	const answer = "Wow, AI really is changing everything! What excites you most?"
	gen := newScriptedGenerator(replyStep(answer))
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.SelectTopic(domain.TopicTechnology))
	require.NoError(t, c.SelectLevel(domain.LevelAdvanced))
	require.NoError(t, c.SelectTeacher(domain.TeacherJames))

	require.NoError(t, c.StartCapture())
	c.OnCaptureResult("I think AI will is changing everything")
	waitState(t, c, domain.TurnSpeaking)

	prompt := gen.Request(0).SystemInstruction
	assert.Contains(t, prompt, "You are James, an enthusiastic English teacher.")
	assert.Contains(t, prompt, "Student level: Advanced.")
	assert.Contains(t, prompt, "Topic: Technology.")
	assert.NotContains(t, prompt, grammarCheckClause)
	assert.NotContains(t, prompt, repeatEvaluationClause)

	snap := snapshot(t, c)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "I think AI will is changing everything", snap.Messages[0].Content)
	assert.Equal(t, domain.MessageRoleAssistant, snap.Messages[1].Role)
	assert.Equal(t, answer, snap.Messages[1].Content)
	assert.Equal(t, 1, snap.MessageCount)

	speaks := b.Speaks()
	require.Len(t, speaks, 1)
	assert.Equal(t, 1.0, speaks[0].Rate)
	assert.Equal(t, 0.9, speaks[0].Pitch)
	assert.Equal(t, 1.0, speaks[0].Volume)
	assert.Equal(t, "Microsoft David - English (United States)", speaks[0].Voice)
	assert.Equal(t, "en-US", speaks[0].Lang)
}

func TestControllerResetClearsEverything(t *testing.T) {
	gen := newScriptedGenerator(replyStep("Can you say that again?"))
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)
	require.NoError(t, c.SelectLevel(domain.LevelIntermediate))

	require.NoError(t, c.SubmitText("I has a dog"))
	waitState(t, c, domain.TurnSpeaking)
	require.True(t, snapshot(t, c).RepeatMode)

	require.NoError(t, c.Reset())
	snap := snapshot(t, c)
	assert.Empty(t, snap.Messages)
	assert.Equal(t, 0, snap.HistoryLen)
	assert.Equal(t, 0, snap.MessageCount)
	assert.False(t, snap.RepeatMode)
	assert.Equal(t, domain.TurnIdle, snap.State)
	assert.Equal(t, domain.LevelIntermediate, snap.Level)
	assert.Equal(t, 1, b.Cancels())
}

func TestControllerDiscardsReplyFromBeforeReset(t *testing.T) {
	gen := newScriptedGenerator(replyStep("Late reply"))
	gen.gate = make(chan struct{})
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.SubmitText("hello"))
	require.NoError(t, c.Reset())
	close(gen.gate)
	require.Eventually(t, func() bool { return gen.Calls() == 1 }, waitFor, tick)

	assert.Never(t, func() bool {
		snap, err := c.Snapshot()
		return err != nil || len(snap.Messages) > 0 || snap.HistoryLen > 0 || snap.State != domain.TurnIdle
	}, 100*time.Millisecond, tick)
	assert.Empty(t, b.Speaks())
}

func TestControllerRefusesNewTurnWhileResetReplyOutstanding(t *testing.T) {
	gen := newScriptedGenerator(replyStep("Late reply"), replyStep("Second reply"))
	gen.gate = make(chan struct{})
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.SubmitText("first"))
	require.NoError(t, c.Reset())
	assert.Equal(t, domain.TurnIdle, snapshot(t, c).State)

	assert.ErrorIs(t, c.SubmitText("second"), domain.ErrTurnInFlight)
	assert.ErrorIs(t, c.StartCapture(), domain.ErrTurnInFlight)
	assert.ErrorIs(t, c.StartChat(), domain.ErrTurnInFlight)
	assert.Empty(t, snapshot(t, c).Messages)

	close(gen.gate)
	require.Eventually(t, func() bool { return c.SubmitText("second") == nil }, waitFor, tick)
	waitState(t, c, domain.TurnSpeaking)

	snap := snapshot(t, c)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "second", snap.Messages[0].Content)
	assert.Equal(t, "Second reply", snap.Messages[1].Content)
	assert.Equal(t, 2, gen.Calls())
	assert.Equal(t, 1, gen.Peak())
	require.Len(t, b.Speaks(), 1)
}

func TestControllerCaptureError(t *testing.T) {
	gen := newScriptedGenerator(replyStep("unused"))
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.StartCapture())
	c.OnCaptureError("no-speech")
	waitState(t, c, domain.TurnIdle)
	require.Eventually(t, func() bool { return len(b.Notices()) == 1 }, waitFor, tick)
	assert.Equal(t, "Speech recognition error: no-speech.", b.Notices()[0])
	assert.Equal(t, 0, gen.Calls())
	assert.Empty(t, snapshot(t, c).Messages)
}

func TestControllerBlankTranscriptReturnsToIdle(t *testing.T) {
	gen := newScriptedGenerator(replyStep("unused"))
	c := newTestController(t, gen)
	attachWithVoices(t, c)

	require.NoError(t, c.StartCapture())
	c.OnCaptureResult("   ")
	waitState(t, c, domain.TurnIdle)
	assert.Equal(t, 0, gen.Calls())
	assert.Empty(t, snapshot(t, c).Messages)
}

func TestControllerCaptureEndWithoutResult(t *testing.T) {
	c := newTestController(t, newScriptedGenerator(replyStep("unused")))
	attachWithVoices(t, c)

	require.NoError(t, c.StartCapture())
	c.OnCaptureEnd()
	waitState(t, c, domain.TurnIdle)
}

func TestControllerCaptureUnavailable(t *testing.T) {
	c := newTestController(t, newScriptedGenerator(replyStep("unused")))

	assert.ErrorIs(t, c.StartCapture(), domain.ErrCaptureUnavailable)
	assert.Equal(t, domain.TurnIdle, snapshot(t, c).State)
}

func TestControllerMicrophoneDenied(t *testing.T) {
	c := newTestController(t, newScriptedGenerator(replyStep("unused")))
	b := &fakeBridge{listenErr: errors.New("not-allowed")}
	require.NoError(t, c.Attach(b))

	require.Error(t, c.StartCapture())
	assert.Equal(t, domain.TurnIdle, snapshot(t, c).State)
	assert.Equal(t, []string{noticeMicrophone}, b.Notices())
}

func TestControllerDefersSpeechUntilVoicesArrive(t *testing.T) {
	cfg := testConfig()
	cfg.Speech.VoiceWait = time.Minute
	c := newTestControllerWithConfig(t, cfg, newScriptedGenerator(replyStep("Hello there!")))
	b := &fakeBridge{}
	require.NoError(t, c.Attach(b))

	require.NoError(t, c.SubmitText("hi"))
	waitState(t, c, domain.TurnSpeaking)
	assert.Empty(t, b.Speaks())

	c.OnVoices(usVoices)
	require.Eventually(t, func() bool { return len(b.Speaks()) == 1 }, waitFor, tick)
	assert.Equal(t, "Microsoft Zira - English (United States)", b.Speaks()[0].Voice)

	c.OnPlaybackEnded()
	waitState(t, c, domain.TurnIdle)
}

func TestControllerSpeaksWithoutVoiceAfterWait(t *testing.T) {
	c := newTestController(t, newScriptedGenerator(replyStep("Hello there!")))
	b := &fakeBridge{}
	require.NoError(t, c.Attach(b))

	require.NoError(t, c.SubmitText("hi"))
	require.Eventually(t, func() bool { return len(b.Speaks()) == 1 }, waitFor, tick)
	assert.Equal(t, "", b.Speaks()[0].Voice)
	assert.Equal(t, 1.1, b.Speaks()[0].Pitch)
	assert.Equal(t, 0.9, b.Speaks()[0].Rate)
}

func TestControllerPlaybackUnavailableReportedOnce(t *testing.T) {
	c := newTestController(t, newScriptedGenerator(replyStep("First."), replyStep("Second.")))
	b := &fakeBridge{}
	require.NoError(t, c.Attach(b))
	c.OnPlaybackUnavailable()

	require.NoError(t, c.SubmitText("one"))
	require.Eventually(t, func() bool { return messageLen(c) == 2 }, waitFor, tick)
	waitState(t, c, domain.TurnIdle)

	require.NoError(t, c.SubmitText("two"))
	require.Eventually(t, func() bool { return messageLen(c) == 4 }, waitFor, tick)
	waitState(t, c, domain.TurnIdle)

	assert.Equal(t, []string{noticeNoPlayback}, b.Notices())
	assert.Empty(t, b.Speaks())
}

func TestControllerStartChatKicksOff(t *testing.T) {
	gen := newScriptedGenerator(replyStep("Hi! What would you like to talk about?"))
	c := newTestController(t, gen)
	attachWithVoices(t, c)

	require.NoError(t, c.StartChat())
	waitState(t, c, domain.TurnSpeaking)

	snap := snapshot(t, c)
	assert.Equal(t, domain.ScreenChat, snap.Screen)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, domain.MessageRoleAssistant, snap.Messages[0].Role)
	assert.Equal(t, 2, snap.HistoryLen)
	assert.Equal(t, KickoffText, gen.Request(0).Contents[0].Text())
}

func TestControllerNavigateHomeResets(t *testing.T) {
	c := newTestController(t, newScriptedGenerator(replyStep("Hi!")))
	attachWithVoices(t, c)

	require.NoError(t, c.StartChat())
	waitState(t, c, domain.TurnSpeaking)

	require.NoError(t, c.Navigate(domain.ScreenHome))
	snap := snapshot(t, c)
	assert.Equal(t, domain.ScreenHome, snap.Screen)
	assert.Empty(t, snap.Messages)
	assert.Equal(t, 0, snap.HistoryLen)
	assert.Equal(t, domain.TurnIdle, snap.State)

	assert.ErrorIs(t, c.Navigate("nowhere"), domain.ErrUnknownScreen)
	assert.ErrorIs(t, c.SelectTopic("cooking"), domain.ErrUnknownTopic)
}

func TestControllerNavigateHomeDiscardsPendingReply(t *testing.T) {
	gen := newScriptedGenerator(replyStep("Late reply"))
	gen.gate = make(chan struct{})
	c := newTestController(t, gen)
	b := attachWithVoices(t, c)

	require.NoError(t, c.SubmitText("hello"))
	require.NoError(t, c.Navigate(domain.ScreenHome))
	snap := snapshot(t, c)
	assert.Empty(t, snap.Messages)
	assert.Equal(t, domain.TurnIdle, snap.State)

	close(gen.gate)
	require.Eventually(t, func() bool { return gen.Calls() == 1 }, waitFor, tick)
	assert.Never(t, func() bool { return messageLen(c) > 0 }, 100*time.Millisecond, tick)
	assert.Empty(t, b.Speaks())
}

func TestControllerClosed(t *testing.T) {
	c := newTestController(t, newScriptedGenerator(replyStep("Hi!")))
	c.Close()

	assert.ErrorIs(t, c.Reset(), domain.ErrSessionClosed)
	_, err := c.Snapshot()
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}
