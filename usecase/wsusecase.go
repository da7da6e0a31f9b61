package usecase

import (
	"context"
	"englishtalk/config"
	"englishtalk/domain"
	"englishtalk/pkg/log"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type WsUseCase struct {
	logger *log.Logger
	config *config.Config
}

func NewWsUseCase(l *log.Logger, c *config.Config) *WsUseCase {
	return &WsUseCase{
		logger: l.WithModule("WsUseCase"),
		config: c,
	}
}

// HanderWs attaches the connection to the session as its speech bridge and pumps browser events
// into the controller until the socket closes.
func (w *WsUseCase) HanderWs(ws *websocket.Conn, ctrl *Controller) error {
	l := &log.Logger{Logger: w.logger.With(log.String("session", ctrl.ID()))}
	b := newWsBridge(l, ws)
	if err := ctrl.Attach(b); err != nil {
		return err
	}
	defer func() {
		_ = ctrl.Detach(b)
	}()
	l.Info("speech bridge attached")

	for {
		t, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.Info("speech bridge closed")
				return nil
			}
			return err
		}
		if t != websocket.TextMessage {
			continue
		}
		msg, err := domain.Decode(data)
		if err != nil {
			l.Warn("bad ws message", log.Error(err))
			continue
		}
		if err := w.dispatch(ctrl, msg); err != nil {
			if errors.Is(err, domain.ErrSessionClosed) {
				return err
			}
			l.Debug("ws event rejected", log.String("type", msg.Type.String()), log.Error(err))
			if errors.Is(err, domain.ErrTurnInFlight) || errors.Is(err, domain.ErrEmptyText) {
				b.Notify(err.Error())
			}
		}
	}
}

func (w *WsUseCase) dispatch(ctrl *Controller, msg *domain.Msg) error {
	switch msg.Type {
	case domain.MsgTypeStart:
		return ctrl.StartCapture()
	case domain.MsgTypeReset:
		return ctrl.Reset()
	case domain.MsgTypeText:
		return ctrl.SubmitText(msg.Text)
	case domain.MsgTypeResult:
		ctrl.OnCaptureResult(msg.Text)
	case domain.MsgTypeError:
		ctrl.OnCaptureError(msg.Reason)
	case domain.MsgTypeEnd:
		ctrl.OnCaptureEnd()
	case domain.MsgTypePlaybackEnd:
		ctrl.OnPlaybackEnded()
	case domain.MsgTypeVoices:
		ctrl.OnVoices(msg.Voices)
	case domain.MsgTypePlaybackUnavailable:
		ctrl.OnPlaybackUnavailable()
	default:
		return fmt.Errorf("unexpected message type %s", msg.Type)
	}
	return nil
}

// wsBridge is the browser on the other end of the socket. gorilla allows one concurrent writer,
// so every write goes through send.
type wsBridge struct {
	l    *log.Logger
	conn *websocket.Conn
	mu   sync.Mutex
}

func newWsBridge(l *log.Logger, conn *websocket.Conn) *wsBridge {
	return &wsBridge{l: l, conn: conn}
}

func (b *wsBridge) send(m *domain.Msg) error {
	data, err := m.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", m.Type, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = b.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send %s: %w", m.Type, err)
	}
	return nil
}

func (b *wsBridge) Listen(ctx context.Context, req domain.ListenRequest) error {
	return b.send(&domain.Msg{Type: domain.MsgTypeListen, Listen: &req})
}

func (b *wsBridge) Abort() error {
	return b.send(&domain.Msg{Type: domain.MsgTypeAbortListen})
}

func (b *wsBridge) Speak(ctx context.Context, req domain.SpeakRequest) error {
	return b.send(&domain.Msg{Type: domain.MsgTypeSpeak, Speak: &req})
}

func (b *wsBridge) Cancel() error {
	return b.send(&domain.Msg{Type: domain.MsgTypeCancelSpeech})
}

func (b *wsBridge) PublishState(snap domain.SessionSnapshot) {
	if err := b.send(&domain.Msg{Type: domain.MsgTypeState, State: &snap}); err != nil {
		b.l.Error("send ws message failed", log.Error(err))
	}
}

func (b *wsBridge) PublishMessage(m domain.Message) {
	if err := b.send(&domain.Msg{Type: domain.MsgTypeMessage, Message: &m}); err != nil {
		b.l.Error("send ws message failed", log.Error(err))
	}
}

func (b *wsBridge) Notify(text string) {
	if err := b.send(&domain.Msg{Type: domain.MsgTypeNotice, Text: text}); err != nil {
		b.l.Error("send ws message failed", log.Error(err))
	}
}
