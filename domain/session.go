package domain

import "time"

type Screen string

const (
	ScreenHome     Screen = "home"
	ScreenTopic    Screen = "topic"
	ScreenChat     Screen = "chat"
	ScreenSettings Screen = "settings"
)

func (s Screen) Valid() bool {
	switch s {
	case ScreenHome, ScreenTopic, ScreenChat, ScreenSettings:
		return true
	}
	return false
}

type TurnState string

const (
	TurnIdle          TurnState = "idle"
	TurnCapturing     TurnState = "capturing"
	TurnAwaitingReply TurnState = "awaiting_reply"
	TurnSpeaking      TurnState = "speaking"
	TurnError         TurnState = "error"
)

// SessionSnapshot is a point-in-time copy of a session, safe to hand out of the event loop.
type SessionSnapshot struct {
	ID           string    `json:"id"`
	Screen       Screen    `json:"screen"`
	Topic        TopicID   `json:"topic"`
	Level        LevelID   `json:"level"`
	TeacherID    TeacherID `json:"teacher_id"`
	Messages     []Message `json:"messages"`
	RepeatMode   bool      `json:"repeat_mode"`
	MessageCount int       `json:"message_count"`
	HistoryLen   int       `json:"history_len"`
	State        TurnState `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
}

type NavigateReq struct {
	Screen Screen `json:"screen"`
}

type SelectTopicReq struct {
	Topic TopicID `json:"topic"`
}

type SelectLevelReq struct {
	Level LevelID `json:"level"`
}

type SelectTeacherReq struct {
	Teacher TeacherID `json:"teacher"`
}

type SubmitTextReq struct {
	Text string `json:"text"`
}
