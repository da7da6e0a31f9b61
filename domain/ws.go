package domain

import (
	"encoding/json"
	"fmt"
)

// MsgType 枚举
type MsgType int

const (
	// server -> client
	MsgTypeState MsgType = iota
	MsgTypeMessage
	MsgTypeNotice
	MsgTypeListen
	MsgTypeSpeak
	MsgTypeCancelSpeech
	MsgTypeAbortListen

	// client -> server
	MsgTypeStart
	MsgTypeReset
	MsgTypeResult
	MsgTypeError
	MsgTypeEnd
	MsgTypePlaybackEnd
	MsgTypeVoices
	MsgTypePlaybackUnavailable
	MsgTypeText
)

// 为了可读性，序列化时转成字符串
var msgTypeName = map[MsgType]string{
	MsgTypeState:               "state",
	MsgTypeMessage:             "message",
	MsgTypeNotice:              "notice",
	MsgTypeListen:              "listen",
	MsgTypeSpeak:               "speak",
	MsgTypeCancelSpeech:        "cancel_speech",
	MsgTypeAbortListen:         "abort_listen",
	MsgTypeStart:               "start",
	MsgTypeReset:               "reset",
	MsgTypeResult:              "result",
	MsgTypeError:               "error",
	MsgTypeEnd:                 "end",
	MsgTypePlaybackEnd:         "playback_end",
	MsgTypeVoices:              "voices",
	MsgTypePlaybackUnavailable: "playback_unavailable",
	MsgTypeText:                "text",
}

var msgTypeValue = func() map[string]MsgType {
	m := make(map[string]MsgType, len(msgTypeName))
	for k, v := range msgTypeName {
		m[v] = k
	}
	return m
}()

func (t MsgType) String() string {
	if name, ok := msgTypeName[t]; ok {
		return name
	}
	return fmt.Sprintf("MsgType(%d)", int(t))
}

// MarshalJSON 把枚举变成字符串
func (t MsgType) MarshalJSON() ([]byte, error) {
	if name, ok := msgTypeName[t]; ok {
		return json.Marshal(name)
	}
	return nil, fmt.Errorf("unknown MsgType: %d", t)
}

// UnmarshalJSON 把字符串还原成枚举
func (t *MsgType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, ok := msgTypeValue[s]; ok {
		*t = v
		return nil
	}
	return fmt.Errorf("unknown MsgType string: %s", s)
}

// Msg is the speech bridge envelope. Only the fields relevant to Type are set.
type Msg struct {
	Type    MsgType          `json:"type"`
	Text    string           `json:"text,omitempty"`
	Reason  string           `json:"reason,omitempty"`
	Voices  []Voice          `json:"voices,omitempty"`
	Listen  *ListenRequest   `json:"listen,omitempty"`
	Speak   *SpeakRequest    `json:"speak,omitempty"`
	Message *Message         `json:"message,omitempty"`
	State   *SessionSnapshot `json:"state,omitempty"`
}

// 序列化
func (m *Msg) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// 反序列化
func Decode(b []byte) (*Msg, error) {
	var m Msg
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
