package domain

import (
	"strings"
	"time"
)

type MessageRole string

const (
	MessageRoleUser       MessageRole = "user"
	MessageRoleAssistant  MessageRole = "assistant"
	MessageRoleCorrection MessageRole = "correction"
)

// Message is one entry of the chat log. Never mutated after it is appended.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// HistoryRole is the role name used by the remote dialogue API.
type HistoryRole string

const (
	HistoryRoleUser  HistoryRole = "user"
	HistoryRoleModel HistoryRole = "model"
)

type Part struct {
	Text string `json:"text"`
}

// HistoryTurn mirrors one entry of the remote model's conversation contents.
type HistoryTurn struct {
	Role  HistoryRole `json:"role"`
	Parts []Part      `json:"parts"`
}

func NewHistoryTurn(role HistoryRole, text string) HistoryTurn {
	return HistoryTurn{Role: role, Parts: []Part{{Text: text}}}
}

// Text joins all parts of the turn.
func (t HistoryTurn) Text() string {
	if len(t.Parts) == 1 {
		return t.Parts[0].Text
	}
	var b strings.Builder
	for _, p := range t.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
