package usecase

import (
	"englishtalk/domain"
	"sync"
	"sync/atomic"
	"time"
)

// History is the conversation contents mirrored to the remote model. It only grows until the
// session resets, at which point the session swaps in a fresh History.
type History struct {
	mu    sync.Mutex
	turns []domain.HistoryTurn
}

func NewHistory() *History {
	return &History{}
}

// Turns returns a copy of the mirrored turns.
func (h *History) Turns() []domain.HistoryTurn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.HistoryTurn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

func (h *History) append(turns ...domain.HistoryTurn) {
	h.mu.Lock()
	h.turns = append(h.turns, turns...)
	h.mu.Unlock()
}

// Session is the state of one practice session. Everything except LastActive is owned by the
// session's controller loop and must not be touched from other goroutines.
type Session struct {
	ID        string
	CreatedAt time.Time

	screen       domain.Screen
	topic        domain.TopicID
	level        domain.LevelID
	teacherID    domain.TeacherID
	messages     []domain.Message
	repeatMode   bool
	messageCount int
	history      *History

	lastActive atomic.Int64
}

func NewSession(id string, now time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		screen:    domain.ScreenHome,
		topic:     domain.DefaultTopic,
		level:     domain.DefaultLevel,
		teacherID: domain.DefaultTeacher,
		history:   NewHistory(),
	}
	s.Touch(now)
	return s
}

func (s *Session) Touch(now time.Time) {
	s.lastActive.Store(now.UnixNano())
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) Screen() domain.Screen {
	return s.screen
}

// Navigate switches screens. Returning home ends the conversation.
func (s *Session) Navigate(screen domain.Screen) error {
	if !screen.Valid() {
		return domain.ErrUnknownScreen
	}
	if screen == domain.ScreenHome {
		s.Reset()
	}
	s.screen = screen
	return nil
}

func (s *Session) SelectTopic(id domain.TopicID) error {
	if _, ok := domain.FindTopic(id); !ok {
		return domain.ErrUnknownTopic
	}
	s.topic = id
	return nil
}

func (s *Session) SelectLevel(id domain.LevelID) error {
	if _, ok := domain.FindLevel(id); !ok {
		return domain.ErrUnknownLevel
	}
	s.level = id
	return nil
}

func (s *Session) SelectTeacher(id domain.TeacherID) error {
	if _, ok := domain.FindTeacher(id); !ok {
		return domain.ErrUnknownTeacher
	}
	s.teacherID = id
	return nil
}

func (s *Session) Topic() domain.TopicID { return s.topic }
func (s *Session) Level() domain.LevelID { return s.level }
func (s *Session) TeacherID() domain.TeacherID { return s.teacherID }
func (s *Session) RepeatMode() bool { return s.repeatMode }
func (s *Session) MessageCount() int { return s.messageCount }
func (s *Session) History() *History { return s.history }

func (s *Session) Teacher() domain.TeacherProfile {
	t, _ := domain.FindTeacher(s.teacherID)
	return t
}

func (s *Session) AppendMessage(role domain.MessageRole, content string, now time.Time) domain.Message {
	m := domain.Message{Role: role, Content: content, Timestamp: now}
	s.messages = append(s.messages, m)
	return m
}

func (s *Session) Messages() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// EnterRepeatMode marks that the student has to restate the flagged sentence.
func (s *Session) EnterRepeatMode() {
	s.repeatMode = true
}

// CompleteTurn leaves repeat mode and counts the turn.
func (s *Session) CompleteTurn() {
	s.repeatMode = false
	s.messageCount++
}

// Reset clears the conversation in one step. Selections and the screen are kept.
func (s *Session) Reset() {
	s.messages = nil
	s.history = NewHistory()
	s.messageCount = 0
	s.repeatMode = false
}

func (s *Session) PromptInput() PromptInput {
	topic, _ := domain.FindTopic(s.topic)
	level, _ := domain.FindLevel(s.level)
	return PromptInput{
		Teacher:    s.Teacher(),
		Level:      level,
		Topic:      topic,
		RepeatMode: s.repeatMode,
	}
}

func (s *Session) Snapshot(state domain.TurnState) domain.SessionSnapshot {
	return domain.SessionSnapshot{
		ID:           s.ID,
		Screen:       s.screen,
		Topic:        s.topic,
		Level:        s.level,
		TeacherID:    s.teacherID,
		Messages:     s.Messages(),
		RepeatMode:   s.repeatMode,
		MessageCount: s.messageCount,
		HistoryLen:   s.history.Len(),
		State:        state,
		CreatedAt:    s.CreatedAt,
	}
}
