package model

import (
	"time"
)

type ChatRole string

const (
	RoleUser ChatRole = "user"
	RoleBot  ChatRole = "bot"
)

// ChatMessage is one entry in the session transcript. Immutable once
// appended.
type ChatMessage struct {
	ID        string
	Role      ChatRole
	Content   string
	Timestamp time.Time
}

// ChatSession holds the visible state of the assistant widget: whether the
// panel is open, whether a reply is outstanding, and the ordered transcript.
// The transcript grows monotonically and is never reordered.
type ChatSession struct {
	Open     bool
	Waiting  bool
	Messages []ChatMessage
}

func NewChatSession() *ChatSession {
	return &ChatSession{Messages: make([]ChatMessage, 0, 8)}
}

func (s *ChatSession) Append(id string, role ChatRole, content string) ChatMessage {
	m := ChatMessage{ID: id, Role: role, Content: content, Timestamp: time.Now()}
	s.Messages = append(s.Messages, m)
	return m
}

// History returns a copy of the transcript in append order.
func (s *ChatSession) History() []ChatMessage {
	out := make([]ChatMessage, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// Snapshot returns a copy safe to hand outside the owning controller.
func (s *ChatSession) Snapshot() ChatSession {
	return ChatSession{Open: s.Open, Waiting: s.Waiting, Messages: s.History()}
}
