package session

import (
	"strings"
	"time"
)

// FallbackText is shown as the assistant reply whenever the service cannot answer.
const FallbackText = "Sorry, I'm having trouble processing your request. Please try again later."

// Message represents a single chat message
type Message struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

// Clock formats the timestamp as a local time of day.
func (m Message) Clock() string {
	return m.Timestamp.Local().Format("3:04:05 PM")
}

// State is the in-memory state of one chat view. Messages only ever grow.
type State struct {
	Input          string
	AwaitingReply  bool
	Messages       []Message
	ConversationID int
}

// Submit appends the user's message and enters the awaiting state.
// Blank text, or text arriving while a reply is pending, is ignored.
func (s *State) Submit(text string, now time.Time) bool {
	if s.AwaitingReply || strings.TrimSpace(text) == "" {
		return false
	}

	s.Messages = append(s.Messages, Message{
		Text:      text,
		IsUser:    true,
		Timestamp: now,
	})
	s.Input = ""
	s.AwaitingReply = true
	return true
}

// Resolve appends the assistant reply for the pending submission.
func (s *State) Resolve(reply string, conversationID int, now time.Time) bool {
	if !s.settle(reply, now) {
		return false
	}
	if conversationID != 0 {
		s.ConversationID = conversationID
	}
	return true
}

// Fail appends the fallback reply for the pending submission.
func (s *State) Fail(now time.Time) bool {
	return s.settle(FallbackText, now)
}

func (s *State) settle(text string, now time.Time) bool {
	if !s.AwaitingReply {
		return false
	}
	s.Messages = append(s.Messages, Message{
		Text:      text,
		IsUser:    false,
		Timestamp: now,
	})
	s.AwaitingReply = false
	return true
}

// CanSend reports whether the send control is enabled.
func (s *State) CanSend() bool {
	return !s.AwaitingReply && strings.TrimSpace(s.Input) != ""
}

// Snapshot returns a copy of the message sequence.
func (s *State) Snapshot() []Message {
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}
