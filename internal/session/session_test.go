package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)

func TestSubmit_BlankIsIgnored(t *testing.T) {
	for _, text := range []string{"", " ", "\n\t  \n"} {
		s := State{Input: text}
		assert.False(t, s.Submit(text, t0), "text %q", text)
		assert.Empty(t, s.Messages)
		assert.False(t, s.AwaitingReply)
		assert.Equal(t, text, s.Input)
	}
}

func TestSubmit_AppendsRawTextAndAwaits(t *testing.T) {
	s := State{Input: "  Hello  "}
	require.True(t, s.Submit("  Hello  ", t0))

	require.Len(t, s.Messages, 1)
	assert.Equal(t, Message{Text: "  Hello  ", IsUser: true, Timestamp: t0}, s.Messages[0])
	assert.Empty(t, s.Input)
	assert.True(t, s.AwaitingReply)
}

func TestSubmit_RejectedWhileAwaiting(t *testing.T) {
	s := State{}
	require.True(t, s.Submit("first", t0))
	assert.False(t, s.Submit("second", t0))
	assert.Len(t, s.Messages, 1)
}

func TestResolve_AppendsAssistantReply(t *testing.T) {
	s := State{}
	require.True(t, s.Submit("Hello", t0))
	require.True(t, s.Resolve("Hi there", 7, t0.Add(time.Second)))

	assert.Equal(t, []Message{
		{Text: "Hello", IsUser: true, Timestamp: t0},
		{Text: "Hi there", IsUser: false, Timestamp: t0.Add(time.Second)},
	}, s.Messages)
	assert.False(t, s.AwaitingReply)
	assert.Equal(t, 7, s.ConversationID)
}

func TestFail_AppendsFallback(t *testing.T) {
	s := State{}
	require.True(t, s.Submit("Hello", t0))
	require.True(t, s.Fail(t0))

	require.Len(t, s.Messages, 2)
	assert.Equal(t, "Sorry, I'm having trouble processing your request. Please try again later.", s.Messages[1].Text)
	assert.False(t, s.Messages[1].IsUser)
	assert.False(t, s.AwaitingReply)
}

func TestSettle_ExactlyOneReplyPerSubmission(t *testing.T) {
	s := State{}
	assert.False(t, s.Resolve("stray", 0, t0), "nothing pending")
	assert.False(t, s.Fail(t0), "nothing pending")

	require.True(t, s.Submit("Hello", t0))
	require.True(t, s.Resolve("Hi", 0, t0))
	assert.False(t, s.Fail(t0))
	assert.False(t, s.Resolve("again", 0, t0))
	assert.Len(t, s.Messages, 2)
}

func TestResolve_KeepsConversationIDWhenZero(t *testing.T) {
	s := State{ConversationID: 3}
	require.True(t, s.Submit("Hello", t0))
	require.True(t, s.Resolve("Hi", 0, t0))
	assert.Equal(t, 3, s.ConversationID)
}

func TestOrderIsAppendOrder(t *testing.T) {
	s := State{}
	texts := []string{"one", "two", "three"}
	for i, text := range texts {
		require.True(t, s.Submit(text, t0.Add(time.Duration(i)*time.Minute)))
		require.True(t, s.Resolve("re: "+text, 0, t0.Add(time.Duration(i)*time.Minute)))
	}

	got := make([]string, 0, len(s.Messages))
	for _, m := range s.Messages {
		got = append(got, m.Text)
	}
	assert.Equal(t, []string{"one", "re: one", "two", "re: two", "three", "re: three"}, got)
}

func TestCanSend(t *testing.T) {
	s := State{}
	assert.False(t, s.CanSend())

	s.Input = "   "
	assert.False(t, s.CanSend())

	s.Input = "hi"
	assert.True(t, s.CanSend())

	s.AwaitingReply = true
	assert.False(t, s.CanSend())
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := State{}
	require.True(t, s.Submit("Hello", t0))

	snap := s.Snapshot()
	snap[0].Text = "changed"
	assert.Equal(t, "Hello", s.Messages[0].Text)
}

func TestMessage_TimestampIsISO(t *testing.T) {
	data, err := json.Marshal(Message{Text: "x", IsUser: true, Timestamp: t0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"x","isUser":true,"timestamp":"2024-03-01T14:05:09Z"}`, string(data))
}

func TestMessage_Clock(t *testing.T) {
	m := Message{Timestamp: t0}
	assert.Equal(t, t0.Local().Format("3:04:05 PM"), m.Clock())
}
