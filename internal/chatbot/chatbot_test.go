package chatbot

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"CampusChat/internal/config"
	"CampusChat/internal/transcript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, endpoint string) config.Config {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := config.Default()
	cfg.Endpoint = endpoint
	cfg.LogDir = filepath.Join(t.TempDir(), "logs")
	return cfg
}

func TestNewChatBot_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, "")
	_, err := NewChatBot(context.Background(), cfg)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNewChatBot_WiresClientAndLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response":{"text":"Hi there"},"conversation_id":2}`)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cb, err := NewChatBot(context.Background(), cfg)
	require.NoError(t, err)

	resp, err := cb.Client().SendMessage(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", *resp.Response.Text)
	assert.NotEmpty(t, cb.SessionID())

	m := cb.Model(context.Background())
	assert.Empty(t, m.State().Messages, "every run starts with an empty conversation")

	cb.Close()

	data, err := os.ReadFile(filepath.Join(cfg.LogDir, "campuschat.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "created new session")
	assert.Contains(t, string(data), cb.SessionID())
}

func TestNewChatBot_OpensTranscript(t *testing.T) {
	cfg := testConfig(t, "http://localhost:8000/api")
	cfg.TranscriptDB = filepath.Join(t.TempDir(), "transcript.db")

	cb, err := NewChatBot(context.Background(), cfg)
	require.NoError(t, err)
	id := cb.SessionID()
	cb.Close()

	store, err := transcript.Open(cfg.TranscriptDB)
	require.NoError(t, err)
	defer store.Close()

	msgs, err := store.Messages(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
