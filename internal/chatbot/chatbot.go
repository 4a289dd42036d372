package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"CampusChat/internal/backend"
	"CampusChat/internal/config"
	"CampusChat/internal/telemetry"
	"CampusChat/internal/transcript"
	"CampusChat/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// ChatBot represents the main application
type ChatBot struct {
	config    config.Config
	logger    *slog.Logger
	client    *backend.Client
	store     *transcript.Store
	sessionID string

	closeTelemetry func()
	closeLog       func() error
}

// NewChatBot creates a new ChatBot instance
func NewChatBot(ctx context.Context, cfg config.Config) (*ChatBot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := telemetry.InitLogger(cfg.LogDir, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	tracer, meter, closeTelemetry, err := telemetry.InitTelemetry(ctx, cfg.LogDir)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	client, err := backend.NewClient(cfg.Endpoint, cfg.UserID, cfg.RequestTimeout, logger, tracer, meter)
	if err != nil {
		closeTelemetry()
		closeLog()
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}

	cb := &ChatBot{
		config:         cfg,
		logger:         logger,
		client:         client,
		sessionID:      uuid.NewString(),
		closeTelemetry: closeTelemetry,
		closeLog:       closeLog,
	}

	if cfg.TranscriptDB != "" {
		store, err := transcript.Open(cfg.TranscriptDB)
		if err != nil {
			cb.Close()
			return nil, fmt.Errorf("failed to open transcript: %w", err)
		}
		if err := store.StartSession(ctx, cb.sessionID, cfg.Endpoint, time.Now()); err != nil {
			store.Close()
			cb.Close()
			return nil, err
		}
		cb.store = store
	}

	logger.Info("created new session", "session_id", cb.sessionID, "endpoint", cfg.Endpoint, "transcript", cfg.TranscriptDB != "")
	return cb, nil
}

// Client exposes the service client for one-shot commands.
func (cb *ChatBot) Client() *backend.Client {
	return cb.client
}

// SessionID identifies this run in logs and the transcript.
func (cb *ChatBot) SessionID() string {
	return cb.sessionID
}

// Model builds the chat widget wired to this bot's client and transcript.
func (cb *ChatBot) Model(ctx context.Context) ui.Model {
	opts := []ui.Option{
		ui.WithContext(ctx),
		ui.WithLogger(cb.logger),
		ui.WithMarkdown(cb.config.Markdown),
	}
	if cb.store != nil {
		opts = append(opts, ui.WithRecorder(cb.store, cb.sessionID))
	}
	return ui.New(cb.client, opts...)
}

// Run starts the chat widget and blocks until the user quits.
func (cb *ChatBot) Run(ctx context.Context) error {
	p := tea.NewProgram(cb.Model(ctx), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat view failed: %w", err)
	}
	cb.logger.Info("session ended", "session_id", cb.sessionID)
	return nil
}

// Close flushes telemetry and releases the transcript and log files.
func (cb *ChatBot) Close() {
	if cb.store != nil {
		if err := cb.store.Close(); err != nil {
			cb.logger.Error("failed to close transcript", "error", err)
		}
	}
	cb.closeTelemetry()
	if err := cb.closeLog(); err != nil {
		slog.Error("failed to close log file", "error", err)
	}
}
