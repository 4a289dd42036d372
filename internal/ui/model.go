// Package ui implements the chat widget as a Bubble Tea model: a scrolling
// message list above a text input, one request per submitted message.
package ui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"CampusChat/internal/backend"
	"CampusChat/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	inputHeight   = 3
)

// Sender delivers one user message to the chat service.
type Sender interface {
	SendMessage(ctx context.Context, text string) (*backend.MessageResponse, error)
}

// Recorder archives messages as they are appended.
type Recorder interface {
	Append(ctx context.Context, sessionID string, msg session.Message) error
}

// replyMsg carries the settled outcome of one SendMessage call.
type replyMsg struct {
	resp *backend.MessageResponse
	err  error
}

// Model is the chat widget
type Model struct {
	state session.State

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	styles   Styles

	sender    Sender
	recorder  Recorder
	sessionID string
	renderer  *glamour.TermRenderer
	markdown  bool

	title  string
	width  int
	height int

	ctx    context.Context
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithRecorder archives every appended message under sessionID.
func WithRecorder(r Recorder, sessionID string) Option {
	return func(m *Model) {
		m.recorder = r
		m.sessionID = sessionID
	}
}

// WithMarkdown renders assistant replies through glamour.
func WithMarkdown(enabled bool) Option {
	return func(m *Model) { m.markdown = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithClock overrides the time source for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithContext sets the context outbound requests run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// New creates the widget with an empty conversation.
func New(sender Sender, opts ...Option) Model {
	keys := defaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		textarea: ta,
		viewport: viewport.New(defaultWidth, defaultHeight),
		spinner:  sp,
		help:     help.New(),
		keys:     keys,
		styles:   DefaultStyles(),
		sender:   sender,
		title:    "Campus Chat",
		ctx:      context.Background(),
		now:      time.Now,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.resize(defaultWidth, defaultHeight)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// State returns a copy of the widget state.
func (m Model) State() session.State {
	s := m.state
	s.Messages = m.state.Snapshot()
	return s
}

// SendEnabled reports whether the send control is active.
func (m Model) SendEnabled() bool {
	return m.state.CanSend()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Send):
			return m.submit()
		case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case replyMsg:
		return m.settle(msg), nil

	case spinner.TickMsg:
		if !m.state.AwaitingReply {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.viewport.SetContent(m.renderMessages())
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.state.Input = m.textarea.Value()
	return m, cmd
}

// submit sends the current input. Blank input, or input while a reply is
// pending, changes nothing.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.textarea.Value()
	m.state.Input = text
	if !m.state.Submit(text, m.now()) {
		return m, nil
	}

	m.textarea.Reset()
	m.textarea.Blur()
	m.record(m.state.Messages[len(m.state.Messages)-1])
	m.refresh()

	m.logger.Debug("message submitted", "length", len(text))
	return m, tea.Batch(m.spinner.Tick, m.send(text))
}

func (m Model) send(text string) tea.Cmd {
	sender, ctx := m.sender, m.ctx
	return func() tea.Msg {
		resp, err := sender.SendMessage(ctx, text)
		return replyMsg{resp: resp, err: err}
	}
}

// settle appends exactly one assistant message for the pending submission.
func (m Model) settle(msg replyMsg) Model {
	now := m.now()
	var ok bool
	if msg.err != nil || msg.resp == nil || msg.resp.Response == nil || msg.resp.Response.Text == nil {
		m.logger.Warn("showing fallback reply", "error", msg.err)
		ok = m.state.Fail(now)
	} else {
		ok = m.state.Resolve(*msg.resp.Response.Text, msg.resp.ConversationID, now)
	}
	if !ok {
		return m
	}

	m.textarea.Focus()
	m.record(m.state.Messages[len(m.state.Messages)-1])
	m.refresh()
	return m
}

func (m Model) record(msg session.Message) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Append(m.ctx, m.sessionID, msg); err != nil {
		m.logger.Error("failed to record message", "error", err, "session_id", m.sessionID)
	}
}

// refresh re-renders the message list and scrolls to the newest content.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	m.width, m.height = width, height

	// header (1) + input with border (inputHeight+2) + footer (1)
	vpHeight := height - inputHeight - 4
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight

	inputWidth := width - 2
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.textarea.SetWidth(inputWidth)
	m.help.Width = width

	if m.markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.bubbleWidth()-2),
		)
		if err != nil {
			m.logger.Warn("markdown renderer unavailable", "error", err)
			r = nil
		}
		m.renderer = r
	}

	m.refresh()
}
