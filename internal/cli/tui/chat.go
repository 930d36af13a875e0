package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/theshubhamgundu/sahaaya/internal/cli/client"
	"github.com/theshubhamgundu/sahaaya/internal/cli/ui"
	"github.com/theshubhamgundu/sahaaya/internal/handler/dto"
)

// UI configuration constants
const (
	defaultInputWidth     = 100
	defaultViewportWidth  = 100
	defaultViewportHeight = 30
	defaultWindowWidth    = 100
	defaultWindowHeight   = 40
	inputCharLimit        = 4000
	inputHeightReserved   = 2
	statusHeightReserved  = 3
	minContentHeight      = 10
	requestTimeout        = 15 * time.Second
)

var (
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle   = ui.Styles.Bold
	accentStyle = lipgloss.NewStyle().Foreground(ui.Cyan)
	errorStyle  = ui.Styles.Alert
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	systemStyle = ui.Styles.Muted.Italic(true)
)

// ChatProgram encapsulates the peer chat TUI program
type ChatProgram struct {
	model chatModel
}

// NewChatProgram creates a chat program for role ("user" or "supporter")
func NewChatProgram(apiClient *client.APIClient, role, senderName string) *ChatProgram {
	return &ChatProgram{model: initialModel(apiClient, role, senderName)}
}

// Run starts the chat TUI program and blocks until the user quits
func (p *ChatProgram) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := p.model
	m.ctx = ctx
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// chatModel is the Bubble Tea model containing all chat interface state
type chatModel struct {
	ctx        context.Context
	apiClient  *client.APIClient
	role       string
	senderName string

	input       textinput.Model
	contentView viewport.Model

	messages []dto.ChatMessage
	sending  bool
	live     bool

	snapCh <-chan dto.ChatMessagesResponse
	errCh  <-chan error

	err error

	width  int
	height int
}

func initialModel(apiClient *client.APIClient, role, senderName string) chatModel {
	input := textinput.New()
	input.Focus()
	input.CharLimit = inputCharLimit
	input.Width = defaultInputWidth
	input.Prompt = ""

	return chatModel{
		ctx:         context.Background(),
		apiClient:   apiClient,
		role:        role,
		senderName:  senderName,
		input:       input,
		contentView: viewport.New(defaultViewportWidth, defaultViewportHeight),
		width:       defaultWindowWidth,
		height:      defaultWindowHeight,
	}
}

// Init initializes the model (Bubble Tea interface)
func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.openStream())
}

type (
	streamInitMsg struct {
		snapCh <-chan dto.ChatMessagesResponse
		errCh  <-chan error
	}
	snapshotMsg   struct{ snap dto.ChatMessagesResponse }
	streamErrMsg  struct{ err error }
	streamDoneMsg struct{}
	sentMsg       struct{ err error }
	clearedMsg    struct{ err error }
)

// Update processes messages and updates the model (Bubble Tea interface)
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyPress(msg)...)

	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)

	case streamInitMsg:
		m.snapCh, m.errCh = msg.snapCh, msg.errCh
		m.live = true
		m.err = nil
		cmds = append(cmds, waitForSnapshot(m.snapCh, m.errCh))

	case snapshotMsg:
		m.messages = msg.snap.Messages
		m.refreshContent()
		cmds = append(cmds, waitForSnapshot(m.snapCh, m.errCh))

	case streamErrMsg:
		m.err = msg.err
		m.live = false
		m.snapCh, m.errCh = nil, nil
		m.refreshContent()

	case streamDoneMsg:
		m.live = false
		m.snapCh, m.errCh = nil, nil
		m.err = fmt.Errorf("chat stream closed by server")
		m.refreshContent()

	case sentMsg:
		m.sending = false
		m.err = msg.err
		m.refreshContent()

	case clearedMsg:
		m.err = msg.err
		m.refreshContent()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *chatModel) handleKeyPress(msg tea.KeyMsg) []tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return []tea.Cmd{tea.Quit}

	case tea.KeyEnter:
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.sending {
			return nil
		}
		m.input.Reset()
		m.sending = true
		return []tea.Cmd{m.send(text)}

	case tea.KeyCtrlL:
		return []tea.Cmd{m.clear()}

	case tea.KeyCtrlR:
		if !m.live {
			return []tea.Cmd{m.openStream()}
		}

	case tea.KeyUp:
		m.contentView.LineUp(1)
	case tea.KeyDown:
		m.contentView.LineDown(1)
	case tea.KeyPgUp:
		m.contentView.ViewUp()
	case tea.KeyPgDown:
		m.contentView.ViewDown()
	}
	return nil
}

func (m *chatModel) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height

	contentHeight := msg.Height - inputHeightReserved - statusHeightReserved
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}

	m.contentView.Width = msg.Width
	m.contentView.Height = contentHeight
	m.input.Width = msg.Width - 3

	m.refreshContent()
}

func (m chatModel) openStream() tea.Cmd {
	ctx, apiClient, role := m.ctx, m.apiClient, m.role
	return func() tea.Msg {
		snapCh, errCh, err := apiClient.StreamChat(ctx, role)
		if err != nil {
			return streamErrMsg{err: err}
		}
		return streamInitMsg{snapCh: snapCh, errCh: errCh}
	}
}

func waitForSnapshot(snapCh <-chan dto.ChatMessagesResponse, errCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case snap, ok := <-snapCh:
			if !ok {
				if err, ok := <-errCh; ok && err != nil {
					return streamErrMsg{err: err}
				}
				return streamDoneMsg{}
			}
			return snapshotMsg{snap: snap}
		case err, ok := <-errCh:
			if ok && err != nil {
				return streamErrMsg{err: err}
			}
			return streamDoneMsg{}
		}
	}
}

func (m chatModel) send(text string) tea.Cmd {
	ctx, apiClient := m.ctx, m.apiClient
	req := &dto.SendChatMessageRequest{Text: text, Sender: m.role, SenderName: m.senderName}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		_, err := apiClient.SendChat(ctx, req)
		return sentMsg{err: err}
	}
}

func (m chatModel) clear() tea.Cmd {
	ctx, apiClient := m.ctx, m.apiClient
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()
		return clearedMsg{err: apiClient.ClearChat(ctx)}
	}
}

func (m *chatModel) refreshContent() {
	display := renderMessages(m.messages, m.role)
	if m.err != nil {
		display += "\n" + errorStyle.Render(fmt.Sprintf("error: %v", m.err))
	}
	if m.width > 0 {
		display = wrapText(display, m.width)
	}
	m.contentView.SetContent(display)
	m.contentView.GotoBottom()
}

// renderMessages lays out a snapshot; the viewer's own messages are bold
func renderMessages(msgs []dto.ChatMessage, viewer string) string {
	var b strings.Builder
	for _, msg := range msgs {
		if msg.Sender == "system" {
			b.WriteString(systemStyle.Render(msg.Text))
			b.WriteString("\n\n")
			continue
		}

		name := msg.SenderName
		if name == "" {
			name = msg.Sender
		}
		header := accentStyle.Render(name)
		if msg.Sender == viewer {
			header = boldStyle.Render(name)
		}
		if msg.Timestamp > 0 {
			header += " " + dimStyle.Render(time.UnixMilli(msg.Timestamp).Format("15:04"))
		}

		b.WriteString(header)
		b.WriteString("\n")
		b.WriteString(msg.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// wrapText wraps every line to maxWidth display cells
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 10 {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, maxWidth)
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a line by display width; wide runes take two cells
func wrapLine(line string, maxWidth int) string {
	if runewidth.StringWidth(line) <= maxWidth {
		return line
	}

	var result, current strings.Builder
	width := 0
	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if width+w > maxWidth && width > 0 {
			result.WriteString(current.String())
			result.WriteString("\n")
			current.Reset()
			width = 0
		}
		current.WriteRune(r)
		width += w
	}
	result.WriteString(current.String())
	return result.String()
}

// View renders the UI (Bubble Tea interface)
func (m chatModel) View() string {
	status := dimStyle.Render("Peer chat as " + m.role)
	switch {
	case m.live:
		status += dimStyle.Render(" • live")
	default:
		status += errorStyle.Render(" • offline")
	}
	if m.sending {
		status += dimStyle.Render(" • sending...")
	}

	inputView := promptStyle.Render("> ") + m.input.View()
	help := dimStyle.Render("Enter send • Ctrl+L clear chat • Ctrl+R reconnect • ↑↓ scroll • Esc quit")

	return lipgloss.JoinVertical(lipgloss.Left, status, "", m.contentView.View(), "", inputView, help)
}
