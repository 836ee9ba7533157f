package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/filmwise/internal/agent"
	"github.com/raphaelgruber/filmwise/internal/llm"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the film assistant.

In-session commands:
  /switch <provider> [model]   switch the completion provider
  /stats                       show session timing statistics
  /quit                        leave the session

Examples:
  filmwise chat
  filmwise chat --user alice`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "", "user name (anonymous if empty)")
}

var (
	accent = lipgloss.Color("#0d7377")

	chatPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	inputBarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	userMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f8f7f4")).
			Bold(true)

	assistantMsgStyle = lipgloss.NewStyle().
				Foreground(accent)

	infoMsgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)
)

type chatMessage struct {
	role    string
	content string
}

// replyMsg carries the result of one processed turn back to the UI.
type replyMsg struct {
	reply string
	err   error
}

type chatModel struct {
	viewport viewport.Model
	input    textinput.Model

	orch   *agent.Orchestrator
	oracle *llm.Oracle
	userID string

	messages []chatMessage
	waiting  bool

	width  int
	height int
}

func newChatModel(orch *agent.Orchestrator, oracle *llm.Oracle, userID, greeting string) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about films..."
	ti.Focus()

	vp := viewport.New(0, 0)

	m := chatModel{
		viewport: vp,
		input:    ti,
		orch:     orch,
		oracle:   oracle,
		userID:   userID,
	}
	m.messages = append(m.messages, chatMessage{role: "assistant", content: greeting})
	return m
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			return m.submit(text)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.width - 4
		m.viewport.Height = m.height - 5
		m.refresh()

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.addMessage("assistant", msg.reply)
			m.addMessage("info", fmt.Sprintf("error: %v", msg.err))
		} else {
			m.addMessage("assistant", msg.reply)
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submit handles one line of input: session commands locally, everything
// else as a turn through the orchestrator.
func (m chatModel) submit(text string) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(text, "/") {
		return m.command(text)
	}

	m.addMessage("user", text)
	m.waiting = true

	orch, userID := m.orch, m.userID
	return m, func() tea.Msg {
		turn, err := orch.Process(context.Background(), userID, text)
		return replyMsg{reply: turn.Reply, err: err}
	}
}

func (m chatModel) command(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)

	switch fields[0] {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/switch":
		if len(fields) < 2 {
			m.addMessage("info", "usage: /switch <provider> [model]")
			return m, nil
		}
		provider := strings.ToLower(fields[1])
		model := ""
		if len(fields) > 2 {
			model = fields[2]
		}
		if err := m.oracle.Switch(provider, model); err != nil {
			m.addMessage("info", fmt.Sprintf("switch failed: %v", err))
		} else {
			m.addMessage("info", fmt.Sprintf("switched to %s (%s)", m.oracle.Provider(), m.oracle.Model()))
		}
		return m, nil

	case "/stats":
		m.addMessage("info", formatSessionStats())
		return m, nil

	default:
		m.addMessage("info", fmt.Sprintf("unknown command: %s", fields[0]))
		return m, nil
	}
}

func (m *chatModel) addMessage(role, content string) {
	m.messages = append(m.messages, chatMessage{role: role, content: content})
	m.refresh()
}

func (m *chatModel) refresh() {
	var b strings.Builder
	for _, msg := range m.messages {
		switch msg.role {
		case "user":
			b.WriteString(userMsgStyle.Render("you: " + msg.content))
		case "assistant":
			b.WriteString(assistantMsgStyle.Render("filmwise: " + msg.content))
		default:
			b.WriteString(infoMsgStyle.Render(msg.content))
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m chatModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Starting chat..."
	}

	input := m.input.View()
	if m.waiting {
		input = "thinking..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		chatPanelStyle.Width(m.width-2).Render(m.viewport.View()),
		inputBarStyle.Width(m.width-2).Render(input),
	)
}

func formatSessionStats() string {
	snap := stats.Snapshot()
	var parts []string
	add := func(name string, count int64, avgMs float64) {
		parts = append(parts, fmt.Sprintf("%s: %d calls, avg %.0fms", name, count, avgMs))
	}
	if snap.Route != nil {
		add("route", snap.Route.Count, snap.Route.AvgTimeMs)
	}
	if snap.Tools != nil {
		add("tools", snap.Tools.Count, snap.Tools.AvgTimeMs)
	}
	if snap.Oracle != nil {
		add("oracle", snap.Oracle.Count, snap.Oracle.AvgTimeMs)
	}
	if snap.Persist != nil {
		add("persist", snap.Persist.Count, snap.Persist.AvgTimeMs)
	}
	if snap.Extract != nil {
		add("extract", snap.Extract.Count, snap.Extract.AvgTimeMs)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("no turns yet (uptime %.0fs)", snap.UptimeSeconds)
	}
	return strings.Join(parts, " | ")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := ensureSeeded(ctx); err != nil {
		return err
	}

	userID, err := resolveUser(ctx, chatUser)
	if err != nil {
		return err
	}

	orch, err := getOrchestrator()
	if err != nil {
		return err
	}

	user, err := mem.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	greeting := fmt.Sprintf("Hello %s! I'm your film assistant. How can I help you discover great films today?", user.DisplayName())

	model := newChatModel(orch, oracle, userID, greeting)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}
