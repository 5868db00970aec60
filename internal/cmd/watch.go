package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hostlink/hostlink/config"
	"github.com/hostlink/hostlink/internal/client"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the dashboard server's event stream",
	Long: `Connect to the server's WebSocket endpoint and show events as they arrive:
heartbeats with uptime and device count, plus pairing and revocation events.

Key bindings:
  q/esc  Quit`,
	Run: runWatch,
}

func init() {
	watchCmd.Flags().String("token", "", "Bearer token for the WebSocket handshake (default: admin token on disk)")
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = readAdminToken() // empty is fine for open servers
	}

	c := client.FromConfig(cfg, token)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	m := watchModel{
		origin:  c.Origin(),
		api:     c,
		ctx:     ctx,
		cancel:  cancel,
		spinner: sp,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

const maxWatchEvents = 200

type watchModel struct {
	origin    string
	api       *client.Client
	ctx       context.Context
	cancel    context.CancelFunc
	spinner   spinner.Model
	ch        <-chan client.Event
	events    []client.Event
	latest    client.Event // last heartbeat/snapshot
	connected bool
	err       error
	width     int
	height    int
}

type connectedMsg struct{ ch <-chan client.Event }
type connectErrMsg struct{ err error }
type eventMsg client.Event
type streamClosedMsg struct{}

func connectCmd(ctx context.Context, c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ch, err := c.Events(ctx)
		if err != nil {
			return connectErrMsg{err: err}
		}
		return connectedMsg{ch: ch}
	}
}

func waitForEvent(ch <-chan client.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(e)
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, connectCmd(m.ctx, m.api))
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case connectedMsg:
		m.connected = true
		m.err = nil
		m.ch = msg.ch
		return m, waitForEvent(m.ch)

	case connectErrMsg:
		m.err = msg.err
		return m, nil

	case eventMsg:
		e := client.Event(msg)
		if e.Type == "heartbeat" || e.Type == "snapshot" {
			m.latest = e
		} else {
			m.events = appendEvent(m.events, e, maxWatchEvents)
		}
		return m, waitForEvent(m.ch)

	case streamClosedMsg:
		m.connected = false
		m.err = fmt.Errorf("connection closed")
		return m, nil

	case spinner.TickMsg:
		if m.connected {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m watchModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")).
		Render(fmt.Sprintf("  hostlink watch — %s | q: quit", m.origin))

	var status string
	switch {
	case m.err != nil:
		status = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Render(fmt.Sprintf("  %v", m.err))
	case !m.connected:
		status = fmt.Sprintf("  %s connecting…", m.spinner.View())
	default:
		status = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Render(fmt.Sprintf("  connected — up %s, %d paired device(s)", m.latest.Uptime, m.latest.Devices))
	}

	lines := make([]string, 0, len(m.events))
	for i := len(m.events) - 1; i >= 0; i-- {
		lines = append(lines, "  "+formatEvent(m.events[i]))
	}
	maxLines := m.height - 4
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	out := title + "\n" + status + "\n\n"
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
