package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/diceduel/internal/game"
)

// TickMsg advances the match by one frame.
type TickMsg time.Time

// TUIModel represents the Bubble Tea model for a human-vs-bot match. The
// match is only touched from Update, which Bubble Tea runs on one goroutine.
type TUIModel struct {
	match     *game.Match
	formatter *game.EventFormatter
	logger    *log.Logger
	tick      time.Duration

	// UI components
	logViewport viewport.Model
	help        help.Model

	// State
	gameLog  []string
	snapshot game.Snapshot
	flash    game.Intensity
	quitting bool

	// Dimensions
	width  int
	height int
}

// NewTUIModel creates the match and the model presenting it. Extra options
// are passed to game.NewMatch; presenter and feedback are owned by the
// model.
func NewTUIModel(settings game.Settings, tick time.Duration, names [2]string, logger *log.Logger, opts ...game.Option) (*TUIModel, error) {
	m := &TUIModel{
		logger:      logger.WithPrefix("tui"),
		tick:        tick,
		logViewport: viewport.New(40, 8),
		help:        help.New(),
		formatter: game.NewEventFormatter(game.FormattingOptions{
			Names: names,
		}),
	}

	opts = append(opts,
		game.WithLogger(logger),
		game.WithPresenter(game.PresenterFunc(m.present)),
		game.WithFeedback(game.FeedbackFunc(m.feedback)),
	)
	match, err := game.NewMatch(settings, opts...)
	if err != nil {
		return nil, err
	}
	match.EventBus().Subscribe(m)
	m.match = match
	m.snapshot = match.Snapshot()
	return m, nil
}

// Match returns the match driven by the model.
func (m *TUIModel) Match() *game.Match { return m.match }

// Init starts the frame ticker
func (m *TUIModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *TUIModel) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.flash = ""
		m.match.Tick()
		return m, m.tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *TUIModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, keys.Roll):
		m.match.RequestRoll(game.Human)
	case key.Matches(msg, keys.Lock):
		die := int(msg.String()[0] - '1')
		m.match.ToggleLock(game.Human, die)
	case key.Matches(msg, keys.RollLocked):
		m.match.RequestRollLocked(game.Human)
	case key.Matches(msg, keys.Bank):
		m.match.RequestBank(game.Human)
	case key.Matches(msg, keys.Restart):
		m.match.Restart()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	default:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return cmd
	}
	m.snapshot = m.match.Snapshot()
	return nil
}

// OnEvent appends match events to the log
func (m *TUIModel) OnEvent(event game.GameEvent) {
	line := m.formatter.Format(event)
	if line == "" {
		return
	}
	m.AddLogEntry(line)
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	// Update content and auto-scroll to bottom
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns the game log lines
func (m *TUIModel) Log() []string {
	return m.gameLog
}

func (m *TUIModel) present(snapshot game.Snapshot) {
	m.snapshot = snapshot
}

func (m *TUIModel) feedback(intensity game.Intensity) {
	if m.flash == game.Heavy {
		return
	}
	m.flash = intensity
}

func (m *TUIModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderBoard()) + lipgloss.Height(m.help.View(keys)) + 2
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.height-used, 1)
	m.logViewport.GotoBottom()
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	logPane := PanelStyle.Render(m.logViewport.View())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBoard(),
		logPane,
		m.help.View(keys),
	)
}

func (m *TUIModel) renderHeader() string {
	status := m.snapshot.Status
	switch {
	case m.snapshot.GameOver:
		status = SuccessStyle.Render(status)
	case m.flash == game.Medium || m.flash == game.Heavy:
		status = WarningStyle.Render(status)
	}
	return HeaderStyle.Render("Dice Duel") + "  " + status + "  " +
		InfoStyle.Render(fmt.Sprintf("first to %d", m.snapshot.Target))
}

func (m *TUIModel) renderBoard() string {
	panels := make([]string, 0, len(game.Sides))
	for _, side := range game.Sides {
		panels = append(panels, m.renderSide(side))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func (m *TUIModel) renderSide(side game.Side) string {
	s := m.snapshot.Side(side)

	dice := make([]string, len(s.Dice))
	for i, d := range s.Dice {
		dice[i] = renderDie(d, s.Highlighted)
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.formatter.Name(side)))
	b.WriteString("  ")
	b.WriteString(InfoStyle.Render(stateLabel(s)))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, dice...))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Turn: %d  Bank: %d", s.TurnPoints, s.Balance)

	style := PanelStyle
	if !m.snapshot.GameOver && m.snapshot.Active == side {
		style = ActivePanelStyle
	}
	return style.Render(b.String())
}

func renderDie(d game.DieView, highlighted game.FaceSet) string {
	switch {
	case d.Rolling:
		return RollingDieStyle.Render("?")
	case d.Face == 0:
		return RollingDieStyle.Render(" ")
	}
	face := fmt.Sprint(d.Face)
	if highlighted.Has(d.Face) {
		face = HighlightStyle.Render(face)
	}
	if d.Locked {
		return LockedDieStyle.Render(face)
	}
	return DieStyle.Render(face)
}

func stateLabel(s game.SideSnapshot) string {
	switch {
	case s.Rolling:
		return "rolling..."
	case !s.CanAct:
		return "waiting"
	}
	switch s.State {
	case game.Spin:
		return "roll to start"
	case game.AfterSpin:
		return "lock dice and re-roll, or bank"
	case game.End:
		return "bank"
	}
	return s.State.String()
}
