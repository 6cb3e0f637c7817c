// Package tui provides a Bubble Tea terminal user interface for gfontapi.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gfontapi/gfontapi/internal/config"
	"github.com/gfontapi/gfontapi/internal/convert"
	"github.com/gfontapi/gfontapi/internal/download"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	familyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateWorking
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	family    string
	variants  int
	err       error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Pipeline manager reference
	manager *download.Manager

	// Progress
	totalVariants int32
	doneVariants  int32
	totalBytes    int64
	receivedBytes int64

	// Options
	skipConvert bool
	keepSource  bool
	verbose     bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "Open Sans"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  config.DefaultSettings(),
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent when pipeline progress updates.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// InitDoneMsg is sent when family resolution completes.
	InitDoneMsg struct {
		Family   string
		Variants int
		Manager  *download.Manager
		Err      error
	}

	// RunDoneMsg is sent when the pipeline run finishes.
	RunDoneMsg struct {
		Received int64
		Total    int64
		Done     int32
		TotalV   int32
		Err      error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateWorking || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateInput && m.textInput.Value() != "" {
				m.state = StateInitializing
				return m, tea.Batch(m.initializePipeline(), m.spinner.Tick)
			}

		case "s":
			if m.state == StateInput {
				m.skipConvert = !m.skipConvert
			}

		case "k":
			if m.state == StateInput {
				m.keepSource = !m.keepSource
			}

		case "v":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new family
				m.state = StateInput
				m.logs = nil
				m.family = ""
				m.variants = 0
				m.err = nil
				m.doneVariants = 0
				m.totalVariants = 0
				m.receivedBytes = 0
				m.totalBytes = 0
				m.manager = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			return m, nil
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

	case InitDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.family = msg.Family
			m.variants = msg.Variants
			m.manager = msg.Manager
			m.state = StateWorking
			// Start the pipeline run and tick for progress updates
			cmds = append(cmds, m.startRun(), m.tickProgress())
		}

	case RunDoneMsg:
		m.receivedBytes = msg.Received
		m.totalBytes = msg.Total
		m.doneVariants = msg.Done
		m.totalVariants = msg.TotalV
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateWorking {
			received, total, done, totalVariants := m.manager.GetProgress()
			m.receivedBytes = received
			m.totalBytes = total
			m.doneVariants = done
			m.totalVariants = totalVariants

			var percent float64
			if totalVariants > 0 {
				percent = float64(done) / float64(totalVariants)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("gfontapi"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Fetch Google Fonts as self-hosted WOFF2"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateWorking:
		b.WriteString(m.viewWorking())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter font family name:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	skipCheck := "[ ]"
	if m.skipConvert {
		skipCheck = "[x]"
	}
	keepCheck := "[ ]"
	if m.keepSource {
		keepCheck = "[x]"
	}
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Skip WOFF2 conversion (s)\n", skipCheck))
	b.WriteString(fmt.Sprintf("  %s Keep TrueType sources (k)\n", keepCheck))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Target directory: %s", m.settings.TargetDir)))
	b.WriteString("\n")
	if os.Getenv("GFONT_API_KEY") == "" {
		b.WriteString(warningStyle.Render("GFONT_API_KEY is not set"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Resolving font family..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewWorking() string {
	var b strings.Builder

	if m.family != "" {
		b.WriteString(successStyle.Render("Resolved:"))
		b.WriteString(" ")
		b.WriteString(familyStyle.Render(fmt.Sprintf("%s (%d variants)", m.family, m.variants)))
		b.WriteString("\n\n")
	}

	// Progress bar
	var percent float64
	if m.totalVariants > 0 {
		percent = float64(m.doneVariants) / float64(m.totalVariants)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Variants: %d/%d | Downloaded: %.2f MB | Stage: %s",
		m.doneVariants,
		m.totalVariants,
		float64(m.receivedBytes)/1024/1024,
		m.manager.Stage(),
	)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	stylesheet := ""
	if m.manager != nil {
		if family := m.manager.Family(); family != nil {
			stylesheet = family.StylesheetPath
		}
	}

	box := boxStyle.Render(fmt.Sprintf(
		"Complete!\n\n"+
			"Family: %s\n"+
			"Variants: %d/%d\n"+
			"Size: %.2f MB\n"+
			"Stylesheet: %s",
		m.family,
		m.doneVariants,
		m.totalVariants,
		float64(m.receivedBytes)/1024/1024,
		stylesheet,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • s: skip conversion • k: keep ttf • v: verbose • esc: quit"
	case StateInitializing, StateWorking:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new family • q: quit"
	}
	return ""
}

// initializePipeline resolves the family and creates the manager.
func (m *Model) initializePipeline() tea.Cmd {
	return func() tea.Msg {
		familyName := m.textInput.Value()

		settings := config.DefaultSettings()
		settings.SkipConversion = m.skipConvert
		settings.KeepSourceFonts = m.keepSource

		converter := convert.NewWOFF2Compress(
			settings.ConverterPath,
			time.Duration(settings.ConvertTimeoutSeconds)*time.Second,
			settings.KeepSourceFonts,
		)

		// Progress events are collected but not sent directly;
		// the TUI polls for progress via TickMsg.
		manager := download.NewManager(settings, os.Getenv("GFONT_API_KEY"), converter, nil)

		if err := manager.Initialize(m.ctx, familyName, nil); err != nil {
			return InitDoneMsg{Err: err}
		}

		family := manager.Family()

		return InitDoneMsg{
			Family:   family.Name,
			Variants: len(family.Variants),
			Manager:  manager,
			Err:      nil,
		}
	}
}

// startRun executes the pipeline in the background.
func (m *Model) startRun() tea.Cmd {
	return func() tea.Msg {
		if m.manager == nil {
			return RunDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := m.manager.Run(m.ctx)
		received, total, done, totalVariants := m.manager.GetProgress()

		return RunDoneMsg{
			Received: received,
			Total:    total,
			Done:     done,
			TotalV:   totalVariants,
			Err:      err,
		}
	}
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
