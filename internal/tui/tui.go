// Package tui provides a Bubble Tea terminal user interface for splitaudio.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/splitaudio/internal/config"
	"github.com/handiism/splitaudio/internal/split"
	"github.com/handiism/splitaudio/internal/timecode"
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

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateInitializing
	StateSplitting
	StateComplete
	StateError
)

// Input fields, in focus order.
const (
	fieldSource = iota
	fieldTrackList
	fieldAlbum
	fieldArtist
	fieldYear
	fieldCount
)

var fieldLabels = [fieldCount]string{"Source file", "Track list", "Album", "Artist", "Year"}

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   split.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logs     []LogEntry
	tracks   []string
	err      error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Split manager reference and its progress events
	manager *split.Manager
	events  chan split.ProgressEvent

	// Split progress
	totalFiles int32
	splitFiles int32

	// Options
	dryRun   bool
	playlist bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model. Values already present in settings
// prefill the form.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	values := [fieldCount]string{settings.InputPath, settings.TrackListPath, settings.Album, settings.Artist, settings.Year}
	placeholders := [fieldCount]string{"~/Music/live-set.flac", "~/Music/live-set.csv", "Album title", "Artist name", "2024"}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 500
		ti.Width = 60
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[fieldSource].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateInput,
		inputs:   inputs,
		spinner:  sp,
		progress: prog,
		settings: settings,
		logs:     make([]LogEntry, 0),
		ctx:      ctx,
		cancel:   cancel,
		dryRun:   settings.DryRun,
		playlist: settings.CreatePlaylist,
		verbose:  settings.Verbose,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every event reported by the manager.
	ProgressMsg struct {
		Event split.ProgressEvent
	}

	// InitDoneMsg is sent when initialization completes.
	InitDoneMsg struct {
		Tracks  []string
		Manager *split.Manager
		Err     error
	}

	// SplitDoneMsg is sent when the run completes.
	SplitDoneMsg struct {
		Files  int32
		TotalF int32
		Err    error
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
			if m.state == StateSplitting || m.state == StateInitializing {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab", "down":
			if m.state == StateInput {
				m.setFocus((m.focus + 1) % fieldCount)
				return m, nil
			}

		case "shift+tab", "up":
			if m.state == StateInput {
				m.setFocus((m.focus + fieldCount - 1) % fieldCount)
				return m, nil
			}

		case "enter":
			if m.state == StateInput && m.ready() {
				m.state = StateInitializing
				m.events = make(chan split.ProgressEvent, 256)
				return m, tea.Batch(m.initializeSplit(m.buildSettings()), m.waitForEvent(), m.spinner.Tick)
			}
			if m.state == StateInput {
				m.setFocus((m.focus + 1) % fieldCount)
				return m, nil
			}

		case "ctrl+d":
			if m.state == StateInput {
				m.dryRun = !m.dryRun
				return m, nil
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
				return m, nil
			}

		case "ctrl+e":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run, keeping the form values
				m.state = StateInput
				m.logs = nil
				m.tracks = nil
				m.err = nil
				m.splitFiles = 0
				m.totalFiles = 0
				m.manager = nil
				m.events = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.setFocus(fieldSource)
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == split.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case InitDoneMsg:
		if m.state != StateInitializing {
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.tracks = msg.Tracks
			m.manager = msg.Manager
			m.state = StateSplitting
			_, m.totalFiles = m.manager.GetProgress()
			// Start the actual split and tick for progress updates
			cmds = append(cmds, m.startSplit(), m.tickProgress())
		}

	case SplitDoneMsg:
		m.splitFiles = msg.Files
		m.totalFiles = msg.TotalF
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
		if m.manager != nil && m.state == StateSplitting {
			files, totalFiles := m.manager.GetProgress()
			m.splitFiles = files
			m.totalFiles = totalFiles

			var percent float64
			if totalFiles > 0 {
				percent = float64(files) / float64(totalFiles)
			}
			progressCmd := m.progress.SetPercent(percent)
			cmds = append(cmds, progressCmd, m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update the focused text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// ready reports whether the required fields are filled in.
func (m Model) ready() bool {
	return strings.TrimSpace(m.inputs[fieldSource].Value()) != "" &&
		strings.TrimSpace(m.inputs[fieldTrackList].Value()) != ""
}

// buildSettings copies the form and options onto the base settings.
func (m Model) buildSettings() *config.Settings {
	s := *m.settings
	s.InputPath = strings.TrimSpace(m.inputs[fieldSource].Value())
	s.TrackListPath = strings.TrimSpace(m.inputs[fieldTrackList].Value())
	s.Album = strings.TrimSpace(m.inputs[fieldAlbum].Value())
	s.Artist = strings.TrimSpace(m.inputs[fieldArtist].Value())
	s.Year = strings.TrimSpace(m.inputs[fieldYear].Value())
	s.DryRun = m.dryRun
	s.CreatePlaylist = m.playlist
	s.Verbose = m.verbose
	return &s
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// waitForEvent delivers the next manager event as a ProgressMsg.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🎵 splitaudio"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Split one recording into tagged tracks"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateInitializing:
		b.WriteString(m.viewInitializing())
	case StateSplitting:
		b.WriteString(m.viewSplitting())
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

func check(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	for i, input := range m.inputs {
		label := fieldLabels[i]
		if i == m.focus {
			b.WriteString(subtitleStyle.Render(label + ":"))
		} else {
			b.WriteString(dimStyle.Render(label + ":"))
		}
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Dry run, write nothing (ctrl+d)\n", check(m.dryRun)))
	b.WriteString(fmt.Sprintf("  %s Create playlist (ctrl+p)\n", check(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+e)\n", check(m.verbose)))
	b.WriteString("\n")

	output := m.settings.OutputPath
	if output == "" {
		output = "next to the source file"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s", output)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewInitializing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Reading track list and probing source..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewSplitting() string {
	var b strings.Builder

	if len(m.tracks) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Found %d track(s):", len(m.tracks))))
		b.WriteString("\n")
		for _, track := range m.tracks {
			b.WriteString(trackStyle.Render(fmt.Sprintf("  ♪ %s", track)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var percent float64
	if m.totalFiles > 0 {
		percent = float64(m.splitFiles) / float64(m.totalFiles)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d/%d", m.splitFiles, m.totalFiles)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	var box string
	if m.dryRun {
		box = fmt.Sprintf("✨ Dry Run Complete!\n\nTracks planned: %d\nNothing was written.", len(m.tracks))
	} else {
		box = fmt.Sprintf("✨ Split Complete!\n\nTracks: %d/%d", m.splitFiles, m.totalFiles)
	}
	b.WriteString(boxStyle.Render(box))
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	if m.manager != nil {
		if written := m.manager.Written(); len(written) > 0 {
			b.WriteString("\n\n")
			b.WriteString(warningStyle.Render(fmt.Sprintf("%d file(s) written before the failure were left in place.", len(written))))
		}
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case split.LevelError:
			style = errorStyle
			prefix = "✗"
		case split.LevelWarning:
			style = warningStyle
			prefix = "!"
		case split.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case split.LevelInfo:
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
		return "tab: next field • enter: start • ctrl+d: dry run • ctrl+p: playlist • ctrl+e: verbose • esc: quit"
	case StateInitializing, StateSplitting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new split • q: quit"
	}
	return ""
}

// initializeSplit reads the track list, probes the source and creates the
// manager.
func (m Model) initializeSplit(settings *config.Settings) tea.Cmd {
	ctx, events := m.ctx, m.events
	return func() tea.Msg {
		manager := split.NewManager(settings, func(event split.ProgressEvent) {
			// Never block the manager; drop events when the buffer is full.
			select {
			case events <- event:
			default:
			}
		})

		if err := manager.Initialize(ctx); err != nil {
			close(events)
			return InitDoneMsg{Err: err}
		}

		var names []string
		for _, track := range manager.Tracks() {
			names = append(names, fmt.Sprintf("%02d. %s  %s - %s", track.Number, track.Title, timecode.Clock(track.Start), timecode.Clock(track.End)))
		}

		return InitDoneMsg{
			Tracks:  names,
			Manager: manager,
		}
	}
}

// startSplit runs the split in background.
func (m Model) startSplit() tea.Cmd {
	ctx, manager, events := m.ctx, m.manager, m.events
	return func() tea.Msg {
		if manager == nil {
			return SplitDoneMsg{Err: fmt.Errorf("no manager")}
		}

		err := manager.Run(ctx)
		close(events)
		files, totalFiles := manager.GetProgress()

		return SplitDoneMsg{
			Files:  files,
			TotalF: totalFiles,
			Err:    err,
		}
	}
}

// Run starts the TUI application with the given base settings.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
