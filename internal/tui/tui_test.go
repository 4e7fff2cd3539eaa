package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/splitaudio/internal/config"
)

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func TestModel_EnterRequiresSourceAndTrackList(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateInput {
		t.Fatalf("state = %v, want StateInput with empty fields", m.state)
	}
	if m.focus != fieldTrackList {
		t.Errorf("focus = %d, want enter to advance to the track list", m.focus)
	}
}

func TestModel_TogglesAndFocus(t *testing.T) {
	m := NewModel(nil)

	m = press(m,
		tea.KeyMsg{Type: tea.KeyCtrlD},
		tea.KeyMsg{Type: tea.KeyCtrlP},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyShiftTab},
	)

	if !m.dryRun || !m.playlist || m.verbose {
		t.Errorf("options = dry %v playlist %v verbose %v", m.dryRun, m.playlist, m.verbose)
	}
	if m.focus != fieldTrackList {
		t.Errorf("focus = %d, want %d", m.focus, fieldTrackList)
	}
}

func TestModel_BuildSettings(t *testing.T) {
	base := config.DefaultSettings()
	base.OutputPath = "/out"
	base.InputPath = " /music/live.flac "
	base.TrackListPath = "/music/live.csv"
	base.Artist = "Band"

	m := NewModel(base)
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlE})

	s := m.buildSettings()
	if s.InputPath != "/music/live.flac" || s.TrackListPath != "/music/live.csv" || s.Artist != "Band" {
		t.Errorf("buildSettings() = %+v", s)
	}
	if s.OutputPath != "/out" || !s.Verbose {
		t.Errorf("base settings or options lost: %+v", s)
	}
	if base.Verbose {
		t.Error("buildSettings() modified the base settings")
	}
	if !m.ready() {
		t.Error("ready() = false with source and track list filled")
	}
}
