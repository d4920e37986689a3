package chooser

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var names = []string{"cpu", "memory", "load", "cpu_temp", "network_rx", "disk"}

func TestRankEmptyQueryReturnsAll(t *testing.T) {
	got := Rank("  ", names)
	if strings.Join(got, ",") != strings.Join(names, ",") {
		t.Errorf("Expected all names in order, got %v", got)
	}
}

func TestRankSubstringFirst(t *testing.T) {
	got := Rank("cpu", names)
	if len(got) < 2 || got[0] != "cpu" || got[1] != "cpu_temp" {
		t.Errorf("Expected cpu, cpu_temp first, got %v", got)
	}
	for _, n := range got {
		if n == "disk" {
			t.Errorf("Unrelated name ranked: %v", got)
		}
	}
}

func TestRankTypo(t *testing.T) {
	got := Rank("memroy", names)
	if len(got) == 0 || got[0] != "memory" {
		t.Errorf("Expected memory for a typo, got %v", got)
	}
}

func TestRankCaseInsensitive(t *testing.T) {
	got := Rank("LOAD", names)
	if got[0] != "load" {
		t.Errorf("Expected load, got %v", got)
	}
}

func TestRankNoMatchReturnsAll(t *testing.T) {
	got := Rank("zzzzzzzz", names)
	if len(got) != len(names) {
		t.Errorf("Expected fallback to all names, got %v", got)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestModelTypeAndChoose(t *testing.T) {
	m := send(newModel(names), key("c"), key("p"), key("u"), key("down"), key("enter"))
	if !m.done || m.chosen != "cpu_temp" {
		t.Errorf("Expected cpu_temp chosen, got %q (done=%v)", m.chosen, m.done)
	}
}

func TestModelSelectionBounds(t *testing.T) {
	m := send(newModel(names), key("up"))
	if m.selected != 0 {
		t.Errorf("Expected selection clamped at 0, got %d", m.selected)
	}
	m = send(m, tea.WindowSizeMsg{Width: 80, Height: 3})
	m = send(m, key("down"), key("down"), key("down"))
	if m.selected != 1 {
		t.Errorf("Expected selection clamped to visible rows, got %d", m.selected)
	}
}

func TestModelCancel(t *testing.T) {
	m := send(newModel(names), key("esc"))
	if !m.done || m.chosen != "" {
		t.Errorf("Expected cancelled model, got %+v", m.chosen)
	}
	if m.View() != "" {
		t.Error("Expected empty view after exit")
	}
}

func TestModelViewHighlightsSelection(t *testing.T) {
	m := newModel(names)
	view := m.View()
	if !strings.Contains(view, "Choose a panel?") {
		t.Errorf("Expected prompt in view, got %q", view)
	}
	for _, n := range names {
		if !strings.Contains(view, n) {
			t.Errorf("Expected %q listed", n)
		}
	}
}
