package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testItems() []list.Item {
	return []list.Item{
		NewFileItem("/walls/anime/sunset.png", 2_500_000, modTime),
		NewFileItem("/walls/anime/forest.jpg", 512, modTime),
	}
}

func sizeMsg() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: 80, Height: 24}
}

func readyModel(t *testing.T) Model {
	t.Helper()

	m := NewPicker(testItems())
	result, _ := m.Update(sizeMsg())

	model, ok := result.(Model)
	require.True(t, ok)

	return model
}

func confirmingModel(t *testing.T) Model {
	t.Helper()

	result, _ := readyModel(t).Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := result.(Model)
	require.True(t, ok)
	require.Equal(t, StateConfirming, model.State())

	return model
}

func TestNewPicker_InitialState(t *testing.T) {
	m := NewPicker(testItems())

	assert.Equal(t, StatePicking, m.State())
	assert.False(t, m.Cancelled())
	assert.Nil(t, m.Selected())
	assert.False(t, m.ready)
}

func TestPicker_WindowSizeMsg(t *testing.T) {
	m := NewPicker(testItems())

	result, _ := m.Update(sizeMsg())
	model := result.(Model)

	assert.True(t, model.ready)
	assert.Equal(t, 80, model.width)
	assert.Equal(t, 24, model.height)
}

func TestPicker_EnterAsksConfirmation(t *testing.T) {
	m := confirmingModel(t)

	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "Set sunset.png as wallpaper? (y/n)")
}

func TestConfirm_YesSelects(t *testing.T) {
	m := confirmingModel(t)

	result, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	model := result.(Model)

	assert.Equal(t, StateDone, model.State())
	require.NotNil(t, model.Selected())
	assert.Equal(t, "/walls/anime/sunset.png", model.Selected().Path())
	assert.NotNil(t, cmd)
}

func TestConfirm_NoReturnsToPicking(t *testing.T) {
	m := confirmingModel(t)

	result, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	model := result.(Model)

	assert.Equal(t, StatePicking, model.State())
	assert.Nil(t, model.Selected())
	assert.False(t, model.Cancelled())
}

func TestConfirm_OtherKeysIgnored(t *testing.T) {
	m := confirmingModel(t)

	result, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	model := result.(Model)

	assert.Equal(t, StateConfirming, model.State())
}

func TestConfirm_CtrlCCancels(t *testing.T) {
	m := confirmingModel(t)

	result, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	model := result.(Model)

	assert.Equal(t, StateDone, model.State())
	assert.True(t, model.Cancelled())
	assert.Nil(t, model.Selected())
}

func TestPicker_CtrlCCancels(t *testing.T) {
	m := readyModel(t)

	result, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	model := result.(Model)

	assert.Equal(t, StateDone, model.State())
	assert.True(t, model.Cancelled())
	assert.Nil(t, model.Selected())
}

func TestPicker_EscCancels(t *testing.T) {
	m := readyModel(t)

	result, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	model := result.(Model)

	assert.Equal(t, StateDone, model.State())
	assert.True(t, model.Cancelled())
}

func TestPicker_ViewLoading(t *testing.T) {
	m := NewPicker(testItems())

	assert.Equal(t, "Loading...", m.View())
}

func TestPicker_ViewAfterReady(t *testing.T) {
	m := readyModel(t)

	view := m.View()
	assert.NotEmpty(t, view)
	assert.NotEqual(t, "Loading...", view)
}

func TestFileItem(t *testing.T) {
	item := NewFileItem("/walls/anime/sunset.png", 2_500_000, modTime)

	assert.Equal(t, "sunset.png", item.Title())
	assert.Equal(t, "sunset.png", item.FilterValue())
	assert.Equal(t, "2.4 MiB | 2024-03-01", item.Description())
	assert.Equal(t, "/walls/anime/sunset.png", item.Path())
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.0 KiB", humanSize(1024))
	assert.Equal(t, "1.5 MiB", humanSize(1536*1024))
}

func TestItemsFromPaths(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(good, []byte("abc"), 0o600))

	items := ItemsFromPaths([]string{good, filepath.Join(dir, "missing.jpg")})

	require.Len(t, items, 1)
	fi := items[0].(FileItem)
	assert.Equal(t, good, fi.Path())
	assert.Equal(t, "3 B | "+fi.modTime.Format("2006-01-02"), fi.Description())
}
