package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallctl/wallctl/internal/config"
	"github.com/wallctl/wallctl/internal/local"
	"github.com/wallctl/wallctl/internal/tui"
)

func wallpaperDir(t *testing.T, home string, names ...string) string {
	t.Helper()

	dir := filepath.Join(home, "pics", "wallpapers", "anime")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o600))
	}

	return dir
}

func setCtx(cfg *config.Config) context.Context {
	return config.WithConfig(context.Background(), cfg)
}

func TestSetCmd_WallpaperFile(t *testing.T) {
	home, runner, launcher := fakeDesktop(t, "")
	dir := wallpaperDir(t, home, "one.jpg")
	file := filepath.Join(dir, "one.jpg")

	output := captureStdout(t, func() {
		require.NoError(t, (&SetCmd{WallpaperFile: file}).Run(setCtx(&config.Config{}), &RootFlags{}))
	})

	assert.Contains(t, output, "Wallpaper set: "+file)
	assert.Equal(t, []string{"xwallpaper --clear", "xwallpaper --zoom " + file}, runner.cmds)
	require.Len(t, launcher.cmds, 2)
	assert.Equal(t, "wal -q -i "+file, launcher.cmds[0], "pywal defaults on for set")

	sentinel, err := os.ReadFile(filepath.Join(home, ".current_wall.txt"))
	require.NoError(t, err)
	assert.Equal(t, file+"\n", string(sentinel))
}

func TestSetCmd_RandomDefaultDir(t *testing.T) {
	home, runner, _ := fakeDesktop(t, "")
	dir := wallpaperDir(t, home, "a.jpg", "b.jpg")

	noPywal := false
	captureStdout(t, func() {
		require.NoError(t, (&SetCmd{Random: true, Pywal: &noPywal}).Run(setCtx(&config.Config{}), &RootFlags{}))
	})

	require.Len(t, runner.cmds, 2)
	applied := runner.cmds[1][len("xwallpaper --zoom "):]
	assert.Contains(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.jpg")}, applied)
}

func TestSetCmd_RandomEmptyDir(t *testing.T) {
	home, _, _ := fakeDesktop(t, "")
	wallpaperDir(t, home)

	err := (&SetCmd{Random: true}).Run(setCtx(&config.Config{}), &RootFlags{})

	assert.ErrorIs(t, err, local.ErrEmptyDir)
}

func TestSetCmd_ExplicitDir(t *testing.T) {
	_, runner, _ := fakeDesktop(t, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "only.png"), []byte("x"), 0o600))

	captureStdout(t, func() {
		require.NoError(t, (&SetCmd{Random: true, WallpaperDir: dir}).Run(setCtx(&config.Config{}), &RootFlags{}))
	})

	assert.Equal(t, "xwallpaper --zoom "+filepath.Join(dir, "only.png"), runner.cmds[1])
}

func TestSetCmd_ModeValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  SetCmd
	}{
		{"none", SetCmd{}},
		{"random and file", SetCmd{Random: true, WallpaperFile: "/x.jpg"}},
		{"random and pick", SetCmd{Random: true, Pick: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(setCtx(&config.Config{}), &RootFlags{})
			require.Error(t, err)
			assert.Equal(t, 2, ExitCode(err))
		})
	}
}

func TestSetCmd_PickNoInput(t *testing.T) {
	err := (&SetCmd{Pick: true}).Run(setCtx(&config.Config{}), &RootFlags{NoInput: true})

	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
}

func TestSetCmd_Pick(t *testing.T) {
	home, runner, _ := fakeDesktop(t, "")
	dir := wallpaperDir(t, home, "a.jpg", "b.jpg")

	orig := runPicker
	t.Cleanup(func() { runPicker = orig })

	var offered []string
	runPicker = func(items []list.Item) (string, error) {
		for _, it := range items {
			offered = append(offered, it.(tui.FileItem).Path())
		}

		return offered[1], nil
	}

	captureStdout(t, func() {
		require.NoError(t, (&SetCmd{Pick: true}).Run(setCtx(&config.Config{}), &RootFlags{}))
	})

	assert.Equal(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.jpg")}, offered)
	assert.Equal(t, "xwallpaper --zoom "+filepath.Join(dir, "b.jpg"), runner.cmds[1])
}

func TestSetCmd_PickCancelled(t *testing.T) {
	home, runner, _ := fakeDesktop(t, "")
	wallpaperDir(t, home, "a.jpg")

	orig := runPicker
	t.Cleanup(func() { runPicker = orig })
	runPicker = func([]list.Item) (string, error) { return "", nil }

	require.NoError(t, (&SetCmd{Pick: true}).Run(setCtx(&config.Config{}), &RootFlags{}))
	assert.Empty(t, runner.cmds)
}

func TestSetCmd_MissingFile(t *testing.T) {
	fakeDesktop(t, "")

	err := (&SetCmd{WallpaperFile: "/nonexistent/wall.jpg"}).Run(setCtx(&config.Config{}), &RootFlags{})

	assert.ErrorIs(t, err, os.ErrNotExist)
}
