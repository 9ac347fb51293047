package editing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())
}

func TestLoadSettingsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "richedit.yaml")
	config := "style_with_css: true\nparagraph_element: p\nundo_levels: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.True(t, s.StyleWithCSS)
	assert.Equal(t, "p", s.ParagraphElement)
	assert.Equal(t, 7, s.UndoLevels)
	assert.Equal(t, DefaultSettings().KillRingCapacity, s.KillRingCapacity)
}

func TestLoadSettingsFromEnvironment(t *testing.T) {
	t.Setenv("RICHEDIT_STYLE_WITH_CSS", "true")
	t.Setenv("RICHEDIT_KILL_RING_CAPACITY", "3")
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.True(t, s.StyleWithCSS)
	assert.Equal(t, 3, s.KillRingCapacity)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestSettingsValidation(t *testing.T) {
	for name, mutate := range map[string]func(*Settings){
		"kill ring":  func(s *Settings) { s.KillRingCapacity = 0 },
		"min font":   func(s *Settings) { s.MinimumFontSize = 0 },
		"font order": func(s *Settings) { s.DefaultFontSize = 0.5 },
		"paragraph":  func(s *Settings) { s.ParagraphElement = "section" },
		"undo":       func(s *Settings) { s.UndoLevels = -1 },
	} {
		s := DefaultSettings()
		mutate(&s)
		assert.Error(t, s.Validate(), name)
	}
}

func TestSettingsFromViperOverride(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("smart_insert_delete", true)
	s, err := SettingsFromViper(v)
	require.NoError(t, err)
	assert.True(t, s.SmartInsertDelete)
	assert.Equal(t, "div", s.ParagraphElement)
}

func TestEditorFallsBackToDefaultSettings(t *testing.T) {
	bad := DefaultSettings()
	bad.ParagraphElement = "section"
	ed, _ := setupEditor(t, helloHTML, WithSettings(bad))
	assert.Equal(t, DefaultSettings(), ed.Settings())
}
