package editing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings configure the behaviour of an Editor.
type Settings struct {
	// StyleWithCSS makes style commands produce <span style="…"> only,
	// instead of legacy markup like <b> or <font>.
	StyleWithCSS bool `mapstructure:"style_with_css"`
	// SmartInsertDelete enables smart deletion of word-separating spaces.
	SmartInsertDelete bool `mapstructure:"smart_insert_delete"`
	// KillRingCapacity is the number of kill ring entries kept.
	KillRingCapacity int `mapstructure:"kill_ring_capacity"`
	// MinimumFontSize is the floor for relative font size changes, in px.
	MinimumFontSize float64 `mapstructure:"minimum_font_size"`
	// DefaultFontSize is the medium font size, in px.
	DefaultFontSize float64 `mapstructure:"default_font_size"`
	// ParagraphElement is the tag of elements created for new paragraphs.
	ParagraphElement string `mapstructure:"paragraph_element"`
	// UndoLevels limits the undo history. 0 means unlimited.
	UndoLevels int `mapstructure:"undo_levels"`
}

// DefaultSettings returns the settings an Editor uses if none are given.
func DefaultSettings() Settings {
	return Settings{
		StyleWithCSS:      false,
		SmartInsertDelete: false,
		KillRingCapacity:  10,
		MinimumFontSize:   1,
		DefaultFontSize:   16,
		ParagraphElement:  "div",
		UndoLevels:        100,
	}
}

// SetDefaults registers the default settings with a viper instance.
func SetDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("style_with_css", d.StyleWithCSS)
	v.SetDefault("smart_insert_delete", d.SmartInsertDelete)
	v.SetDefault("kill_ring_capacity", d.KillRingCapacity)
	v.SetDefault("minimum_font_size", d.MinimumFontSize)
	v.SetDefault("default_font_size", d.DefaultFontSize)
	v.SetDefault("paragraph_element", d.ParagraphElement)
	v.SetDefault("undo_levels", d.UndoLevels)
}

// LoadSettings reads settings from a configuration file (YAML, TOML or
// JSON, by extension). Environment variables prefixed with RICHEDIT_
// override file values, e.g. RICHEDIT_STYLE_WITH_CSS=true. An empty path
// reads the environment only.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("RICHEDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return DefaultSettings(), fmt.Errorf("editing: cannot read settings %q: %w", path, err)
		}
	}
	return SettingsFromViper(v)
}

// SettingsFromViper extracts settings from a viper instance which has been
// set up by the caller, e.g. with command line flags bound to it.
func SettingsFromViper(v *viper.Viper) (Settings, error) {
	s := DefaultSettings()
	if err := v.Unmarshal(&s); err != nil {
		return DefaultSettings(), fmt.Errorf("editing: invalid settings: %w", err)
	}
	return s, s.Validate()
}

// Validate checks settings for consistency.
func (s Settings) Validate() error {
	var errs []error
	if s.KillRingCapacity < 1 {
		errs = append(errs, fmt.Errorf("kill ring capacity must be positive, is %d", s.KillRingCapacity))
	}
	if s.MinimumFontSize <= 0 {
		errs = append(errs, fmt.Errorf("minimum font size must be positive, is %g", s.MinimumFontSize))
	}
	if s.DefaultFontSize < s.MinimumFontSize {
		errs = append(errs, fmt.Errorf("default font size %g is below minimum %g", s.DefaultFontSize, s.MinimumFontSize))
	}
	switch s.ParagraphElement {
	case "div", "p":
	default:
		errs = append(errs, fmt.Errorf("paragraph element must be div or p, is %q", s.ParagraphElement))
	}
	if s.UndoLevels < 0 {
		errs = append(errs, fmt.Errorf("undo levels must not be negative, is %d", s.UndoLevels))
	}
	if len(errs) > 0 {
		return fmt.Errorf("editing: invalid settings: %w", errors.Join(errs...))
	}
	return nil
}
