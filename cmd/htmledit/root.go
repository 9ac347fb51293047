package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/richedit/editing"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	traceLevel string
)

var rootCmd = &cobra.Command{
	Use:   "htmledit",
	Short: "Scripted rich text editing of HTML documents",
	Long: `htmledit loads an HTML document, applies a script of editing operations
to its editable content and prints the resulting markup.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"settings file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "error",
		"trace level: error, info or debug")
	rootCmd.PersistentFlags().Bool("style-with-css", false,
		"produce <span style> instead of presentational elements")
	rootCmd.PersistentFlags().Bool("smart-delete", false,
		"delete word-separating spaces with words")
	rootCmd.PersistentFlags().String("paragraph-element", "div",
		"element created for new paragraphs (div or p)")

	// Bind flags to viper
	_ = viper.BindPFlag("style_with_css", rootCmd.PersistentFlags().Lookup("style-with-css"))
	_ = viper.BindPFlag("smart_insert_delete", rootCmd.PersistentFlags().Lookup("smart-delete"))
	_ = viper.BindPFlag("paragraph_element", rootCmd.PersistentFlags().Lookup("paragraph-element"))
}

func initConfig(cmd *cobra.Command, args []string) error {
	level, err := parseTraceLevel(traceLevel)
	if err != nil {
		return err
	}
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	tracer().SetOutput(cmd.ErrOrStderr())
	tracer().SetTraceLevel(level) // all packages share a single tracer
	editing.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("RICHEDIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading settings %s: %w", cfgFile, err)
		}
	}
	return nil
}

// settings returns the editor settings from file, environment and flags.
func settings() (editing.Settings, error) {
	return editing.SettingsFromViper(viper.GetViper())
}

func parseTraceLevel(s string) (tracing.TraceLevel, error) {
	switch strings.ToLower(s) {
	case "error":
		return tracing.LevelError, nil
	case "info":
		return tracing.LevelInfo, nil
	case "debug":
		return tracing.LevelDebug, nil
	}
	return tracing.LevelError, fmt.Errorf("unknown trace level %q", s)
}

func tracer() tracing.Trace {
	return tracing.Select("richedit.htmledit")
}
