// Package cmd implements the treeline CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treeline-dev/treeline/internal/clierr"
	"github.com/treeline-dev/treeline/internal/config"
	"github.com/treeline-dev/treeline/internal/layout"
	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
	"github.com/treeline-dev/treeline/internal/view"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagConfig  string
	flagLog     string
	flagNoColor bool
	flagDemo    bool
)

var rootCmd = &cobra.Command{
	Use:   "treeline",
	Short: "Interactive terminal tree view for task lists",
	Long: `treeline renders a hierarchical task list as a navigable tree.
Move with the arrow keys or the mouse, toggle completion with space,
insert children with tab and siblings with enter.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			screen.DisableColor()
		} else {
			screen.DetectProfile()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "path to log file (default $TREELINE_LOG, else stderr)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVar(&flagDemo, "demo", false, "start with a sample task tree")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError — exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// loadConfig reads the config named by --config, falling back to the
// default location. A missing file yields defaults.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, clierr.Newf(clierr.InvalidConfig, "resolving config path: %v", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, clierr.Newf(clierr.InvalidConfig, "%v", err)
	}
	return cfg, nil
}

// stylesFor maps the config theme onto screen styles.
func stylesFor(cfg *config.Config) view.Styles {
	return view.Styles{
		Label:     screen.Style{FG: cfg.Theme.Foreground, BG: cfg.Theme.Background},
		Selected:  screen.Style{FG: cfg.Theme.SelectedForeground, BG: cfg.Theme.SelectedBackground, Bold: true},
		Connector: screen.Style{FG: cfg.Theme.Connector},
	}
}

// glyphsFor resolves the configured glyph set.
func glyphsFor(cfg *config.Config) layout.Glyphs {
	if cfg.GlyphSet() == config.GlyphsASCII {
		return layout.ASCIIGlyphs
	}
	return layout.UnicodeGlyphs
}

// buildTree returns the initial task tree: a bare root, or the sample
// tree with --demo.
func buildTree(cfg *config.Config) *task.Task {
	root := task.New(cfg.RootLabel)
	if flagDemo {
		seedDemo(root)
	}
	return root
}

// seedDemo fills the tree with a small sample hierarchy.
func seedDemo(root *task.Task) {
	release := task.New("prepare release")
	release.AddChild(task.New("update changelog"))
	release.AddChild(task.New("tag version"))
	docs := task.New("write docs")
	install := task.New("installation guide")
	install.Completed = true
	docs.AddChild(install)
	docs.AddChild(task.New("keybinding reference"))
	root.AddChild(release)
	root.AddChild(docs)
	root.AddChild(task.New("announce"))
}
