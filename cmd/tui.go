package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/treeline-dev/treeline/internal/clierr"
	"github.com/treeline-dev/treeline/internal/layout"
	"github.com/treeline-dev/treeline/internal/logging"
	"github.com/treeline-dev/treeline/internal/loop"
	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/view"
	"github.com/treeline-dev/treeline/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	closeLog, err := logging.Init(flagLog)
	if err != nil {
		return clierr.Newf(clierr.InternalError, "%v", err)
	}
	defer func() { _ = closeLog() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scr, err := screen.Attach(os.Stdin, os.Stdout)
	if err != nil {
		return clierr.Newf(clierr.NotATerminal, "%v", err)
	}
	defer func() { _ = scr.Close() }()

	styles := stylesFor(cfg)
	engine := layout.New(glyphsFor(cfg), styles.Label, styles.Connector)
	ctrl := view.NewController(scr, engine, buildTree(cfg), styles)
	if err := ctrl.Rebuild(); err != nil {
		_ = scr.Close()
		return clierr.Newf(clierr.RenderFailed, "%v", err)
	}

	notifier, err := loop.NewNotifier()
	if err != nil {
		_ = scr.Close()
		return clierr.Newf(clierr.InternalError, "%v", err)
	}
	defer notifier.Stop()
	notifier.Start(syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP, syscall.SIGWINCH)

	l := loop.New(scr, ctrl, notifier)
	stopWatch := startThemeWatcher(cfg.Path(), l, ctrl)
	defer stopWatch()

	return mapLoopError(l.Run())
}

// startThemeWatcher wires config-file changes into the event loop via a
// reload pipe, so theme edits apply without a restart. Watch failures
// are non-fatal: the TUI works without live reload.
func startThemeWatcher(path string, l *loop.Loop, ctrl *view.Controller) (stop func()) {
	noop := func() {}

	r, w, err := os.Pipe()
	if err != nil {
		return noop
	}
	if err := unix.SetNonblock(int(r.Fd()), true); err != nil {
		_ = r.Close()
		_ = w.Close()
		return noop
	}

	fw, err := watcher.New(path, func() {
		_, _ = w.Write([]byte{1})
	})
	if err != nil {
		slog.Debug("theme watcher unavailable", "err", err)
		_ = r.Close()
		_ = w.Close()
		return noop
	}

	ctx, cancel := context.WithCancel(context.Background())
	go fw.Run(ctx, nil)

	l.SetReload(int(r.Fd()), func() error {
		cfg, err := loadConfig()
		if err != nil {
			slog.Warn("ignoring config reload", "err", err)
			return nil
		}
		ctrl.ApplyTheme(stylesFor(cfg), glyphsFor(cfg))
		return ctrl.Rebuild()
	})

	return func() {
		cancel()
		_ = fw.Close()
		_ = r.Close()
		_ = w.Close()
	}
}

// mapLoopError converts loop failures into CLI errors. Signal-driven
// termination exits 128+signo with no extra output, the shell
// convention for death-by-signal.
func mapLoopError(err error) error {
	if err == nil {
		return nil
	}
	var term *loop.TerminatedError
	if errors.As(err, &term) {
		return &clierr.SilentError{Code: 128 + int(term.Signal)}
	}
	switch {
	case errors.Is(err, screen.ErrInput):
		return clierr.Newf(clierr.InputFailed, "%v", err)
	case errors.Is(err, screen.ErrDraw), errors.Is(err, screen.ErrRegionCreate):
		return clierr.Newf(clierr.RenderFailed, "%v", err)
	}
	return err
}
