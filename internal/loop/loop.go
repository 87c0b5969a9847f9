package loop

import (
	"errors"
	"fmt"
	"log/slog"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/treeline-dev/treeline/internal/screen"
)

// Handler consumes decoded input events.
type Handler interface {
	HandleEvent(screen.Event) (quit bool, err error)
}

// TerminatedError reports the asynchronous signal that ended the
// session. The screen has already been torn down when it is returned.
type TerminatedError struct {
	Signal syscall.Signal
}

func (e *TerminatedError) Error() string {
	return fmt.Sprintf("terminated by signal %d (%s)", int(e.Signal), e.Signal)
}

// Loop is the single suspension point of the program: it blocks in
// poll(2) over the signal pipe and the input device until one becomes
// readable. Signal records are always drained and fully processed
// before any input event from the same wake-up, because a termination
// record tears the screen down and rendering afterwards would corrupt
// the terminal.
type Loop struct {
	scr      *screen.Screen
	handler  Handler
	notifier *Notifier

	// Optional extra readable source (config reload pipe). reloadFd is
	// -1 when unused.
	reloadFd int
	onReload func() error
}

// New creates a loop over the screen's input device and the notifier's
// signal pipe.
func New(scr *screen.Screen, handler Handler, notifier *Notifier) *Loop {
	return &Loop{scr: scr, handler: handler, notifier: notifier, reloadFd: -1}
}

// SetReload adds a pollable descriptor whose readability triggers fn
// (after draining). Used for live theme reload.
func (l *Loop) SetReload(fd int, fn func() error) {
	l.reloadFd = fd
	l.onReload = fn
}

// Run blocks until the session ends. Whatever the exit path, the screen
// is torn down before Run returns; Close is idempotent so the
// termination branch closing it early is safe.
func (l *Loop) Run() error {
	defer l.scr.Close()

	for {
		fds := []unix.PollFd{
			{Fd: int32(l.notifier.ReadFd()), Events: unix.POLLIN},
			{Fd: int32(l.scr.InputFd()), Events: unix.POLLIN},
		}
		if l.reloadFd >= 0 {
			fds = append(fds, unix.PollFd{Fd: int32(l.reloadFd), Events: unix.POLLIN})
		}

		if _, err := unix.Poll(fds, -1); err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("poll: %w", err)
		}

		// Signal records first, unconditionally.
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0 {
			done, err := l.processSignals()
			if done || err != nil {
				return err
			}
		}

		if l.reloadFd >= 0 && fds[2].Revents&unix.POLLIN != 0 {
			if err := l.processReload(); err != nil {
				return err
			}
		}

		if fds[1].Revents&(unix.POLLIN|unix.POLLHUP) != 0 {
			quit, err := l.processInput()
			if quit || err != nil {
				return err
			}
		}
	}
}

// processSignals drains the pipe and acts on every record. done is true
// when a termination signal was handled; the screen is closed here,
// before the caller can touch any pending input.
func (l *Loop) processSignals() (done bool, err error) {
	sigs, err := l.notifier.Drain()
	if err != nil {
		_ = l.scr.Close()
		return true, err
	}
	for _, sig := range sigs {
		switch sig {
		case unix.SIGWINCH:
			if _, err := l.handler.HandleEvent(screen.Event{Type: screen.EventResize}); err != nil {
				return true, err
			}
		default:
			slog.Info("terminating on signal", "signal", sig.String())
			if cerr := l.scr.Close(); cerr != nil {
				slog.Warn("terminal restore failed", "err", cerr)
			}
			return true, &TerminatedError{Signal: sig}
		}
	}
	return false, nil
}

// processInput drains every decoded event currently buffered, so a
// burst of input costs one wake-up instead of one per record.
func (l *Loop) processInput() (quit bool, err error) {
	if err := l.scr.ReadInput(); err != nil {
		return true, err
	}
	for {
		ev, ok, err := l.scr.NextEvent()
		if err != nil {
			return true, err
		}
		if !ok {
			return false, nil
		}
		quit, err := l.handler.HandleEvent(ev)
		if quit || err != nil {
			return quit, err
		}
	}
}

func (l *Loop) processReload() error {
	var buf [64]byte
	for {
		n, err := unix.Read(l.reloadFd, buf[:])
		if n < len(buf) || err != nil {
			break
		}
	}
	if l.onReload == nil {
		return nil
	}
	return l.onReload()
}
