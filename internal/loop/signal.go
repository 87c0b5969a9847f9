// Package loop multiplexes decoded terminal input with asynchronous OS
// signals. Signal deliveries become one-byte records on a pipe (the
// self-pipe pattern), so the main loop waits on ordinary file
// descriptors and never touches the rendering engine from anything but
// its own execution context.
package loop

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// Notifier forwards deliveries from the Go signal runtime into pipe
// records. Create one per process, Start it exactly once, and Stop it
// when the loop exits.
//
// Fault signals (SIGSEGV and friends) are deliberately not registered:
// the Go runtime owns synchronous faults and its default crash path is
// the chained handler. Only asynchronous signals flow through here.
type Notifier struct {
	r, w *os.File
	ch   chan os.Signal
}

// NewNotifier creates the self-pipe. Both ends are non-blocking: the
// forwarder must never block in a full pipe, and the loop drains with
// reads that stop at would-block.
func NewNotifier() (*Notifier, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating signal pipe: %w", err)
	}
	for _, f := range []*os.File{r, w} {
		if err := unix.SetNonblock(int(f.Fd()), true); err != nil {
			_ = r.Close()
			_ = w.Close()
			return nil, fmt.Errorf("setting signal pipe non-blocking: %w", err)
		}
	}
	return &Notifier{r: r, w: w}, nil
}

// Start registers the signals and begins forwarding them onto the pipe.
func (n *Notifier) Start(sigs ...os.Signal) {
	n.ch = make(chan os.Signal, 16)
	signal.Notify(n.ch, sigs...)
	go func() {
		for sig := range n.ch {
			if s, ok := sig.(syscall.Signal); ok {
				n.Notify(s)
			}
		}
	}()
}

// Notify writes one record for sig onto the pipe. Exposed so tests can
// inject deliveries without raising real signals. A full pipe drops the
// record; the loop is already guaranteed to wake and drain.
func (n *Notifier) Notify(sig syscall.Signal) {
	rec := [1]byte{byte(sig)}
	_, _ = n.w.Write(rec[:])
}

// Drain reads every pending record. A would-block read ends the drain
// cleanly; any other read failure is fatal.
func (n *Notifier) Drain() ([]syscall.Signal, error) {
	var out []syscall.Signal
	var buf [16]byte
	for {
		c, err := n.r.Read(buf[:])
		for i := 0; i < c; i++ {
			out = append(out, syscall.Signal(buf[i]))
		}
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				return out, nil
			}
			return out, fmt.Errorf("reading signal pipe: %w", err)
		}
		if c < len(buf) {
			return out, nil
		}
	}
}

// ReadFd returns the pollable read end of the pipe.
func (n *Notifier) ReadFd() int {
	return int(n.r.Fd())
}

// Stop unregisters the signals and closes the pipe.
func (n *Notifier) Stop() {
	if n.ch != nil {
		signal.Stop(n.ch)
		close(n.ch)
	}
	_ = n.r.Close()
	_ = n.w.Close()
}
