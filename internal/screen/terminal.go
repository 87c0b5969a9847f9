package screen

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal control sequences. Mouse reporting uses button tracking with
// SGR (1006) encoding so coordinates are not limited to 223 cells.
const (
	altScreenEnter = "\x1b[?1049h"
	altScreenExit  = "\x1b[?1049l"
	cursorHide     = "\x1b[?25l"
	cursorShow     = "\x1b[?25h"
	mouseEnable    = "\x1b[?1000h\x1b[?1006h"
	mouseDisable   = "\x1b[?1006l\x1b[?1000l"
	cursorHome     = "\x1b[H"
	clearScreen    = "\x1b[2J"
)

// Attach takes over the terminal: raw mode, alternate screen, hidden
// cursor, mouse reporting, non-blocking input. The returned Screen is
// sized to the terminal; Close undoes all of it exactly once and must
// run before process exit however the session ends.
func Attach(in, out *os.File) (*Screen, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("input is not a terminal")
	}

	w, h, err := term.GetSize(fd)
	if err != nil {
		return nil, fmt.Errorf("querying terminal size: %w", err)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, oldState)
		return nil, fmt.Errorf("setting non-blocking input: %w", err)
	}

	if _, err := out.WriteString(altScreenEnter + cursorHide + mouseEnable + clearScreen + cursorHome); err != nil {
		_ = unix.SetNonblock(fd, false)
		_ = term.Restore(fd, oldState)
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}

	s := New(out, w, h)
	s.in = in
	s.restore = func() error {
		_, werr := out.WriteString(mouseDisable + cursorShow + altScreenExit)
		nberr := unix.SetNonblock(fd, false)
		rerr := term.Restore(fd, oldState)
		if werr != nil {
			return werr
		}
		if nberr != nil {
			return nberr
		}
		return rerr
	}
	return s, nil
}

func termSize(fd int) (w, h int, err error) {
	return term.GetSize(fd)
}
