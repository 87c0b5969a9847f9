// Package screen implements the terminal rendering engine: nested
// rectangular regions composited onto a cell grid, input decoding, and
// terminal lifecycle (raw mode, alternate screen, mouse reporting).
//
// The package deliberately knows nothing about tasks or layout; regions
// carry one opaque data value so higher layers can recover their owner
// during hit-testing.
package screen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Sentinel errors surfaced at the engine boundary.
var (
	ErrRegionCreate = errors.New("region creation failed")
	ErrDraw         = errors.New("draw rejected")
	ErrInput        = errors.New("input decode failed")
)

// Screen owns the cell grid and the root of the region tree. Create a
// headless screen with New (tests, print command) or a terminal-backed
// one with Attach.
type Screen struct {
	w, h int
	out  io.Writer
	root *Region
	live int // regions currently alive, excluding the implicit root

	in      *os.File // input device; nil for headless screens
	dec     decoder
	restore func() error // terminal teardown; nil for headless screens
	closed  bool
}

// New creates a headless screen of the given size writing frames to out.
func New(out io.Writer, w, h int) *Screen {
	s := &Screen{w: w, h: h, out: out}
	s.root = &Region{scr: s, w: w, h: h, cells: make([]cell, w*h)}
	return s
}

// Root returns the implicit full-screen root region. It cannot be
// destroyed; nest all drawing under it.
func (s *Screen) Root() *Region {
	return s.root
}

// Size returns the screen dimensions in cells.
func (s *Screen) Size() (w, h int) {
	return s.w, s.h
}

// Live returns the number of regions currently alive, excluding the
// root. Every successful create must be balanced by exactly one destroy.
func (s *Screen) Live() int {
	return s.live
}

// Resize changes the grid dimensions. Existing regions keep their
// offsets; the caller is expected to rebuild the layout afterwards.
func (s *Screen) Resize(w, h int) {
	s.w = w
	s.h = h
	s.root.w = w
	s.root.h = h
	s.root.cells = make([]cell, w*h)
}

// RefreshSize re-reads the terminal size when an input device is
// attached. Headless screens keep their configured size.
func (s *Screen) RefreshSize() {
	if s.in == nil {
		return
	}
	if w, h, err := termSize(int(s.in.Fd())); err == nil {
		s.Resize(w, h)
	}
}

// Flush composites the region tree onto the grid and writes the frame.
func (s *Screen) Flush() error {
	grid := s.composite()
	var b strings.Builder
	b.WriteString(cursorHome)
	for row := 0; row < s.h; row++ {
		if row > 0 {
			b.WriteString("\r\n")
		}
		s.renderRow(&b, grid[row])
	}
	if _, err := io.WriteString(s.out, b.String()); err != nil {
		return fmt.Errorf("%w: %v", ErrDraw, err)
	}
	return nil
}

// Frame returns the current frame as plain text with trailing blank
// space trimmed. Styles are not applied; used by headless rendering and
// tests.
func (s *Screen) Frame() string {
	grid := s.composite()
	lines := make([]string, s.h)
	for row := 0; row < s.h; row++ {
		var b strings.Builder
		for col := 0; col < s.w; col++ {
			c := grid[row][col]
			if c.set {
				b.WriteRune(c.r)
			} else {
				b.WriteByte(' ')
			}
		}
		lines[row] = strings.TrimRight(b.String(), " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// composite paints the region tree into a fresh grid, parents before
// children so nested regions draw over their ancestors.
func (s *Screen) composite() [][]cell {
	grid := make([][]cell, s.h)
	for i := range grid {
		grid[i] = make([]cell, s.w)
	}
	s.paint(s.root, grid)
	return grid
}

func (s *Screen) paint(r *Region, grid [][]cell) {
	ax, ay := r.Abs()
	for row := 0; row < r.h; row++ {
		y := ay + row
		if y < 0 || y >= s.h {
			continue
		}
		for col := 0; col < r.w; col++ {
			x := ax + col
			if x < 0 || x >= s.w {
				continue
			}
			c := r.cells[row*r.w+col]
			if c.set {
				grid[y][x] = c
			}
		}
	}
	for _, child := range r.children {
		s.paint(child, grid)
	}
}

// renderRow writes one grid row, coalescing runs of equal style so each
// run is rendered once.
func (s *Screen) renderRow(b *strings.Builder, row []cell) {
	var run strings.Builder
	var runStyle Style
	flushRun := func() {
		if run.Len() == 0 {
			return
		}
		b.WriteString(runStyle.render(run.String()))
		run.Reset()
	}
	for _, c := range row {
		r, st := ' ', Style{}
		if c.set {
			r, st = c.r, c.style
		}
		if st != runStyle {
			flushRun()
			runStyle = st
		}
		run.WriteRune(r)
	}
	flushRun()
}

// SetInput attaches an input device. Attach does this for the terminal;
// tests use an os.Pipe end.
func (s *Screen) SetInput(in *os.File) {
	s.in = in
}

// InputFd returns the pollable file descriptor of the input device, or
// -1 when no device is attached.
func (s *Screen) InputFd() int {
	if s.in == nil {
		return -1
	}
	return int(s.in.Fd())
}

// ReadInput moves all currently available bytes from the input device
// into the decoder. Call after the descriptor polls readable; a would-
// block read is not an error. EOF and real read errors are fatal.
func (s *Screen) ReadInput() error {
	if s.in == nil {
		return fmt.Errorf("%w: no input device", ErrInput)
	}
	var buf [256]byte
	for {
		n, err := s.in.Read(buf[:])
		if n > 0 {
			s.dec.feed(buf[:n])
		}
		if err != nil {
			if errors.Is(err, unix.EAGAIN) {
				return nil
			}
			return fmt.Errorf("%w: %v", ErrInput, err)
		}
		if n < len(buf) {
			return nil
		}
	}
}

// NextEvent decodes the next buffered input event. ok is false when the
// buffer holds no complete event.
func (s *Screen) NextEvent() (ev Event, ok bool, err error) {
	return s.dec.next()
}

// Close tears down the terminal state exactly once. It is safe to call
// on an already-closed or headless screen.
func (s *Screen) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.restore == nil {
		return nil
	}
	return s.restore()
}

// Closed reports whether Close has run.
func (s *Screen) Closed() bool {
	return s.closed
}
