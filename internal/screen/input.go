package screen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EventType discriminates decoded input events.
type EventType int

// Event types.
const (
	EventKey EventType = iota
	EventMousePress
	EventMouseRelease
	EventMouseMotion
	EventResize
)

// Key identifies a logical key for EventKey events.
type Key int

// Logical keys. KeyRune carries the pressed rune in Event.Rune.
const (
	KeyRune Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyTab
	KeyEscape
	KeyCtrlC
)

// MouseLeft is the button code of the primary mouse button.
const MouseLeft = 0

// Event is one decoded input event. Mouse coordinates are absolute
// screen cells, zero-based.
type Event struct {
	Type   EventType
	Key    Key
	Rune   rune
	X, Y   int
	Button int
}

// decoder turns raw terminal bytes into events. It keeps incomplete
// escape sequences buffered across feeds.
type decoder struct {
	buf []byte
}

func (d *decoder) feed(b []byte) {
	d.buf = append(d.buf, b...)
}

// next decodes the next complete event. ok is false when the buffer is
// empty or holds only a partial sequence. Malformed mouse reports are
// surfaced as ErrInput; unrecognized but well-formed sequences are
// skipped.
func (d *decoder) next() (Event, bool, error) {
	for len(d.buf) > 0 {
		b0 := d.buf[0]
		switch {
		case b0 == 0x1b:
			ev, ok, complete, err := d.decodeEscape()
			if err != nil {
				return Event{}, false, err
			}
			if !complete {
				return Event{}, false, nil // wait for the rest of the sequence
			}
			if ok {
				return ev, true, nil
			}
		case b0 == '\r' || b0 == '\n':
			d.buf = d.buf[1:]
			return Event{Type: EventKey, Key: KeyEnter}, true, nil
		case b0 == '\t':
			d.buf = d.buf[1:]
			return Event{Type: EventKey, Key: KeyTab}, true, nil
		case b0 == 0x03:
			d.buf = d.buf[1:]
			return Event{Type: EventKey, Key: KeyCtrlC}, true, nil
		case b0 < 0x20 || b0 == 0x7f:
			d.buf = d.buf[1:] // unmapped control byte
		default:
			if !utf8.FullRune(d.buf) {
				return Event{}, false, nil
			}
			r, n := utf8.DecodeRune(d.buf)
			d.buf = d.buf[n:]
			if r == utf8.RuneError && n == 1 {
				continue // skip stray byte
			}
			return Event{Type: EventKey, Key: KeyRune, Rune: r}, true, nil
		}
	}
	return Event{}, false, nil
}

// decodeEscape handles a buffer starting with ESC. complete is false
// when more bytes are needed; ok is false when the sequence was
// consumed without producing an event.
func (d *decoder) decodeEscape() (ev Event, ok, complete bool, err error) {
	if len(d.buf) == 1 {
		// Input is drained after every poll wake-up, so a lone trailing
		// ESC is a real Escape press, not a sequence prefix.
		d.buf = d.buf[1:]
		return Event{Type: EventKey, Key: KeyEscape}, true, true, nil
	}
	if d.buf[1] != '[' {
		// ESC+byte (alt-modified key): treat as Escape, keep the byte.
		d.buf = d.buf[1:]
		return Event{Type: EventKey, Key: KeyEscape}, true, true, nil
	}

	// CSI: parameters up to a final byte in 0x40..0x7e.
	fin := -1
	for i := 2; i < len(d.buf); i++ {
		if d.buf[i] >= 0x40 && d.buf[i] <= 0x7e {
			fin = i
			break
		}
	}
	if fin < 0 {
		return Event{}, false, false, nil
	}
	params := string(d.buf[2:fin])
	final := d.buf[fin]
	d.buf = d.buf[fin+1:]

	switch final {
	case 'A':
		return Event{Type: EventKey, Key: KeyUp}, true, true, nil
	case 'B':
		return Event{Type: EventKey, Key: KeyDown}, true, true, nil
	case 'C':
		return Event{Type: EventKey, Key: KeyRight}, true, true, nil
	case 'D':
		return Event{Type: EventKey, Key: KeyLeft}, true, true, nil
	case 'M', 'm':
		if strings.HasPrefix(params, "<") {
			ev, err := decodeSGRMouse(params[1:], final == 'M')
			if err != nil {
				return Event{}, false, true, err
			}
			return ev, true, true, nil
		}
	}
	return Event{}, false, true, nil // well-formed but unmapped sequence
}

// decodeSGRMouse parses the "b;x;y" payload of an SGR (1006) mouse
// report. Coordinates arrive one-based.
func decodeSGRMouse(params string, press bool) (Event, error) {
	parts := strings.Split(params, ";")
	if len(parts) != 3 {
		return Event{}, fmt.Errorf("%w: mouse report %q", ErrInput, params)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Event{}, fmt.Errorf("%w: mouse report %q: %v", ErrInput, params, err)
		}
		nums[i] = n
	}
	b, x, y := nums[0], nums[1]-1, nums[2]-1

	typ := EventMousePress
	switch {
	case b&32 != 0:
		typ = EventMouseMotion
	case !press:
		typ = EventMouseRelease
	}
	return Event{Type: typ, Button: b & 3, X: x, Y: y}, nil
}
