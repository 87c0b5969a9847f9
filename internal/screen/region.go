package screen

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
)

// Region is a rectangular drawing surface nested under a parent region.
// Offsets are relative to the parent's origin and a region is not
// clipped to its parent, but its origin must land on the physical
// screen. Destroying a region destroys everything nested under it
// (implicit recursive destruction); destroying it twice is a no-op.
type Region struct {
	scr      *Screen
	parent   *Region
	children []*Region
	x, y     int // offset relative to parent origin
	w, h     int
	cells    []cell
	data     any
	dead     bool
}

// cell is one grid position. Wide runes occupy their origin cell and
// leave the following cell unset.
type cell struct {
	r     rune
	style Style
	set   bool
}

// NewChild creates a region nested under r at the given relative offset
// and size. Width is clamped at the right screen edge; an origin off the
// physical screen or a non-positive size fails with ErrRegionCreate.
func (r *Region) NewChild(x, y, w, h int) (*Region, error) {
	if r.dead {
		return nil, fmt.Errorf("%w: parent already destroyed", ErrRegionCreate)
	}
	ax, ay := r.Abs()
	ax += x
	ay += y
	sw, sh := r.scr.Size()
	if w < 1 || h < 1 || ax < 0 || ay < 0 || ax >= sw || ay >= sh {
		return nil, fmt.Errorf("%w: %dx%d at (%d,%d) outside %dx%d screen",
			ErrRegionCreate, w, h, ax, ay, sw, sh)
	}
	if ax+w > sw {
		w = sw - ax
	}
	child := &Region{
		scr:    r.scr,
		parent: r,
		x:      x,
		y:      y,
		w:      w,
		h:      h,
		cells:  make([]cell, w*h),
	}
	r.children = append(r.children, child)
	r.scr.live++
	return child, nil
}

// Destroy releases the region and, recursively, everything nested under
// it. A nil or already-destroyed region is a no-op, not an error.
func (r *Region) Destroy() {
	if r == nil || r.dead || r.parent == nil {
		return // root and dead regions are not destroyable
	}
	for len(r.children) > 0 {
		r.children[len(r.children)-1].Destroy()
	}
	p := r.parent
	for i, c := range p.children {
		if c == r {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	r.dead = true
	r.scr.live--
}

// SetData attaches one opaque value to the region.
func (r *Region) SetData(v any) {
	r.data = v
}

// Data returns the value attached with SetData.
func (r *Region) Data() any {
	return r.data
}

// Children returns the nested regions in creation order.
func (r *Region) Children() []*Region {
	return r.children
}

// Abs returns the region's origin in absolute screen coordinates.
func (r *Region) Abs() (x, y int) {
	for p := r; p != nil; p = p.parent {
		x += p.x
		y += p.y
	}
	return x, y
}

// Bounds returns the absolute origin and the size of the region.
func (r *Region) Bounds() (x, y, w, h int) {
	x, y = r.Abs()
	return x, y, r.w, r.h
}

// Contains reports whether the absolute coordinate falls inside the
// region. Both edges are inclusive.
func (r *Region) Contains(x, y int) bool {
	ax, ay := r.Abs()
	return x >= ax && x <= ax+r.w-1 && y >= ay && y <= ay+r.h-1
}

// WriteText writes text at the given row and column inside the region
// with the given style. A write that does not fit fails with ErrDraw
// and leaves the region unchanged.
func (r *Region) WriteText(row, col int, st Style, text string) error {
	if r.dead {
		return fmt.Errorf("%w: region destroyed", ErrDraw)
	}
	width := ansi.StringWidth(text)
	if row < 0 || row >= r.h || col < 0 || col+width > r.w {
		return fmt.Errorf("%w: %q (%d cells) at (%d,%d) in %dx%d region",
			ErrDraw, text, width, col, row, r.w, r.h)
	}
	x := col
	for _, ch := range text {
		r.cells[row*r.w+x] = cell{r: ch, style: st, set: true}
		cw := ansi.StringWidth(string(ch))
		if cw < 1 {
			cw = 1
		}
		// Wide runes own the following cell too; leave it unset so the
		// compositor does not paint over the glyph's second column.
		for i := 1; i < cw && x+i < r.w; i++ {
			r.cells[row*r.w+x+i] = cell{}
		}
		x += cw
	}
	return nil
}

// Fill writes the same rune into every cell of the region.
func (r *Region) Fill(st Style, ch rune) error {
	if r.dead {
		return fmt.Errorf("%w: region destroyed", ErrDraw)
	}
	for i := range r.cells {
		r.cells[i] = cell{r: ch, style: st, set: true}
	}
	return nil
}
