// Package layout turns a task tree into a positioned set of screen
// regions with tree-branch connectors, and builds the pre-order
// navigation chain as a side effect of the same pass.
package layout

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
)

// Glyphs is the connector glyph set used for branch drawing.
type Glyphs struct {
	Tee      string // non-last sibling
	Corner   string // last sibling
	Vertical rune   // gap filler between siblings with descendants
}

// Glyph sets. ASCII exists for terminals and fonts that render the
// box-drawing characters poorly.
var (
	UnicodeGlyphs = Glyphs{Tee: "├─", Corner: "└─", Vertical: '│'}
	ASCIIGlyphs   = Glyphs{Tee: "|-", Corner: "`-", Vertical: '|'}
)

// Completion markers, part of every cached label. Both are the same
// width so toggling completion never changes region geometry.
const (
	markerDone = "[x] "
	markerOpen = "[ ] "
)

// Cursor carries the draw offsets for the node being laid out and the
// node's position among its siblings. The sibling position is used only
// to pick the connector glyph; Count zero marks the root, which gets no
// glyph at all.
type Cursor struct {
	X, Y  int
	Index int
	Count int
}

// Result reports what one Layout call produced.
type Result struct {
	// Children is the node's immediate child count, not the descendant
	// count. Callers use it to advance the vertical offset between
	// siblings; the spacing arithmetic downstream is written against
	// exactly this convention, so do not "fix" it to a subtree size.
	Children int
}

// Engine lays out task trees. One engine can run many passes; each
// LayoutTree call starts a fresh navigation chain.
type Engine struct {
	glyphs    Glyphs
	style     screen.Style // label style
	connStyle screen.Style // vertical connector style
	prev      *task.Task   // last node visited in the current pass
}

// New returns an engine drawing with the given glyph set and styles.
func New(glyphs Glyphs, label, connector screen.Style) *Engine {
	return &Engine{glyphs: glyphs, style: label, connStyle: connector}
}

// SetStyles replaces the label and connector styles for subsequent
// passes (theme reload).
func (e *Engine) SetStyles(label, connector screen.Style) {
	e.style = label
	e.connStyle = connector
}

// SetGlyphs replaces the glyph set for subsequent passes.
func (e *Engine) SetGlyphs(g Glyphs) {
	e.glyphs = g
}

// LayoutTree lays out a whole tree under parent, starting the pre-order
// navigation chain at root. The tree must have been released (or never
// laid out) before the call.
func (e *Engine) LayoutTree(parent *screen.Region, root *task.Task) (Result, error) {
	e.prev = nil
	root.Parent = nil
	return e.Layout(parent, root, Cursor{})
}

// Layout assigns t a region nested under parent at the cursor offset,
// draws its label, links it onto the navigation chain, and recurses
// into its children. Errors from the engine propagate unchanged in
// meaning; no partial-state repair is attempted.
func (e *Engine) Layout(parent *screen.Region, t *task.Task, cur Cursor) (Result, error) {
	label := e.label(t, cur)
	t.DisplayText = label

	reg, err := parent.NewChild(cur.X, cur.Y, ansi.StringWidth(label), 1)
	if err != nil {
		return Result{}, fmt.Errorf("laying out %q: %w", t.Text, err)
	}
	reg.SetData(t)
	t.Region = reg

	if err := reg.WriteText(0, 0, e.style, label); err != nil {
		return Result{}, fmt.Errorf("drawing %q: %w", t.Text, err)
	}

	// Link into the pre-order chain. The root of a pass is visited
	// before any of its descendants.
	t.PrevInOrder = e.prev
	t.NextInOrder = nil
	if e.prev != nil {
		e.prev.NextInOrder = t
	}
	e.prev = t

	// Children indent one column and one row from this node's origin.
	n := len(t.Children)
	y := 1
	for i, c := range t.Children {
		c.Parent = &task.ParentContext{Task: t, Index: i, Count: n}
		res, err := e.Layout(reg, c, Cursor{X: 1, Y: y, Index: i, Count: n})
		if err != nil {
			return Result{}, err
		}
		// A child with children of its own leaves a gap before the next
		// sibling; bridge it with a vertical connector in a dedicated
		// region so connector glyphs never share cells with label text.
		if res.Children > 0 && i < n-1 {
			if err := e.connector(reg, 1, y+1, res.Children); err != nil {
				return Result{}, err
			}
		}
		y += res.Children + 1
	}

	return Result{Children: n}, nil
}

// label composes the cached display text: connector glyph (none for the
// root), completion marker, task text.
func (e *Engine) label(t *task.Task, cur Cursor) string {
	glyph := ""
	if cur.Count > 0 {
		if cur.Index == cur.Count-1 {
			glyph = e.glyphs.Corner
		} else {
			glyph = e.glyphs.Tee
		}
	}
	marker := markerOpen
	if t.Completed {
		marker = markerDone
	}
	return glyph + marker + t.Text
}

// RefreshLabel recomposes t's label in place after a completion toggle
// and rewrites it into the existing region with the given style. Both
// markers have the same width, so the region geometry is unchanged.
func (e *Engine) RefreshLabel(t *task.Task, st screen.Style) error {
	cur := Cursor{}
	if t.Parent != nil {
		cur.Index = t.Parent.Index
		cur.Count = t.Parent.Count
	}
	t.DisplayText = e.label(t, cur)
	if t.Region == nil {
		return fmt.Errorf("refreshing %q: %w: no region", t.Text, screen.ErrDraw)
	}
	return t.Region.WriteText(0, 0, st, t.DisplayText)
}

// connector draws a vertical branch line spanning h rows in a dedicated
// one-column region under parent.
func (e *Engine) connector(parent *screen.Region, x, y, h int) error {
	reg, err := parent.NewChild(x, y, 1, h)
	if err != nil {
		return fmt.Errorf("connector: %w", err)
	}
	return reg.Fill(e.connStyle, e.glyphs.Vertical)
}
