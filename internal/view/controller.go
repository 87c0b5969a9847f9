package view

import (
	"log/slog"

	"github.com/treeline-dev/treeline/internal/layout"
	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
)

// Styles groups the screen styles the controller paints with.
type Styles struct {
	Label     screen.Style
	Selected  screen.Style
	Connector screen.Style
}

// Controller owns the visible tree: it runs layout passes, tracks the
// current selection, and maps input events to transitions. All methods
// run on the event-loop goroutine; nothing here is safe for concurrent
// use.
type Controller struct {
	scr     *screen.Screen
	engine  *layout.Engine
	root    *task.Task
	current *task.Task
	styles  Styles
}

// NewController creates a controller for root drawn on scr. Call
// Rebuild once to produce the first frame.
func NewController(scr *screen.Screen, engine *layout.Engine, root *task.Task, styles Styles) *Controller {
	return &Controller{scr: scr, engine: engine, root: root, styles: styles}
}

// Current returns the selected task, or nil.
func (c *Controller) Current() *task.Task {
	return c.current
}

// Root returns the tree root.
func (c *Controller) Root() *task.Task {
	return c.root
}

// ApplyTheme swaps the palette and glyph set (live theme reload) for
// subsequent rebuilds.
func (c *Controller) ApplyTheme(styles Styles, glyphs layout.Glyphs) {
	c.styles = styles
	c.engine.SetStyles(styles.Label, styles.Connector)
	c.engine.SetGlyphs(glyphs)
}

// Rebuild destroys the whole region tree and lays it out from scratch,
// then flushes. Required after any structural edit: offsets, connector
// placement and the navigation chain are derived globally.
func (c *Controller) Rebuild() error {
	c.root.ReleaseRegions()
	if _, err := c.engine.LayoutTree(c.scr.Root(), c.root); err != nil {
		return err
	}
	// Layout paints everything in the default style; restore the
	// selection highlight without a state transition.
	if c.current != nil && c.current.Region != nil {
		if err := c.current.Region.WriteText(0, 0, c.styles.Selected, c.current.DisplayText); err != nil {
			return err
		}
	}
	return c.scr.Flush()
}

// HandleEvent processes one input event. quit reports an orderly exit
// request; any error is fatal to the session.
func (c *Controller) HandleEvent(ev screen.Event) (quit bool, err error) {
	switch ev.Type {
	case screen.EventKey:
		return c.handleKey(ev)
	case screen.EventMousePress:
		if ev.Button == screen.MouseLeft {
			return false, c.click(ev.X, ev.Y)
		}
	case screen.EventResize:
		c.scr.RefreshSize()
		return false, c.Rebuild()
	}
	return false, nil
}

func (c *Controller) handleKey(ev screen.Event) (quit bool, err error) {
	switch ev.Key {
	case screen.KeyCtrlC:
		return true, nil
	case screen.KeyUp:
		return false, c.move(func(t *task.Task) *task.Task { return t.PrevInOrder })
	case screen.KeyDown:
		return false, c.move(func(t *task.Task) *task.Task { return t.NextInOrder })
	case screen.KeyEscape:
		return c.escape()
	case screen.KeyTab:
		return false, c.insertChild()
	case screen.KeyEnter:
		return false, c.insertSibling()
	case screen.KeyRune:
		switch ev.Rune {
		case 'q':
			return true, nil
		case ' ':
			return false, c.toggle()
		case 'k':
			return false, c.move(func(t *task.Task) *task.Task { return t.PrevInOrder })
		case 'j':
			return false, c.move(func(t *task.Task) *task.Task { return t.NextInOrder })
		}
	}
	return false, nil
}

// move walks the pre-order navigation chain one step. With no selection
// it selects the root as an entry point; at either end of the chain it
// is a no-op.
func (c *Controller) move(step func(*task.Task) *task.Task) error {
	if c.current == nil {
		if err := Select(c.root, c.styles.Selected); err != nil {
			return err
		}
		c.current = c.root
		return c.scr.Flush()
	}
	next := step(c.current)
	if next == nil {
		return nil
	}
	if err := Unselect(c.current, c.styles.Label); err != nil {
		return err
	}
	if err := Select(next, c.styles.Selected); err != nil {
		return err
	}
	c.current = next
	return c.scr.Flush()
}

// escape clears the selection; with nothing selected it requests exit.
func (c *Controller) escape() (quit bool, err error) {
	if c.current == nil {
		return true, nil
	}
	if err := Unselect(c.current, c.styles.Label); err != nil {
		return false, err
	}
	c.current = nil
	return false, c.scr.Flush()
}

// click moves the selection to the task under the pointer, if any.
func (c *Controller) click(x, y int) error {
	if c.current != nil {
		if err := Unselect(c.current, c.styles.Label); err != nil {
			return err
		}
		c.current = nil
	}
	hit := layout.FindHit(c.root.Region, x, y)
	if hit == nil {
		slog.Debug("click missed", "x", x, "y", y)
		return c.scr.Flush()
	}
	if err := Select(hit, c.styles.Selected); err != nil {
		return err
	}
	c.current = hit
	return c.scr.Flush()
}

// insertChild adds a new empty task as the last child of the selection
// and selects it after a full rebuild.
func (c *Controller) insertChild() error {
	if c.current == nil {
		return nil
	}
	n := c.current.InsertChild()
	return c.selectAfterRebuild(n)
}

// insertSibling adds a new empty task immediately after the selection
// among its siblings. On the root this is a no-op: the root has no
// siblings to insert next to.
func (c *Controller) insertSibling() error {
	if c.current == nil {
		return nil
	}
	n := c.current.InsertSiblingAfter()
	if n == nil {
		return nil
	}
	return c.selectAfterRebuild(n)
}

func (c *Controller) selectAfterRebuild(n *task.Task) error {
	if err := Unselect(c.current, c.styles.Label); err != nil {
		return err
	}
	c.current = nil
	if err := c.Rebuild(); err != nil {
		return err
	}
	if err := Select(n, c.styles.Selected); err != nil {
		return err
	}
	c.current = n
	slog.Debug("inserted task", "parent", parentText(n), "nodes", c.root.Count())
	return c.scr.Flush()
}

// toggle flips the completion marker of the selection in place. Both
// markers are the same width, so no rebuild is needed.
func (c *Controller) toggle() error {
	if c.current == nil {
		return nil
	}
	c.current.Completed = !c.current.Completed
	if err := c.engine.RefreshLabel(c.current, c.styles.Selected); err != nil {
		return err
	}
	return c.scr.Flush()
}

func parentText(t *task.Task) string {
	if t.Parent == nil || t.Parent.Task == nil {
		return ""
	}
	return t.Parent.Task.Text
}
