package layout_test

import (
	"io"
	"testing"

	"pgregory.net/rapid"

	"github.com/treeline-dev/treeline/internal/layout"
	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
)

// genTree draws a task tree of bounded depth and size.
func genTree(t *rapid.T) *task.Task {
	nodes := 0
	var gen func(depth int) *task.Task
	gen = func(depth int) *task.Task {
		nodes++
		n := task.New(rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "text"))
		n.Completed = rapid.Bool().Draw(t, "completed")
		if depth < 4 && nodes < 24 {
			for i := rapid.IntRange(0, 3).Draw(t, "children"); i > 0; i-- {
				n.AddChild(gen(depth + 1))
			}
		}
		return n
	}
	return gen(0)
}

// Every create is balanced by exactly one destroy: after a layout pass
// and a release, no region leaks.
func TestLayoutReleaseLeavesNoRegions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := genTree(t)
		scr := screen.New(io.Discard, 256, 256)
		eng := layout.New(layout.UnicodeGlyphs, screen.Style{}, screen.Style{})

		if _, err := eng.LayoutTree(scr.Root(), root); err != nil {
			t.Fatalf("layout: %v", err)
		}
		if scr.Live() < root.Count() {
			t.Fatalf("%d live regions for %d nodes", scr.Live(), root.Count())
		}

		root.ReleaseRegions()
		if scr.Live() != 0 {
			t.Fatalf("%d live regions after release, want 0", scr.Live())
		}
	})
}

// The navigation chain visits exactly the nodes of the tree, in
// pre-order, and the backward links mirror the forward links.
func TestNavigationChainMatchesWalk(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := genTree(t)
		scr := screen.New(io.Discard, 256, 256)
		eng := layout.New(layout.UnicodeGlyphs, screen.Style{}, screen.Style{})
		if _, err := eng.LayoutTree(scr.Root(), root); err != nil {
			t.Fatalf("layout: %v", err)
		}

		var want []*task.Task
		root.Walk(func(n *task.Task) { want = append(want, n) })

		cur := root
		for i, w := range want {
			if cur == nil {
				t.Fatalf("chain ends after %d of %d nodes", i, len(want))
			}
			if cur != w {
				t.Fatalf("chain position %d = %q, want %q", i, cur.Text, w.Text)
			}
			if cur.NextInOrder != nil && cur.NextInOrder.PrevInOrder != cur {
				t.Fatalf("backward link broken at %q", cur.Text)
			}
			cur = cur.NextInOrder
		}
		if cur != nil {
			t.Fatalf("chain continues past the tree: %q", cur.Text)
		}
		if root.PrevInOrder != nil {
			t.Fatal("root has a predecessor")
		}
	})
}

// Every laid-out node can be hit at its region's top-left corner, and
// the hit resolves to that node.
func TestEveryNodeHittableAtOrigin(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		root := genTree(t)
		scr := screen.New(io.Discard, 256, 256)
		eng := layout.New(layout.UnicodeGlyphs, screen.Style{}, screen.Style{})
		if _, err := eng.LayoutTree(scr.Root(), root); err != nil {
			t.Fatalf("layout: %v", err)
		}

		root.Walk(func(n *task.Task) {
			x, y := n.Region.Abs()
			if got := layout.FindHit(root.Region, x, y); got != n {
				t.Fatalf("FindHit(%d,%d) = %v, want %q", x, y, got, n.Text)
			}
		})
	})
}
