package layout_test

import (
	"io"
	"strings"
	"testing"

	"github.com/treeline-dev/treeline/internal/layout"
	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
)

// buildTree returns root[A[A1, A2], B].
func buildTree() (root, a, a1, a2, b *task.Task) {
	root = task.New("root")
	a = task.New("A")
	a1 = task.New("A1")
	a2 = task.New("A2")
	b = task.New("B")
	a.AddChild(a1)
	a.AddChild(a2)
	root.AddChild(a)
	root.AddChild(b)
	return root, a, a1, a2, b
}

func newEngine() *layout.Engine {
	return layout.New(layout.UnicodeGlyphs, screen.Style{}, screen.Style{})
}

func layoutTree(t *testing.T, root *task.Task) *screen.Screen {
	t.Helper()
	scr := screen.New(io.Discard, 80, 24)
	if _, err := newEngine().LayoutTree(scr.Root(), root); err != nil {
		t.Fatalf("LayoutTree: %v", err)
	}
	return scr
}

func TestLayoutReportsImmediateChildCount(t *testing.T) {
	root, a, _, _, _ := buildTree()
	scr := screen.New(io.Discard, 80, 24)

	res, err := newEngine().LayoutTree(scr.Root(), root)
	if err != nil {
		t.Fatal(err)
	}
	// Immediate children only. root has 4 descendants but 2 children.
	if res.Children != 2 {
		t.Errorf("root child count = %d, want 2", res.Children)
	}

	root.ReleaseRegions()
	res, err = newEngine().Layout(scr.Root(), a, layout.Cursor{Index: 0, Count: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Children != 2 {
		t.Errorf("A child count = %d, want 2", res.Children)
	}
}

func TestLayoutGeometry(t *testing.T) {
	root, a, a1, a2, b := buildTree()
	layoutTree(t, root)

	wantPos := []struct {
		node *task.Task
		x, y int
	}{
		{root, 0, 0},
		{a, 1, 1},
		{a1, 2, 2},
		{a2, 2, 3},
		{b, 1, 4}, // A's two children push B down by three rows
	}
	for _, tt := range wantPos {
		if tt.node.Region == nil {
			t.Fatalf("%q has no region", tt.node.Text)
		}
		x, y := tt.node.Region.Abs()
		if x != tt.x || y != tt.y {
			t.Errorf("%q at (%d,%d), want (%d,%d)", tt.node.Text, x, y, tt.x, tt.y)
		}
	}
}

func TestLayoutFrame(t *testing.T) {
	root, _, _, _, _ := buildTree()
	scr := layoutTree(t, root)

	want := strings.Join([]string{
		"[ ] root",
		" ├─[ ] A",
		" │├─[ ] A1",
		" │└─[ ] A2",
		" └─[ ] B",
	}, "\n")
	if got := scr.Frame(); got != want {
		t.Errorf("frame =\n%s\nwant\n%s", got, want)
	}
}

func TestLayoutFrameASCII(t *testing.T) {
	root, _, _, _, _ := buildTree()
	scr := screen.New(io.Discard, 80, 24)
	eng := layout.New(layout.ASCIIGlyphs, screen.Style{}, screen.Style{})
	if _, err := eng.LayoutTree(scr.Root(), root); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"[ ] root",
		" |-[ ] A",
		" ||-[ ] A1",
		" |`-[ ] A2",
		" `-[ ] B",
	}, "\n")
	if got := scr.Frame(); got != want {
		t.Errorf("frame =\n%s\nwant\n%s", got, want)
	}
}

func TestNavigationChainPreOrder(t *testing.T) {
	root, a, a1, a2, b := buildTree()
	layoutTree(t, root)

	want := []*task.Task{root, a, a1, a2, b}
	cur := root
	for i, w := range want {
		if cur != w {
			t.Fatalf("forward chain position %d = %q, want %q", i, cur.Text, w.Text)
		}
		cur = cur.NextInOrder
	}
	if cur != nil {
		t.Errorf("chain continues past the last node: %q", cur.Text)
	}

	cur = b
	for i := len(want) - 1; i >= 0; i-- {
		if cur != want[i] {
			t.Fatalf("backward chain position %d = %q, want %q", i, cur.Text, want[i].Text)
		}
		cur = cur.PrevInOrder
	}
	if cur != nil {
		t.Error("chain continues before the root")
	}
}

func TestChainRebuiltAfterInsert(t *testing.T) {
	root, a, a1, a2, b := buildTree()
	scr := layoutTree(t, root)

	n := b.InsertChild()
	root.ReleaseRegions()
	if _, err := newEngine().LayoutTree(scr.Root(), root); err != nil {
		t.Fatal(err)
	}

	want := []*task.Task{root, a, a1, a2, b, n}
	cur := root
	for i, w := range want {
		if cur != w {
			t.Fatalf("chain position %d = %q, want %q", i, cur.Text, w.Text)
		}
		cur = cur.NextInOrder
	}
	if x, y := n.Region.Abs(); x != 2 || y != 5 {
		t.Errorf("inserted node at (%d,%d), want (2,5)", x, y)
	}
}

func TestHitTest(t *testing.T) {
	root, a, a1, _, b := buildTree()
	layoutTree(t, root)

	tests := []struct {
		name string
		x, y int
		want *task.Task
	}{
		{"root label origin", 0, 0, root},
		{"root label last cell", 7, 0, root},
		{"A label", 1, 1, a},
		{"A1 top-left", 2, 2, a1},
		{"B label", 3, 4, b},
		{"connector cell carries no task", 1, 2, nil},
		{"right of root label", 20, 0, nil},
		{"empty row", 0, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := layout.FindHit(root.Region, tt.x, tt.y)
			if got != tt.want {
				t.Errorf("FindHit(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRefreshLabelKeepsGeometry(t *testing.T) {
	root, _, a1, _, _ := buildTree()
	scr := layoutTree(t, root)

	_, _, w0, h0 := a1.Region.Bounds()
	a1.Completed = true
	if err := newEngine().RefreshLabel(a1, screen.Style{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(a1.DisplayText, "[x]") {
		t.Errorf("DisplayText = %q, want completed marker", a1.DisplayText)
	}
	if _, _, w, h := a1.Region.Bounds(); w != w0 || h != h0 {
		t.Errorf("region grew to %dx%d from %dx%d on toggle", w, h, w0, h0)
	}
	if !strings.Contains(scr.Frame(), "├─[x] A1") {
		t.Errorf("frame missing toggled label:\n%s", scr.Frame())
	}
}

func TestLayoutFailsOffScreen(t *testing.T) {
	root, _, _, _, _ := buildTree()
	scr := screen.New(io.Discard, 80, 3) // too short for the tree

	_, err := newEngine().LayoutTree(scr.Root(), root)
	if err == nil {
		t.Fatal("LayoutTree on a 3-row screen must fail")
	}
}
