package task_test

import (
	"io"
	"testing"

	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
)

func TestWalkPreOrder(t *testing.T) {
	root := task.New("root")
	a := task.New("A")
	a.AddChild(task.New("A1"))
	a.AddChild(task.New("A2"))
	root.AddChild(a)
	root.AddChild(task.New("B"))

	var got []string
	root.Walk(func(n *task.Task) { got = append(got, n.Text) })

	want := []string{"root", "A", "A1", "A2", "B"}
	if len(got) != len(want) {
		t.Fatalf("visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d = %q, want %q", i, got[i], want[i])
		}
	}
	if n := root.Count(); n != 5 {
		t.Errorf("Count() = %d, want 5", n)
	}
}

func TestInsertChildAppendsLast(t *testing.T) {
	p := task.New("p")
	p.AddChild(task.New("first"))

	n := p.InsertChild()
	if len(p.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(p.Children))
	}
	if p.Children[1] != n {
		t.Error("new child is not the last child")
	}
	if n.Text != "" {
		t.Errorf("new child text = %q, want empty", n.Text)
	}
}

func TestInsertSiblingAfterMiddle(t *testing.T) {
	p := task.New("p")
	a, b, c := task.New("a"), task.New("b"), task.New("c")
	p.AddChild(a)
	p.AddChild(b)
	p.AddChild(c)
	b.Parent = &task.ParentContext{Task: p, Index: 1, Count: 3}

	n := b.InsertSiblingAfter()
	if n == nil {
		t.Fatal("InsertSiblingAfter returned nil")
	}
	want := []*task.Task{a, b, n, c}
	if len(p.Children) != len(want) {
		t.Fatalf("len(Children) = %d, want %d", len(p.Children), len(want))
	}
	for i, w := range want {
		if p.Children[i] != w {
			t.Errorf("Children[%d] = %q, want %q", i, p.Children[i].Text, w.Text)
		}
	}
}

func TestInsertSiblingAfterRoot(t *testing.T) {
	root := task.New("root")
	if n := root.InsertSiblingAfter(); n != nil {
		t.Errorf("root gained a sibling %v, want nil", n)
	}
}

func TestIsLastSibling(t *testing.T) {
	p := task.New("p")
	a, b := task.New("a"), task.New("b")
	p.AddChild(a)
	p.AddChild(b)
	a.Parent = &task.ParentContext{Task: p, Index: 0, Count: 2}
	b.Parent = &task.ParentContext{Task: p, Index: 1, Count: 2}

	if a.IsLastSibling() {
		t.Error("a.IsLastSibling() = true, want false")
	}
	if !b.IsLastSibling() {
		t.Error("b.IsLastSibling() = false, want true")
	}
	if !p.IsLastSibling() {
		t.Error("root counts as last sibling")
	}
}

func TestReleaseRegionsClearsLayoutState(t *testing.T) {
	scr := screen.New(io.Discard, 40, 10)
	root := task.New("root")
	child := task.New("child")
	root.AddChild(child)

	var err error
	root.Region, err = scr.Root().NewChild(0, 0, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	child.Region, err = root.Region.NewChild(1, 1, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	root.DisplayText = "[ ] root"
	root.NextInOrder = child
	child.PrevInOrder = root
	child.Parent = &task.ParentContext{Task: root, Index: 0, Count: 1}
	child.Selected = true

	root.ReleaseRegions()

	if scr.Live() != 0 {
		t.Errorf("Live() = %d after release, want 0", scr.Live())
	}
	root.Walk(func(n *task.Task) {
		if n.Region != nil || n.DisplayText != "" || n.PrevInOrder != nil ||
			n.NextInOrder != nil || n.Parent != nil {
			t.Errorf("%q kept layout state after release", n.Text)
		}
	})
	if !child.Selected {
		t.Error("selection must survive a release")
	}
}

func TestReleaseRegionsWithoutLayout(t *testing.T) {
	root := task.New("root")
	root.AddChild(task.New("a"))
	root.ReleaseRegions() // must not panic on a never-laid-out tree
}
