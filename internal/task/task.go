// Package task holds the in-memory task tree and the per-node render
// state populated by the layout engine.
package task

import "github.com/treeline-dev/treeline/internal/screen"

// Task is a node in the task tree. The tree owns its children in
// insertion order; every other node reference (navigation chain, parent
// context) is non-owning and only valid after a layout pass.
type Task struct {
	Text      string
	Completed bool
	Children  []*Task

	// Render state, rebuilt by every layout pass.
	Region      *screen.Region // owned; destroying it destroys descendant regions
	Selected    bool
	DisplayText string // cached label: connector glyph + completion marker + text
	PrevInOrder *Task
	NextInOrder *Task
	Parent      *ParentContext
}

// ParentContext records where a task sits among its siblings. It is a
// non-owning back-reference used for connector drawing and sibling
// insertion, never for ownership or destruction.
type ParentContext struct {
	Task  *Task // parent node
	Index int   // position among the parent's children
	Count int   // sibling count at layout time
}

// New returns a task with the given text and empty render state.
func New(text string) *Task {
	return &Task{Text: text}
}

// AddChild appends child to t's children.
func (t *Task) AddChild(child *Task) {
	t.Children = append(t.Children, child)
}

// IsLastSibling reports whether t is the last of its siblings. The root
// (no parent context) counts as last.
func (t *Task) IsLastSibling() bool {
	if t.Parent == nil {
		return true
	}
	return t.Parent.Index == t.Parent.Count-1
}

// Walk visits t and every descendant in pre-order.
func (t *Task) Walk(fn func(*Task)) {
	fn(t)
	for _, c := range t.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the subtree rooted at t.
func (t *Task) Count() int {
	n := 0
	t.Walk(func(*Task) { n++ })
	return n
}
