package task

// InsertChild inserts a new empty task as t's last child and returns it.
// The caller must rebuild the layout afterwards: offsets, connectors and
// the navigation chain are computed globally and cannot be patched.
func (t *Task) InsertChild() *Task {
	n := &Task{}
	t.Children = append(t.Children, n)
	return n
}

// InsertSiblingAfter inserts a new empty task immediately after t among
// its siblings, using the parent context from the last layout pass.
// Returns nil when t has no parent context (the root has no siblings).
func (t *Task) InsertSiblingAfter() *Task {
	if t.Parent == nil || t.Parent.Task == nil {
		return nil
	}
	p := t.Parent.Task
	i := t.Parent.Index + 1
	n := &Task{}
	p.Children = append(p.Children, nil)
	copy(p.Children[i+1:], p.Children[i:])
	p.Children[i] = n
	return n
}

// ReleaseRegions destroys the subtree's owned regions and clears all
// layout-derived state. Destroying the root region implicitly destroys
// every region nested under it; the per-node handles are cleared anyway
// so no stale handle survives into the next pass. Selection state is
// deliberately kept: it belongs to the task, not to a layout pass.
func (t *Task) ReleaseRegions() {
	if t.Region != nil {
		t.Region.Destroy()
	}
	t.Walk(func(n *Task) {
		n.Region = nil
		n.DisplayText = ""
		n.PrevInOrder = nil
		n.NextInOrder = nil
		n.Parent = nil
	})
}
