package layout

import (
	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
)

// FindHit maps an absolute screen coordinate to the task whose label
// region contains it, or nil when nothing does. Label regions never
// overlap descendant labels, so a self-containment match is returned
// immediately; otherwise children are searched in order and the first
// match wins. Connector regions carry no task and never produce a hit.
func FindHit(r *screen.Region, x, y int) *task.Task {
	if r == nil {
		return nil
	}
	if r.Contains(x, y) {
		if t, ok := r.Data().(*task.Task); ok {
			return t
		}
	}
	for _, child := range r.Children() {
		if t := FindHit(child, x, y); t != nil {
			return t
		}
	}
	return nil
}
