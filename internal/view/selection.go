// Package view drives selection state and turns input events into tree
// mutations and redraws.
package view

import (
	"errors"
	"fmt"

	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
)

// ErrInvalidTransition reports a selection operation attempted from a
// state that forbids it. This is a logic error: the event loop keeps
// selection mutually exclusive, so it should never fire in normal use.
var ErrInvalidTransition = errors.New("invalid selection transition")

// Select marks t selected and repaints its cached label with the
// selected style. The caller must flush the screen afterwards.
func Select(t *task.Task, st screen.Style) error {
	if t.Selected {
		return fmt.Errorf("select %q: %w: already selected", t.Text, ErrInvalidTransition)
	}
	if t.Region != nil {
		if err := t.Region.WriteText(0, 0, st, t.DisplayText); err != nil {
			return err
		}
	}
	t.Selected = true
	return nil
}

// Unselect clears t's selection and repaints its label with the default
// style. The caller must flush the screen afterwards.
func Unselect(t *task.Task, st screen.Style) error {
	if !t.Selected {
		return fmt.Errorf("unselect %q: %w: not selected", t.Text, ErrInvalidTransition)
	}
	if t.Region != nil {
		if err := t.Region.WriteText(0, 0, st, t.DisplayText); err != nil {
			return err
		}
	}
	t.Selected = false
	return nil
}
