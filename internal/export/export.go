// Package export renders a task tree without a terminal: plain text
// with the same connector geometry as the TUI, or JSON for scripting.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"

	"github.com/treeline-dev/treeline/internal/layout"
	"github.com/treeline-dev/treeline/internal/screen"
	"github.com/treeline-dev/treeline/internal/task"
)

// Format represents an output format.
type Format int

const (
	// FormatText renders the tree as plain text.
	FormatText Format = iota
	// FormatJSON outputs the tree as JSON.
	FormatJSON
)

// Detect returns the format from the flag and environment. Default is
// text.
func Detect(jsonFlag bool) Format {
	if jsonFlag || os.Getenv("TREELINE_OUTPUT") == "json" {
		return FormatJSON
	}
	return FormatText
}

// Text lays the tree out on an in-memory screen and returns the frame.
// The tree's render state is released afterwards; the pass exercises
// the exact geometry the TUI would draw.
func Text(root *task.Task, glyphs layout.Glyphs) (string, error) {
	w, h := frameSize(root)
	scr := screen.New(io.Discard, w, h)
	eng := layout.New(glyphs, screen.Style{}, screen.Style{})
	if _, err := eng.LayoutTree(scr.Root(), root); err != nil {
		return "", fmt.Errorf("rendering tree: %w", err)
	}
	frame := scr.Frame()
	root.ReleaseRegions()
	return frame, nil
}

// Node is the JSON shape of one task.
type Node struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Children  []Node `json:"children,omitempty"`
}

// JSON writes the tree as indented JSON.
func JSON(w io.Writer, root *task.Task) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toNode(root)); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func toNode(t *task.Task) Node {
	n := Node{Text: t.Text, Completed: t.Completed}
	for _, c := range t.Children {
		n.Children = append(n.Children, toNode(c))
	}
	return n
}

// frameSize returns a screen size guaranteed to hold the laid-out tree:
// every node consumes at most two rows (label plus separator), and a
// label is indented one column per level.
func frameSize(root *task.Task) (w, h int) {
	const chrome = 7 // connector glyph + completion marker + margin
	var walk func(t *task.Task, depth int)
	walk = func(t *task.Task, depth int) {
		if lw := depth + chrome + ansi.StringWidth(t.Text); lw > w {
			w = lw
		}
		for _, c := range t.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return w, 2*root.Count() + 2
}
