package render

import (
	"github.com/Iron-Ham/tileboard/internal/element"
)

// Buttons returns every mounted button in depth-first render order.
func (t *Tree) Buttons() []Button {
	t.mu.Lock()
	defer t.mu.Unlock()

	nodes := t.buttonNodes()
	buttons := make([]Button, len(nodes))
	for i, n := range nodes {
		buttons[i] = asButton(n)
	}
	return buttons
}

// Button returns the mounted button with the given key.
func (t *Tree) Button(key string) (Button, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, n := range t.buttonNodes() {
		if n.key == key {
			return asButton(n), true
		}
	}
	return Button{}, false
}

// Focused returns the button that currently has focus.
func (t *Tree) Focused() (Button, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.focused == nil {
		return Button{}, false
	}
	return asButton(t.focused), true
}

// FocusNext moves focus to the next button, wrapping around.
func (t *Tree) FocusNext() {
	t.moveFocus(1)
}

// FocusPrev moves focus to the previous button, wrapping around.
func (t *Tree) FocusPrev() {
	t.moveFocus(-1)
}

// Focus moves focus to the button with the given key and reports whether
// one was found.
func (t *Tree) Focus(key string) bool {
	t.mu.Lock()
	found, moved := false, false
	for _, n := range t.buttonNodes() {
		if n.key == key {
			found, moved = true, t.setFocus(n)
			break
		}
	}
	t.mu.Unlock()

	if moved {
		t.invalidate()
	}
	return found
}

func (t *Tree) moveFocus(delta int) {
	t.mu.Lock()
	moved := false
	if nodes := t.buttonNodes(); len(nodes) > 0 {
		i := indexOf(nodes, t.focused)
		if i < 0 {
			moved = t.setFocus(nodes[0])
		} else {
			moved = t.setFocus(nodes[(i+delta+len(nodes))%len(nodes)])
		}
	}
	t.mu.Unlock()

	if moved {
		t.invalidate()
	}
}

// setFocus reports whether focus changed.
func (t *Tree) setFocus(n *node) bool {
	if t.focused == n {
		return false
	}
	if t.focused != nil {
		t.focused.markDirty()
	}
	t.focused = n
	if n != nil {
		n.markDirty()
	}
	return true
}

// ensureFocus keeps focus on a mounted button, defaulting to the first.
func (t *Tree) ensureFocus() {
	nodes := t.buttonNodes()
	if indexOf(nodes, t.focused) >= 0 {
		return
	}
	if len(nodes) == 0 {
		t.setFocus(nil)
		return
	}
	t.setFocus(nodes[0])
}

func (t *Tree) buttonNodes() []*node {
	var nodes []*node
	if t.root != nil {
		collectButtons(t.root, &nodes)
	}
	return nodes
}

func collectButtons(n *node, out *[]*node) {
	if _, ok := n.live.(*element.ButtonTile); ok {
		*out = append(*out, n)
	}
	for _, child := range n.children {
		collectButtons(child, out)
	}
}

func asButton(n *node) Button {
	b := n.live.(*element.ButtonTile)
	return Button{Key: b.Key(), Text: b.Text, Action: b.Action}
}

func indexOf(nodes []*node, target *node) int {
	if target == nil {
		return -1
	}
	for i, n := range nodes {
		if n == target {
			return i
		}
	}
	return -1
}
