// Package render mounts an element tree against a registry and draws it
// with lipgloss.
//
// A Tree holds one node per mounted element. Each node resolves its live
// element from the registry, falling back to the element declared by its
// parent, and registers the declared element the first time it is drawn.
// Keyed nodes watch their key; a merge-update re-resolves only the nodes
// mounted under that key, reconciles a splitter's children by elementKey,
// and invalidates cached output along the path to the root. Subtrees the
// update did not touch keep their cached output.
package render

import (
	"slices"
	"sync"

	"github.com/Iron-Ham/tileboard/internal/element"
	"github.com/Iron-Ham/tileboard/internal/logging"
	"github.com/Iron-Ham/tileboard/internal/registry"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// Source is the registry capability a Tree renders against.
type Source interface {
	registry.Store
	Watch(key string, fn registry.Watcher) registry.Unwatch
}

// Button is a mounted button tile as currently resolved.
type Button struct {
	Key    string
	Text   string
	Action element.Action
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tree) { t.logger = l.WithComponent("render") }
}

// WithStyles sets the styles used when a Context carries none.
func WithStyles(s *styles.Styles) Option {
	return func(t *Tree) { t.styles = s }
}

// OnInvalidate registers fn to run after a watched key or a focus move
// changed the tree's output. It is called without the tree lock held.
func OnInvalidate(fn func()) Option {
	return func(t *Tree) { t.onInvalidate = fn }
}

// Tree is a mounted element tree. It is safe for concurrent use.
type Tree struct {
	mu           sync.Mutex
	source       Source
	logger       *logging.Logger
	styles       *styles.Styles
	onInvalidate func()

	root    *node
	focused *node
}

// New creates an empty Tree rendering against source.
func New(source Source, opts ...Option) *Tree {
	t := &Tree{
		source: source,
		logger: logging.NopLogger(),
		styles: styles.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type node struct {
	key      string
	declared element.Element
	live     element.Element // nil when the node renders nothing
	parent   *node
	children []*node
	unwatch  registry.Unwatch

	visited bool
	dirty   bool
	cache   string
	width   int
	styles  *styles.Styles
	draws   int // cache misses, for tests
}

// Mount replaces the mounted tree with one rooted at root. A nil root
// mounts nothing.
func (t *Tree) Mount(root element.Element) {
	t.mu.Lock()
	if t.root != nil {
		t.unmount(t.root)
	}
	t.root = nil
	if root != nil {
		t.root = t.mount(root, nil)
	}
	t.focused = nil
	t.ensureFocus()
	t.mu.Unlock()
}

// Unmount removes every node and its subscriptions. Registry entries stay.
func (t *Tree) Unmount() {
	t.Mount(nil)
}

func (t *Tree) mount(declared element.Element, parent *node) *node {
	n := &node{
		key:      declared.Key(),
		declared: declared,
		parent:   parent,
		dirty:    true,
	}

	if n.key != "" && parent.hasAncestor(n.key) {
		t.logger.Warn("element key repeats in its own ancestry, not rendering", "element_key", n.key)
		return n
	}

	n.live = t.resolve(n)
	if n.key != "" {
		n.unwatch = t.source.Watch(n.key, func(current element.Element) {
			t.changed(n, current)
		})
	}
	for _, child := range element.Children(n.live) {
		n.children = append(n.children, t.mount(child, n))
	}
	return n
}

func (n *node) hasAncestor(key string) bool {
	for p := n; p != nil; p = p.parent {
		if p.key == key {
			return true
		}
	}
	return false
}

// resolve returns the registry's element for n's key, or the declared one.
func (t *Tree) resolve(n *node) element.Element {
	if n.key == "" {
		return n.declared
	}
	if live, ok := t.source.Lookup(n.key); ok {
		return live
	}
	return n.declared
}

// visit registers n's declared element on its first draw.
func (t *Tree) visit(n *node) {
	if n.visited {
		return
	}
	n.visited = true
	if n.key == "" {
		return
	}
	if t.source.Register(n.declared) {
		return
	}
	// Someone registered the key between mount and first draw.
	if live, ok := t.source.Lookup(n.key); ok && live != n.live {
		n.live = live
		t.reconcile(n)
	}
}

func (t *Tree) unmount(n *node) {
	for _, child := range n.children {
		t.unmount(child)
	}
	if n.unwatch != nil {
		n.unwatch()
		n.unwatch = nil
	}
	if t.focused == n {
		t.focused = nil
	}
	n.children = nil
}

// changed is the watcher for a keyed node.
func (t *Tree) changed(n *node, current element.Element) {
	t.mu.Lock()
	if n.unwatch == nil {
		// Unmounted by an earlier handler for the same publish.
		t.mu.Unlock()
		return
	}
	n.live = current
	t.reconcile(n)
	n.markDirty()
	t.ensureFocus()
	t.mu.Unlock()

	t.invalidate()
}

func (t *Tree) invalidate() {
	if t.onInvalidate != nil {
		t.onInvalidate()
	}
}

// reconcile brings n's child nodes in line with its live element's
// children. Child nodes are reused by elementKey; unkeyed children are
// remounted.
func (t *Tree) reconcile(n *node) {
	declared := element.Children(n.live)

	reusable := make(map[string]*node, len(n.children))
	for _, child := range n.children {
		if child.key != "" {
			if _, dup := reusable[child.key]; !dup {
				reusable[child.key] = child
			}
		}
	}

	next := make([]*node, 0, len(declared))
	for _, d := range declared {
		if reuse, ok := reusable[d.Key()]; ok && d.Key() != "" {
			delete(reusable, d.Key())
			reuse.declared = d
			next = append(next, reuse)
			continue
		}
		next = append(next, t.mount(d, n))
	}

	for _, child := range n.children {
		if !slices.Contains(next, child) {
			t.unmount(child)
		}
	}
	n.children = next
}

func (n *node) markDirty() {
	for p := n; p != nil; p = p.parent {
		p.dirty = true
	}
}

// Walk calls fn for every mounted node in depth-first order with the
// node's depth and live element. Nodes that render nothing are passed a
// nil element. Returning false from fn skips the node's children. fn must
// not call back into the Tree.
func (t *Tree) Walk(fn func(depth int, el element.Element) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root != nil {
		walk(t.root, 0, fn)
	}
}

func walk(n *node, depth int, fn func(int, element.Element) bool) {
	if !fn(depth, n.live) {
		return
	}
	for _, child := range n.children {
		walk(child, depth+1, fn)
	}
}
