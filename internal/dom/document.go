package dom

import (
	"sync"
)

// ChangeKind classifies a document change.
type ChangeKind int

const (
	// ChangeResize signals that an element's layout metrics were replaced.
	ChangeResize ChangeKind = iota
	// ChangeChildList signals structural mutation below an element.
	ChangeChildList
	// ChangeAttributes signals an attribute mutation on an element.
	ChangeAttributes
)

// Change describes one mutation delivered to subscribers.
type Change struct {
	Node *Node
	Kind ChangeKind
}

// Document owns an element tree and fans out change notifications to
// subscribers (the script runtime's observer shims).
type Document struct {
	mu        sync.RWMutex
	root      *Node // html
	body      *Node
	listeners map[int]func(Change)
	nextSub   int
}

// NewDocument creates an empty document with an html/body skeleton.
func NewDocument() *Document {
	d := &Document{listeners: make(map[int]func(Change))}
	root := NewNode("html")
	body := NewNode("body")
	root.doc = d
	body.doc = d
	body.parent = root
	root.children = []*Node{body}
	d.root = root
	d.body = body
	return d
}

// Root returns the document element.
func (d *Document) Root() *Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root
}

// Body returns the body element, or nil when the document has none.
func (d *Document) Body() *Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.body
}

// GetByID finds the first element with the given id, or nil.
func (d *Document) GetByID(id string) *Node {
	for _, n := range d.Query("#" + id) {
		return n
	}
	return nil
}

// Query runs a simple selector query from the root.
func (d *Document) Query(selector string) []*Node {
	d.mu.RLock()
	root := d.root
	d.mu.RUnlock()
	if root == nil {
		return nil
	}
	if root.matches(selector) {
		return append([]*Node{root}, root.Query(selector)...)
	}
	return root.Query(selector)
}

// Subscribe registers a change listener and returns its remover. Listeners
// run synchronously on the mutating goroutine.
func (d *Document) Subscribe(fn func(Change)) func() {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// dispatch delivers a change to every subscriber. Called without the lock
// held; listeners may read the tree.
func (d *Document) dispatch(ch Change) {
	d.mu.RLock()
	fns := make([]func(Change), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(ch)
	}
}
