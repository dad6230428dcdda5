package dom

import (
	"strings"
)

// Rect is a rendered bounding box in layout pixels.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns the lower edge of the box.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Metrics carries the measurable extents of one element. The tree performs no
// layout itself; metrics are supplied by the embedding layer.
type Metrics struct {
	ScrollHeight float64 // total scrollable content extent
	OffsetHeight float64 // layout extent including borders
	ClientHeight float64 // visible extent excluding scrollbars
	Rect         Rect    // precise rendered bounding box
}

// Node is one element in the document tree.
type Node struct {
	Tag     string
	ID      string
	Classes []string
	Attrs   map[string]string
	Text    string

	doc      *Document
	parent   *Node
	children []*Node
	metrics  Metrics
}

// NewNode creates a detached element.
func NewNode(tag string) *Node {
	return &Node{
		Tag:   strings.ToLower(tag),
		Attrs: make(map[string]string),
	}
}

// Parent returns the parent element, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct child elements.
func (n *Node) Children() []*Node {
	return n.children
}

// Metrics returns the element's current layout metrics.
func (n *Node) Metrics() Metrics {
	if n.doc != nil {
		n.doc.mu.RLock()
		defer n.doc.mu.RUnlock()
	}
	return n.metrics
}

// SetMetrics replaces the element's layout metrics and dispatches a resize
// change to document subscribers.
func (n *Node) SetMetrics(m Metrics) {
	if n.doc == nil {
		n.metrics = m
		return
	}
	n.doc.mu.Lock()
	n.metrics = m
	n.doc.mu.Unlock()
	n.doc.dispatch(Change{Node: n, Kind: ChangeResize})
}

// AppendChild attaches a child element and dispatches a child-list mutation.
func (n *Node) AppendChild(child *Node) {
	if n.doc != nil {
		n.doc.mu.Lock()
	}
	child.parent = n
	child.adopt(n.doc)
	n.children = append(n.children, child)
	if n.doc != nil {
		n.doc.mu.Unlock()
		n.doc.dispatch(Change{Node: n, Kind: ChangeChildList})
	}
}

// SetAttr sets an attribute and dispatches an attribute mutation.
func (n *Node) SetAttr(name, value string) {
	if n.doc != nil {
		n.doc.mu.Lock()
	}
	n.Attrs[name] = value
	if n.doc != nil {
		n.doc.mu.Unlock()
		n.doc.dispatch(Change{Node: n, Kind: ChangeAttributes})
	}
}

// HasClass reports whether the element carries the given class.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Descendants returns every element below this one, depth first.
func (n *Node) Descendants() []*Node {
	var out []*Node
	for _, child := range n.children {
		out = append(out, child)
		out = append(out, child.Descendants()...)
	}
	return out
}

// Query finds descendant elements matching a simple selector: "#id",
// ".class", a tag name, "*", or a comma-separated list of those.
func (n *Node) Query(selector string) []*Node {
	var out []*Node
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, n.queryOne(part)...)
	}
	return out
}

func (n *Node) queryOne(selector string) []*Node {
	var out []*Node
	for _, d := range n.Descendants() {
		if d.matches(selector) {
			out = append(out, d)
		}
	}
	return out
}

func (n *Node) matches(selector string) bool {
	switch {
	case selector == "*":
		return true
	case strings.HasPrefix(selector, "#"):
		return n.ID == selector[1:]
	case strings.HasPrefix(selector, "."):
		return n.HasClass(selector[1:])
	default:
		return strings.EqualFold(n.Tag, selector)
	}
}

// adopt wires the node and its subtree to a document. Caller holds the
// document lock.
func (n *Node) adopt(doc *Document) {
	n.doc = doc
	for _, child := range n.children {
		child.adopt(doc)
	}
}
