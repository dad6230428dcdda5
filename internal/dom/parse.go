package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse builds a document from markup. All layout metrics start at zero; the
// embedding layer supplies them.
func Parse(markup string) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}

	htmlSel := gq.Find("html")
	if len(htmlSel.Nodes) == 0 {
		return nil, fmt.Errorf("markup has no root element")
	}

	d := &Document{listeners: make(map[int]func(Change))}
	root := convert(htmlSel.Nodes[0])
	root.adopt(d)
	d.root = root

	for _, n := range root.Query("body") {
		d.body = n
		break
	}
	return d, nil
}

// convert maps a parsed element subtree onto the measurement tree, keeping
// elements and collapsing text.
func convert(src *html.Node) *Node {
	n := NewNode(src.Data)
	for _, attr := range src.Attr {
		switch attr.Key {
		case "id":
			n.ID = attr.Val
		case "class":
			n.Classes = strings.Fields(attr.Val)
		}
		n.Attrs[attr.Key] = attr.Val
	}

	var text strings.Builder
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child := convert(c)
			child.parent = n
			n.children = append(n.children, child)
		case html.TextNode:
			text.WriteString(c.Data)
		}
	}
	n.Text = strings.TrimSpace(text.String())
	return n
}
