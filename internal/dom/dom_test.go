package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildsTree(t *testing.T) {
	markup := `<!DOCTYPE html>
<html>
<head><title>t</title></head>
<body>
  <div id="content" class="wrapper math-content">
    <span class="katex">x^2</span>
    <span class="katex katex-display">\frac{a}{b}</span>
  </div>
</body>
</html>`

	doc, err := Parse(markup)
	require.NoError(t, err)
	require.NotNil(t, doc.Body())

	content := doc.GetByID("content")
	require.NotNil(t, content)
	assert.Equal(t, "div", content.Tag)
	assert.True(t, content.HasClass("wrapper"))
	assert.True(t, content.HasClass("math-content"))

	katex := doc.Query(".katex")
	assert.Len(t, katex, 2)

	spans := doc.Query("span")
	assert.Len(t, spans, 2)
	assert.Equal(t, "x^2", spans[0].Text)
}

func TestQuerySelectorList(t *testing.T) {
	doc := NewDocument()
	a := NewNode("span")
	a.Classes = []string{"katex"}
	b := NewNode("span")
	b.Classes = []string{"katex-display"}
	doc.Body().AppendChild(a)
	doc.Body().AppendChild(b)

	got := doc.Query(".katex, .katex-display")
	assert.Len(t, got, 2)

	all := doc.Body().Query("*")
	assert.Len(t, all, 2)
}

func TestSetMetricsDispatchesResize(t *testing.T) {
	doc := NewDocument()

	var changes []Change
	unsub := doc.Subscribe(func(c Change) {
		changes = append(changes, c)
	})
	defer unsub()

	doc.Body().SetMetrics(Metrics{ScrollHeight: 120, Rect: Rect{Height: 118}})

	require.Len(t, changes, 1)
	assert.Equal(t, ChangeResize, changes[0].Kind)
	assert.Same(t, doc.Body(), changes[0].Node)
	assert.Equal(t, 120.0, doc.Body().Metrics().ScrollHeight)
	assert.Equal(t, 118.0, doc.Body().Metrics().Rect.Bottom())
}

func TestStructuralAndAttributeMutations(t *testing.T) {
	doc := NewDocument()

	var kinds []ChangeKind
	unsub := doc.Subscribe(func(c Change) {
		kinds = append(kinds, c.Kind)
	})
	defer unsub()

	child := NewNode("div")
	doc.Body().AppendChild(child)
	child.SetAttr("style", "height: 40px")

	assert.Equal(t, []ChangeKind{ChangeChildList, ChangeAttributes}, kinds)
	// The adopted child participates in queries and dispatches too.
	grand := NewNode("p")
	child.AppendChild(grand)
	assert.Len(t, doc.Query("p"), 1)
	assert.Equal(t, ChangeChildList, kinds[len(kinds)-1])
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	doc := NewDocument()

	count := 0
	unsub := doc.Subscribe(func(Change) { count++ })

	doc.Body().SetMetrics(Metrics{ScrollHeight: 10})
	unsub()
	doc.Body().SetMetrics(Metrics{ScrollHeight: 20})

	assert.Equal(t, 1, count)
}
