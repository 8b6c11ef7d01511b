package mdconverter

import (
	"testing"

	"github.com/rgonek/jira-adf-markdown/converter"
	"github.com/stretchr/testify/assert"
)

func TestMarkStackCloseInnermostOfType(t *testing.T) {
	link := converter.Mark{Type: converter.MarkLink, Attrs: map[string]interface{}{"href": "https://example.com"}}
	stack := newMarkStack()
	stack.push(link)
	stack.push(converter.Mark{Type: converter.MarkStrong})

	stack.close(converter.MarkLink)
	assert.Equal(t, []converter.Mark{{Type: converter.MarkStrong}}, stack.active())

	stack.close(converter.MarkEm)
	assert.Len(t, stack.active(), 1)
}

func TestMarkStackActiveIsACopy(t *testing.T) {
	stack := newMarkStack()
	stack.push(converter.Mark{Type: converter.MarkLink, Attrs: map[string]interface{}{"href": "a"}})

	marks := stack.active()
	marks[0].Attrs["href"] = "b"

	assert.Equal(t, "a", stack.active()[0].Attrs["href"])
}

func TestMarkStackLinks(t *testing.T) {
	stack := newMarkStack()
	assert.Nil(t, stack.links())

	stack.push(converter.Mark{Type: converter.MarkEm})
	stack.push(converter.Mark{Type: converter.MarkLink, Attrs: map[string]interface{}{"href": "a"}})

	assert.Equal(t, []converter.Mark{
		{Type: converter.MarkLink, Attrs: map[string]interface{}{"href": "a"}},
	}, stack.links())
}

func TestAppendInlineNodeMergesEqualMarks(t *testing.T) {
	strong := converter.Mark{Type: converter.MarkStrong}
	content := appendInlineNode(nil, textNode("a", strong))
	content = appendInlineNode(content, textNode("b", strong))
	content = appendInlineNode(content, textNode(""))
	content = appendInlineNode(content, textNode("c"))

	assert.Equal(t, []converter.Node{textNode("ab", strong), textNode("c")}, content)
}
