package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	out := string(RenderMarkdown("a [link](https://example.com) and `code`"))
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, "<code>code</code>")
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	out := string(RenderMarkdown(`hello <script>alert("x")</script> world`))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")
}
