package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	require.Equal(t, "", Text(""))
	require.Equal(t, "Need an intro", Text("  Need an intro "))
	require.Equal(t, "Hello", Text("<b>Hello</b><script>alert('x')</script>"))
	require.Equal(t, "R&D at Smith & Co", Text("R&D at Smith & Co"))
}

func TestHTML(t *testing.T) {
	require.Equal(t, "<p>Hello</p>", HTML("<p>Hello</p><script>alert('xss')</script>"))
	out := HTML(`<a href="javascript:alert(1)">x</a>`)
	require.NotContains(t, out, "javascript")
	require.Contains(t, HTML(`<a href="https://example.com">Link</a>`), "https://example.com")
}
