package renders

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRendererPlainStyle(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewMarkdownRenderer(&buf, "notty", 80)
	require.NoError(t, err)

	require.NoError(t, r.Render("# Stats\n\n| Type | Count |\n|---|---|\n| Source | 3 |"))
	out := buf.String()
	assert.Contains(t, out, "Stats")
	assert.Contains(t, out, "Source")
	assert.NotContains(t, out, "\n\n\n")
}
