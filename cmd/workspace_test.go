package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintDeps(t *testing.T) {
	out := new(bytes.Buffer)
	require.NoError(t, printDeps(out, map[string]interface{}{
		"api":   "../../api",
		"tokio": map[string]interface{}{"version": "1"},
	}))

	assert.Equal(t, `{
  "api": "../../api",
  "tokio": {
    "version": "1"
  }
}
`, out.String())
}
