package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsActiveContent(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		removed string
		kept    string
	}{
		{"script element", `<svg><script type="text/javascript">alert(1)</script><circle r="4"/></svg>`, "alert", `<circle r="4"/>`},
		{"self-closing script", `<svg><script href="https://evil.example/x.js"/><rect/></svg>`, "evil", "<rect/>"},
		{"double-quoted handler", `<svg onload="alert(1)"><rect/></svg>`, "onload", "<rect/>"},
		{"single-quoted handler", `<svg><rect onclick='steal()'/></svg>`, "onclick", "<rect/>"},
		{"unquoted handler", `<svg><rect onmouseover=steal() /></svg>`, "onmouseover", "<rect />"},
		{"javascript link", `<svg><a xlink:href="javascript:alert(1)"><text>x</text></a></svg>`, "javascript", "<text>x</text>"},
		{"foreignObject", `<svg><foreignObject><iframe src="x"></iframe></foreignObject><g/></svg>`, "iframe", "<g/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Sanitize([]byte(tt.input))
			require.NoError(t, err)
			assert.NotContains(t, string(out), tt.removed)
			assert.Contains(t, string(out), tt.kept)
		})
	}
}

func TestSanitizeKeepsPlainLinks(t *testing.T) {
	in := `<svg><a href="https://jhs.example/"><rect/></a></svg>`
	out, err := Sanitize([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestSanitizeRejectsNonSVG(t *testing.T) {
	_, err := Sanitize([]byte("<html><body>hi</body></html>"))
	assert.ErrorIs(t, err, ErrNotSVG)
}
