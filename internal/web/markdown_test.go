package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and list",
			src:      "# Plan\n\n- one\n- two",
			contains: []string{"<h1>Plan</h1>", "<li>one</li>", "<li>two</li>"},
		},
		{
			name:     "code block",
			src:      "```go\nfmt.Println(1)\n```",
			contains: []string{"<pre>", "fmt.Println(1)"},
		},
		{
			name:     "table",
			src:      "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "script is stripped",
			src:      "hello <script>alert(1)</script>",
			contains: []string{"hello"},
			excludes: []string{"<script>", "alert(1)</script>"},
		},
		{
			name:     "javascript links are stripped",
			src:      "[x](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(RenderMarkdown(tt.src))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
