package application

import (
	"strings"
	"testing"

	"guestbook-service/guestbook/domain"

	"github.com/stretchr/testify/require"
)

func TestSanitizer_Clean(t *testing.T) {
	tests := []struct {
		name     string
		policy   domain.MarkupPolicy
		input    string
		maxLen   int
		expected string
	}{
		{"escape keeps tags as text", domain.MarkupEscape, "<b>hi</b>", 200, "&lt;b&gt;hi&lt;/b&gt;"},
		{"strip removes tags", domain.MarkupStrip, "<b>hi</b>", 200, "hi"},
		{"quotes are escaped", domain.MarkupEscape, `it's "ok" & fine`, 200, "it&#039;s &quot;ok&quot; &amp; fine"},
		{"trims whitespace", domain.MarkupEscape, "  \thello \n", 200, "hello"},
		{"truncates after escaping", domain.MarkupEscape, "<b>hi</b>", 10, "&lt;b&gt;h"},
		{"truncates by rune", domain.MarkupEscape, "ção ção", 3, "ção"},
		{"strip keeps plain less-than", domain.MarkupStrip, "a < b", 200, "a &lt; b"},
		{"strip drops nested markup", domain.MarkupStrip, `<a href="x"><i>click</i></a> me`, 200, "click me"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitizer{Policy: tt.policy}.Clean(tt.input, tt.maxLen)
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizer_Clean_RespectsDefaultCaps(t *testing.T) {
	req := require.New(t)
	limits := domain.DefaultLimits()
	s := Sanitizer{Policy: limits.Markup}

	req.Len([]rune(s.Clean(strings.Repeat("x", 30), limits.MaxNameLength)), 20)
	req.Len([]rune(s.Clean(strings.Repeat("y", 300), limits.MaxMessageLength)), 200)
}
