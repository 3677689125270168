package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBanner_PlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3", "127.0.0.1:10000")

	out := buf.String()
	assert.Contains(t, out, "strpbridge")
	assert.Contains(t, out, "v1.2.3")
	assert.Contains(t, out, "127.0.0.1:10000")
	assert.NotContains(t, out, "\x1b[", "no escape codes for a buffer")
}
