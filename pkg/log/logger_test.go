package log

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleLoggerWritesToSink(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	SetLevel(Info)
	defer SetLevel(Warning)

	l := New("renderer")
	l.Printf("pass %d done\n", 3)
	l.Debugf("hidden")

	out := buf.String()
	assert.Contains(t, out, "pass 3 done")
	assert.Contains(t, out, "module=renderer")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug", Format: "json", Output: &buf}))
	defer SetLevel(Warning)

	New("compare").Debugf("score=%.2f", 0.5)
	assert.Contains(t, buf.String(), `"module":"compare"`)
	assert.Contains(t, buf.String(), `"message":"score=0.50"`)

	assert.Error(t, Init(Config{Format: "xml"}))
	assert.Error(t, Init(Config{Level: "loud"}))
}

func TestFieldsAndSince(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", Format: "json", Output: &buf}))
	defer SetLevel(Warning)

	l := New("regress")
	l.Fields().Str("case", "simple").Bool("passed", true).Msg("case done")
	l.Since(time.Now().Add(-time.Second), "render complete")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"case":"simple"`)
	assert.Contains(t, lines[0], `"passed":true`)
	assert.Contains(t, lines[0], `"module":"regress"`)
	assert.Contains(t, lines[1], `"elapsed":`)
	assert.Contains(t, lines[1], `"message":"render complete"`)
}
