package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, log.WARN, ParseLevel("warning"))
	assert.Equal(t, log.ERROR, ParseLevel(" error "))
	assert.Equal(t, log.OFF, ParseLevel("off"))
	assert.Equal(t, log.INFO, ParseLevel("whatever"))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New("ledcad", "warn", &buf)
	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.True(t, strings.Contains(out, `"prefix":"ledcad"`), out)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing happens")
	assert.Equal(t, log.OFF, l.Level())
}
