package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelWarn)
	log.SetFile(&buf)

	log.Debug("hidden %d", 1)
	log.Info("hidden too")
	log.Warn("shown %s", "warning")
	log.Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown warning")
	assert.Contains(t, out, "[ERROR] shown error")
}

func TestEventFormat(t *testing.T) {
	var buf bytes.Buffer
	// Events bypass the level filter.
	log := New(LevelFatal)
	log.SetFile(&buf)

	log.Event("TARGET DONE",
		KV{Key: "title", Value: "Some Movie"},
		KV{Key: "link", Value: "https://cdn.example/index.m3u8"},
	)

	line := strings.TrimSpace(buf.String())
	assert.Contains(t, line, "[EVENT] TARGET DONE")
	assert.Contains(t, line, "title=Some Movie link=https://cdn.example/index.m3u8")
}
