package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputCarriesServiceAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Service: "bookings"})

	log.Info("booking created", "booking_id", "abc", "venues", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "booking created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "bookings", entry["service"])
	assert.Equal(t, "abc", entry["booking_id"])
	assert.EqualValues(t, 2, entry["venues"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Level: WARN})

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "shown")
}

func TestWithAddsContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf}).With("request_id", "r-1")

	log.Error("failed")

	assert.Contains(t, buf.String(), `"request_id":"r-1"`)
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Output: &buf, Format: CONSOLE})

	log.Info("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "hello")
}
