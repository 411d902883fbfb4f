package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("production", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("request_id", "abc").Msg("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["message"])
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, "abc", line["request_id"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestDevelopmentLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("development", &buf)

	logger.Debug().Msg("details")
	assert.Contains(t, buf.String(), "details")
}
