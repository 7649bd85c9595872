package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollup-blog-service/internal/infrastructure/logger"
)

func TestNew_ProdWritesJSONAndDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("prod", &buf)

	log.Debug("hidden")
	log.Info("visible", "post_id", "7")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.Equal(t, "7", entry["post_id"])
}

func TestNew_TestEnvLogsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("test", &buf)

	log.With("component", "feed").Debug("refreshing")

	assert.Contains(t, buf.String(), "refreshing")
	assert.Contains(t, buf.String(), "component=feed")
}
