package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("✅ Exported", zap.String("path", "qr-1.png"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "✅ Exported")
	assert.Contains(t, out, "qr-1.png")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", nil)
	assert.Error(t, err)
}
