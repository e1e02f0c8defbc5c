package fur

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewDefaultLoggerTo("fur", false, &out, &errOut)

	log.Debugf("hidden %d", 1)
	log.Infof("mask %dx%d", 4, 4)
	log.Warnf("slow frame")
	log.Errorf("device lost")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[fur] INFO: mask 4x4")
	assert.Contains(t, errOut.String(), "[fur] WARN: slow frame")
	assert.Contains(t, errOut.String(), "[fur] ERROR: device lost")

	log.SetDebug(true)
	log.Debugf("shown")
	assert.Contains(t, out.String(), "[fur] DEBUG: shown")
}

func TestLoggingModule_DefaultPrefix(t *testing.T) {
	app := newApp()
	app.UseModules(LoggingModule{})

	log, ok := Resource[DefaultLogger](app)
	require.True(t, ok)
	assert.Equal(t, defaultLogPrefix, log.prefix)
}
