package logger

import (
	"errors"
	"testing"

	"github.com/secangkircinta/scug/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	log, err := New(config.LoggerConfig{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = New(config.LoggerConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewWithCore(core)

	log.WithComponent("claim").WithError(errors.New("boom")).Infow("claim failed", "task_id", "t1")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "claim failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "claim", fields["component"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "t1", fields["task_id"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Infow("discarded")
	assert.NoError(t, log.Close())
}
