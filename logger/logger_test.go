package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
		log, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, log.SugaredLogger)
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("component", "awarder").Info("badge awarded", "user_id", "u1")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "badge awarded", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "awarder", fields["component"])
	assert.Equal(t, "u1", fields["user_id"])
}
