package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/green-campus/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		level string
		debug bool
		info  bool
	}{
		{level: "debug", debug: true, info: true},
		{level: "WARN", debug: false, info: false},
		{level: "nonsense", debug: false, info: true},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			logger, err := NewLogger(config.LoggerConfig{Level: tc.level, Service: "test"})
			require.NoError(t, err)
			assert.Equal(t, tc.debug, logger.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tc.info, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "info", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
