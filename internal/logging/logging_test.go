package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/arbor/config"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		cfg  config.LoggingConfig
		want zapcore.Level
	}{
		{config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.DebugLevel},
		{config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.WarnLevel},
		{config.LoggingConfig{Level: "bogus"}, zapcore.InfoLevel},
		{config.LoggingConfig{}, zapcore.InfoLevel},
	}
	for _, c := range cases {
		log, err := New(c.cfg)
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(c.want), "level %v should be enabled for %+v", c.want, c.cfg)
		if c.want > zapcore.DebugLevel {
			assert.False(t, log.Core().Enabled(c.want-1), "level %v should be disabled for %+v", c.want-1, c.cfg)
		}
	}
}
