package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug level", logLevel: "debug", wantDebug: true, wantInfo: true},
		{name: "info level", logLevel: "info", wantDebug: false, wantInfo: true},
		{name: "warn level", logLevel: "warn", wantDebug: false, wantInfo: false},
		{name: "error level", logLevel: "error", wantDebug: false, wantInfo: false},
		{name: "case insensitive", logLevel: "DEBUG", wantDebug: true, wantInfo: true},
		{name: "invalid level falls back to info", logLevel: "verbose", wantDebug: false, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := Setup(config.ServerConfig{Port: 8080, LogLevel: tt.logLevel})
			require.NotNil(t, log)

			ctx := context.Background()
			assert.Equal(t, tt.wantDebug, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.wantInfo, log.Enabled(ctx, slog.LevelInfo))
			assert.True(t, log.Enabled(ctx, slog.LevelError))

			// Setup installs the logger as the process default.
			assert.Equal(t, tt.wantInfo, slog.Default().Enabled(ctx, slog.LevelInfo))
		})
	}
}
