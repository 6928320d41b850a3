package main

import (
	"log/slog"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/actions"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/config"
)

// application holds the shared dependencies of the server: configuration,
// the process logger, and the action layer every handler delegates to. The
// action layer is stateless (each call constructs its own backend handle)
// so one instance serves all requests.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	actions *actions.Actions
}
