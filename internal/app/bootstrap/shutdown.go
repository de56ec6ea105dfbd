// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

// Shutdown releases the backends after the HTTP server has drained. Errors
// are logged and the first one is returned; the process exits either way.
func Shutdown(ctx context.Context, cfg Config, deps Deps, logger *zap.Logger) error {
	var firstErr error

	if deps.MongoClient != nil {
		logger.Info("desconectando MongoDB")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("fallo al desconectar MongoDB", zap.Error(err))
			firstErr = err
		}
	}
	return firstErr
}
