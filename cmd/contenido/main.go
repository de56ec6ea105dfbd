// Entry point for the content microservice: file storage and courseware
// records for the educational platform.
package main

import (
	"context"
	"os"

	"github.com/educonnect/contenido/internal/app/bootstrap"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if err := bootstrap.Run(context.Background(), logger); err != nil {
		logger.Error("el servicio termino con error", zap.Error(err))
		os.Exit(1)
	}
}
