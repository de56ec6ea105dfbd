// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/educonnect/contenido/internal/app/features/registros"
	"github.com/educonnect/contenido/internal/app/store/generic"
	"github.com/educonnect/contenido/internal/app/system/directory"
	"github.com/educonnect/contenido/internal/app/system/indexes"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"go.uber.org/zap"
)

// Run is the whole service lifecycle: configuration, backends, schema
// preparation, HTTP serving and graceful shutdown. It blocks until the
// process receives SIGINT or SIGTERM.
func Run(ctx context.Context, logger *zap.Logger) error {
	cfg, err := LoadConfig(logger)
	if err != nil {
		return err
	}

	client, db, err := ConnectDB(ctx, cfg, logger)
	if err != nil {
		return err
	}

	blobs, err := ConnectBlobStore(ctx, cfg, logger)
	if err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	deps := Deps{
		MongoClient:   client,
		MongoDatabase: db,
		Blobs:         blobs,
		Ext:           inputval.NewExtensions(cfg.Extensions()),
		Registry:      generic.Default(),
	}
	if cfg.DirectoryBaseURL != "" {
		deps.Directorio = directory.New(cfg.DirectoryBaseURL, logger)
	}

	if err := EnsureSchema(ctx, deps, logger); err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	handler := BuildHandler(cfg, deps, logger)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("servidor HTTP escuchando", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		_ = Shutdown(context.Background(), cfg, deps, logger)
		return err
	case sig := <-stop:
		logger.Info("senal de apagado recibida", zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("contexto cancelado")
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		logger.Warn("el servidor no dreno a tiempo", zap.Error(err))
	}
	return Shutdown(drainCtx, cfg, deps, logger)
}

// EnsureSchema creates collections, validators and indexes. Runs once at
// startup, before the first request.
func EnsureSchema(ctx context.Context, deps Deps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}

	// The generic collections carry $jsonSchema validators, created here so
	// the record endpoints find them ready.
	registrosHandler := registros.NewHandler(deps.MongoDatabase, deps.Registry, logger)
	return registrosHandler.Preparar(ctx)
}
