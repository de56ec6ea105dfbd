// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/educonnect/contenido/internal/app/system/timeouts"
	"github.com/educonnect/contenido/internal/blobstore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection with the configured pool
// sizes and verifies it with a ping.
func ConnectDB(ctx context.Context, cfg Config, logger *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(cfg.MongoMaxPoolSize).
		SetMinPoolSize(cfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Connect())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("conectando a MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("verificando MongoDB: %w", err)
	}

	logger.Info("MongoDB conectado",
		zap.String("database", cfg.MongoDatabase),
		zap.Uint64("max_pool", cfg.MongoMaxPoolSize))
	return client, client.Database(cfg.MongoDatabase), nil
}

// ConnectBlobStore builds the blob backend named by storage_type. The memory
// backend exists for local development and tests.
func ConnectBlobStore(ctx context.Context, cfg Config, logger *zap.Logger) (blobstore.Store, error) {
	switch cfg.StorageType {
	case "memory":
		logger.Warn("usando almacenamiento de blobs en memoria")
		return blobstore.NewMemory(), nil
	case "s3":
		return blobstore.NewS3(ctx, blobstore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			LinkTTL:   cfg.LinkTTL,
			Timeout:   cfg.S3Timeout,
		}, logger)
	}
	return nil, fmt.Errorf("storage_type desconocido: %q", cfg.StorageType)
}
