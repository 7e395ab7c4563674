package storage

import (
	"context"

	"github.com/bizlink/bizlink-admin/internal/config"
	"github.com/bizlink/bizlink-admin/pkg/logger"
)

// FromConfig returns MinIO storage when an endpoint is configured and local
// disk storage otherwise.
func FromConfig(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	if cfg.MinIOEndpoint == "" {
		logger.Infof("storage: MINIO_ENDPOINT not set, writing uploads to %s", cfg.LocalDir)
		return NewLocalStore(cfg.LocalDir, cfg.PublicPrefix)
	}
	logger.Infof("storage: using MinIO bucket %s at %s", cfg.MinIOBucket, cfg.MinIOEndpoint)
	return NewMinIOStore(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, cfg.PresignTTL)
}
