package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	infraconfig "github.com/erp/pos-reports/internal/infrastructure/config"
)

// NewArtifactStore builds the store selected by cfg.Driver.
// It returns nil for the "none" driver, which disables archival.
func NewArtifactStore(ctx context.Context, cfg *infraconfig.StorageConfig, logger *zap.Logger) (reportapp.ArtifactStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "", infraconfig.StorageDriverNone:
		return nil, nil
	case infraconfig.StorageDriverFilesystem:
		store, err := NewFileSystemArtifactStore(cfg.BasePath, cfg.BaseURL, WithFileSystemLogger(logger))
		if err != nil {
			return nil, err
		}
		return store, nil
	case infraconfig.StorageDriverS3:
		store, err := NewS3ArtifactStore(cfg, WithS3Logger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
