package bootstrap

import (
	"context"

	"github.com/GoSim-25-26J-441/go-shop-backend/config"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/uploads/storage"
)

// OpenUploadStore picks S3 when a bucket is configured, otherwise the local
// upload directory. The second return is the directory to serve statically,
// empty for S3.
func OpenUploadStore(ctx context.Context, cfg config.UploadsConfig) (storage.Store, string, error) {
	if cfg.Bucket != "" {
		s, err := storage.NewS3Store(ctx, cfg.Bucket, cfg.Region)
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	}
	s, err := storage.NewLocalStore(cfg.Dir, cfg.PublicURL)
	if err != nil {
		return nil, "", err
	}
	return s, cfg.Dir, nil
}
