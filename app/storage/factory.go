package storage

import (
	"context"
	"fmt"

	"github.com/rakadenta/wholesale-catalog/app/configs"
)

// FromEnv picks the blob store from configuration: S3 when a bucket is
// configured, the local-disk store otherwise.
func FromEnv(ctx context.Context, env configs.ENV) (Storage, error) {
	if env.S3Bucket != "" {
		if env.S3Region == "" || env.S3PublicURL == "" {
			return nil, fmt.Errorf("S3 config incomplete: S3_REGION and S3_PUBLIC_URL are required with S3_BUCKET")
		}
		return NewS3(ctx, S3Config{
			Region:        env.S3Region,
			Bucket:        env.S3Bucket,
			Prefix:        env.S3Prefix,
			PublicBaseURL: env.S3PublicURL,
		})
	}

	baseDir := env.LocalBlobDir
	if baseDir == "" {
		baseDir = "./storage/uploads"
	}
	urlPrefix := env.LocalBlobBase
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return NewLocal(baseDir, urlPrefix), nil
}
