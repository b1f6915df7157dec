/*
Package storage offloads inline image data URLs to S3-compatible object storage.

Generated frame renders and admin-uploaded content images arrive as base64
data URLs. When object storage is configured, the service decodes them,
uploads the bytes, and hands back a presigned download URL so documents can
reference a compact link instead of megabytes of inline base64.
*/
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// DownloadExpiry is how long presigned download links stay valid.
const DownloadExpiry = 7 * 24 * time.Hour

// Service defines the public interface for the asset offload service.
type Service interface {
	// UploadDataURL decodes an image data URL, stores the bytes under the
	// given key, and returns a presigned download URL for the object.
	UploadDataURL(ctx context.Context, key string, dataURL string) (string, error)

	// PresignDownload generates a pre-signed URL for downloading an object.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object stored under the given key.
	Delete(ctx context.Context, key string) error
}

// NewService is the factory function for Service.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewService(cfg ServiceConfig) (Service, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
