package storage

import (
	"context"
	"io"
)

// BlobStorage defines the interface for blob storage operations
// This interface allows for easier testing with mock implementations
type BlobStorage interface {
	UploadAnalysisImage(ctx context.Context, userID, filename, contentType string, data []byte) (string, error)
	DownloadAnalysisImage(ctx context.Context, blobName string) ([]byte, error)
	UploadProfilePhoto(ctx context.Context, userID, contentType string, photo io.Reader) (string, error)
	DownloadProfilePhoto(ctx context.Context, blobName string) ([]byte, error)
	DeleteUserBlobs(ctx context.Context, userID string) error
}

// Ensure BlobClient implements BlobStorage interface
var _ BlobStorage = (*BlobClient)(nil)
