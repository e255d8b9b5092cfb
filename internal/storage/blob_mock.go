package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// MockBlobClient is an in-memory implementation of BlobStorage for testing
type MockBlobClient struct {
	Storage map[string][]byte
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMockBlobClient creates a new mock blob storage client
func NewMockBlobClient(logger *zap.Logger) *MockBlobClient {
	return &MockBlobClient{
		Storage: make(map[string][]byte),
		logger:  logger,
	}
}

// UploadAnalysisImage stores an analysis image in memory
func (c *MockBlobClient) UploadAnalysisImage(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	blobName := fmt.Sprintf("%s/%s", userID, filename)
	c.Storage["images/"+blobName] = data

	if c.logger != nil {
		c.logger.Info("mock: analysis image uploaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return blobName, nil
}

// DownloadAnalysisImage retrieves an analysis image from memory
func (c *MockBlobClient) DownloadAnalysisImage(ctx context.Context, blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage["images/"+blobName]
	if !exists {
		return nil, fmt.Errorf("blob not found: %s", blobName)
	}
	return data, nil
}

// UploadProfilePhoto stores a profile photo in memory
func (c *MockBlobClient) UploadProfilePhoto(ctx context.Context, userID, contentType string, photo io.Reader) (string, error) {
	data, err := io.ReadAll(photo)
	if err != nil {
		return "", fmt.Errorf("failed to read photo stream: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	blobName := fmt.Sprintf("%s/photo", userID)
	c.Storage["photos/"+blobName] = data

	return blobName, nil
}

// DownloadProfilePhoto retrieves a profile photo from memory
func (c *MockBlobClient) DownloadProfilePhoto(ctx context.Context, blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, exists := c.Storage["photos/"+blobName]
	if !exists {
		return nil, fmt.Errorf("blob not found: %s", blobName)
	}
	return data, nil
}

// DeleteUserBlobs removes every stored blob for the user
func (c *MockBlobClient) DeleteUserBlobs(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.Storage {
		if strings.HasPrefix(key, "images/"+userID+"/") || strings.HasPrefix(key, "photos/"+userID+"/") {
			delete(c.Storage, key)
		}
	}
	return nil
}

// Ensure MockBlobClient implements BlobStorage interface
var _ BlobStorage = (*MockBlobClient)(nil)
