package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"go.uber.org/zap"
)

// BlobClient wraps Azure Blob Storage SDK for image operations
type BlobClient struct {
	client           *azblob.Client
	imageContainer   string
	profileContainer string
	logger           *zap.Logger
}

// NewBlobClient creates a new Azure Blob Storage client
func NewBlobClient(accountName, accountKey, imageContainer, profileContainer string, logger *zap.Logger) (*BlobClient, error) {
	if accountName == "" || accountKey == "" || imageContainer == "" {
		return nil, fmt.Errorf("accountName, accountKey, and imageContainer are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobClient{
		client:           client,
		imageContainer:   imageContainer,
		profileContainer: profileContainer,
		logger:           logger,
	}, nil
}

// UploadAnalysisImage uploads a lab or imaging photo under the user's prefix.
func (c *BlobClient) UploadAnalysisImage(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	c.logger.Info("uploading analysis image to blob storage",
		zap.String("user_id", userID),
		zap.String("filename", filename),
		zap.Int("size_bytes", len(data)),
	)

	blobName := fmt.Sprintf("%s/%s", userID, filename)
	if err := c.upload(ctx, c.imageContainer, blobName, contentType, data); err != nil {
		return "", err
	}

	return blobName, nil
}

// DownloadAnalysisImage downloads a previously uploaded analysis image.
func (c *BlobClient) DownloadAnalysisImage(ctx context.Context, blobName string) ([]byte, error) {
	return c.download(ctx, c.imageContainer, blobName)
}

// UploadProfilePhoto uploads a user's profile photo, replacing any
// previous photo stored under the same name.
func (c *BlobClient) UploadProfilePhoto(ctx context.Context, userID, contentType string, photo io.Reader) (string, error) {
	data, err := io.ReadAll(photo)
	if err != nil {
		return "", fmt.Errorf("failed to read photo stream: %w", err)
	}

	c.logger.Info("uploading profile photo to blob storage",
		zap.String("user_id", userID),
		zap.Int("size_bytes", len(data)),
	)

	blobName := fmt.Sprintf("%s/photo", userID)
	if err := c.upload(ctx, c.profileContainer, blobName, contentType, data); err != nil {
		return "", err
	}

	return blobName, nil
}

// DownloadProfilePhoto downloads a user's profile photo.
func (c *BlobClient) DownloadProfilePhoto(ctx context.Context, blobName string) ([]byte, error) {
	return c.download(ctx, c.profileContainer, blobName)
}

// DeleteUserBlobs removes every blob stored under the user's prefix in
// both containers. Used by account deletion.
func (c *BlobClient) DeleteUserBlobs(ctx context.Context, userID string) error {
	for _, container := range []string{c.imageContainer, c.profileContainer} {
		containerClient := c.client.ServiceClient().NewContainerClient(container)
		prefix := userID + "/"

		pager := containerClient.NewListBlobsFlatPager(&azblob.ListBlobsFlatOptions{
			Prefix: &prefix,
		})
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return fmt.Errorf("failed to list blobs for user %s: %w", userID, err)
			}
			for _, item := range page.Segment.BlobItems {
				if item.Name == nil {
					continue
				}
				if _, err := c.client.DeleteBlob(ctx, container, *item.Name, nil); err != nil {
					return fmt.Errorf("failed to delete blob %s: %w", *item.Name, err)
				}
			}
		}
	}

	c.logger.Info("deleted user blobs", zap.String("user_id", userID))
	return nil
}

func (c *BlobClient) upload(ctx context.Context, container, blobName, contentType string, data []byte) error {
	blobClient := c.client.ServiceClient().NewContainerClient(container).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr(contentType),
		},
	})
	if err != nil {
		c.logger.Error("failed to upload blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return fmt.Errorf("failed to upload blob: %w", err)
	}

	return nil
}

func (c *BlobClient) download(ctx context.Context, container, blobName string) ([]byte, error) {
	blobClient := c.client.ServiceClient().NewContainerClient(container).NewBlockBlobClient(blobName)

	resp, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		c.logger.Error("failed to download blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob data: %w", err)
	}

	return data, nil
}

// toPtr is a helper function to convert a value to a pointer
func toPtr(s string) *string {
	return &s
}
