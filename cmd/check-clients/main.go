// Command check-clients verifies connectivity to the external services
// the backend depends on (Azure OpenAI and Blob Storage) using real
// credentials from the environment.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/saglikasistani/backend/internal/ai"
	"github.com/saglikasistani/backend/internal/storage"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	openaiEndpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
	openaiKey := os.Getenv("AZURE_OPENAI_API_KEY")
	openaiDeployment := os.Getenv("AZURE_OPENAI_DEPLOYMENT")

	storageAccountName := os.Getenv("AZURE_STORAGE_ACCOUNT_NAME")
	storageAccountKey := os.Getenv("AZURE_STORAGE_ACCOUNT_KEY")

	if openaiEndpoint == "" || openaiKey == "" || openaiDeployment == "" {
		logger.Fatal("Missing Azure OpenAI credentials. Set AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY, and AZURE_OPENAI_DEPLOYMENT")
	}
	if storageAccountName == "" || storageAccountKey == "" {
		logger.Fatal("Missing Azure Storage credentials. Set AZURE_STORAGE_ACCOUNT_NAME and AZURE_STORAGE_ACCOUNT_KEY")
	}

	ctx := context.Background()

	logger.Info("=== Testing AI client ===")
	if err := testAIClient(ctx, openaiEndpoint, openaiKey, openaiDeployment, logger); err != nil {
		logger.Error("AI client test failed", zap.Error(err))
	} else {
		logger.Info("AI client test passed")
	}

	logger.Info("=== Testing blob storage client ===")
	if err := testBlobClient(ctx, storageAccountName, storageAccountKey, logger); err != nil {
		logger.Error("Blob storage client test failed", zap.Error(err))
	} else {
		logger.Info("Blob storage client test passed")
	}

	logger.Info("=== All tests completed ===")
}

func testAIClient(ctx context.Context, endpoint, apiKey, deployment string, logger *zap.Logger) error {
	client, err := ai.NewClient(endpoint, apiKey, deployment, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	response, err := client.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage("You are a test assistant. Reply with exactly one word."),
		openai.UserMessage("Say OK."),
	})
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		return fmt.Errorf("empty completion response")
	}

	logger.Info("Completion received", zap.String("response", response))
	return nil
}

func testBlobClient(ctx context.Context, accountName, accountKey string, logger *zap.Logger) error {
	client, err := storage.NewBlobClient(accountName, accountKey, "analysis-images", "profile-photos", logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	payload := []byte("connectivity check " + time.Now().Format(time.RFC3339))
	path, err := client.UploadAnalysisImage(ctx, "connectivity-check", "probe.txt", "text/plain", payload)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	logger.Info("Uploaded probe blob", zap.String("path", path))

	downloaded, err := client.DownloadAnalysisImage(ctx, path)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	if string(downloaded) != string(payload) {
		return fmt.Errorf("downloaded content does not match upload")
	}

	if err := client.DeleteUserBlobs(ctx, "connectivity-check"); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	logger.Info("Blob roundtrip verified")
	return nil
}
