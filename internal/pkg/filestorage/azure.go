package filestorage

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/yigit/bazaar/internal/pkg/logger"
)

// AzureConfig holds the blob driver settings.
type AzureConfig struct {
	ConnectionString string
	Container        string
	PublicURL        string
	StageDir         string
}

// AzureStorage keeps pictures as blobs. Folders are key prefixes, so
// CreateFolder is a no-op and DeleteFolder removes every blob under the prefix.
type AzureStorage struct {
	client    *azblob.Client
	container string
	publicURL string
	stageDir  string
}

// NewAzureStorage creates the client and ensures the container exists.
func NewAzureStorage(ctx context.Context, cfg AzureConfig) (*AzureStorage, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	if _, err := client.CreateContainer(ctx, cfg.Container, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("create storage container %s: %w", cfg.Container, err)
		}
	}

	stageDir := cfg.StageDir
	if stageDir == "" {
		stageDir = os.TempDir()
	}
	if err := os.MkdirAll(stageDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create staging directory %s: %w", stageDir, err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(client.URL(), "/") + "/" + cfg.Container
	}

	logger.Info().Str("container", cfg.Container).Msg("Blob storage container ready")
	return &AzureStorage{
		client:    client,
		container: cfg.Container,
		publicURL: publicURL,
		stageDir:  stageDir,
	}, nil
}

func (a *AzureStorage) Stage(fileHeader *multipart.FileHeader) (StagedFile, error) {
	return stageUpload(a.stageDir, fileHeader)
}

func (a *AzureStorage) Discard(files ...StagedFile) {
	discardStaged(files...)
}

func (a *AzureStorage) CreateFolder(_ context.Context, folder string) error {
	_, err := CleanRelative(folder)
	return err
}

func (a *AzureStorage) MoveFile(ctx context.Context, file StagedFile, folder, name string) (string, error) {
	name = SafeFileName(name)
	if name == "" {
		return "", ErrInvalidPath
	}
	key, err := CleanRelative(Join(folder, name))
	if err != nil {
		return "", err
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return "", fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}
	if _, err := a.client.UploadStream(ctx, a.container, key, f, opts); err != nil {
		return "", fmt.Errorf("upload blob %s: %w", key, err)
	}

	discardStaged(file)
	return key, nil
}

func (a *AzureStorage) DeleteFolder(ctx context.Context, folder string) error {
	prefix, err := CleanRelative(folder)
	if err != nil {
		return err
	}
	prefix += "/"

	pager := a.client.NewListBlobsFlatPager(a.container, &azblob.ListBlobsFlatOptions{Prefix: &prefix})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list blobs under %s: %w", prefix, err)
		}
		if page.Segment == nil {
			continue
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			if err := a.deleteBlob(ctx, *item.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *AzureStorage) DeleteFile(ctx context.Context, filePath string) error {
	if filePath == "" {
		return nil
	}
	key, err := CleanRelative(filePath)
	if err != nil {
		return err
	}
	return a.deleteBlob(ctx, key)
}

func (a *AzureStorage) PublicURL(filePath string) string {
	return a.publicURL + "/" + strings.TrimLeft(filePath, "/")
}

func (a *AzureStorage) deleteBlob(ctx context.Context, key string) error {
	if _, err := a.client.DeleteBlob(ctx, a.container, key, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			logger.Warn().Str("key", key).Msg("Blob to delete does not exist")
			return nil
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}
