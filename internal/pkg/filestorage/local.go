package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/bazaar/internal/pkg/logger"
)

// LocalStorage keeps pictures on the local filesystem under basePath.
type LocalStorage struct {
	basePath string
	stageDir string
	baseURL  string
}

// NewLocalStorage creates the storage root and its staging folder.
// baseURL is optional; when set, PublicURL prefixes stored paths with it.
func NewLocalStorage(basePath, stageFolder, baseURL string) (*LocalStorage, error) {
	if stageFolder == "" {
		stageFolder = "tmp"
	}
	stageDir := filepath.Join(basePath, stageFolder)
	if err := os.MkdirAll(stageDir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", stageDir).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", stageDir, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		stageDir: stageDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the storage root, used for static file serving.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

func (ls *LocalStorage) Stage(fileHeader *multipart.FileHeader) (StagedFile, error) {
	return stageUpload(ls.stageDir, fileHeader)
}

func (ls *LocalStorage) Discard(files ...StagedFile) {
	discardStaged(files...)
}

func (ls *LocalStorage) CreateFolder(_ context.Context, folder string) error {
	dir, err := ls.resolve(folder)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create folder")
		return fmt.Errorf("failed to create folder %s: %w", folder, err)
	}
	return nil
}

func (ls *LocalStorage) MoveFile(_ context.Context, file StagedFile, folder, name string) (string, error) {
	name = SafeFileName(name)
	if name == "" {
		return "", ErrInvalidPath
	}
	rel, err := CleanRelative(Join(folder, name))
	if err != nil {
		return "", err
	}
	dst := filepath.Join(ls.basePath, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create folder for %s: %w", rel, err)
	}

	if err := os.Rename(file.Path, dst); err != nil {
		// Rename fails across filesystems; fall back to copy and remove.
		if cerr := copyFile(file.Path, dst); cerr != nil {
			logger.Error().Err(cerr).Str("from", file.Path).Str("to", dst).Msg("Failed to move staged file")
			return "", fmt.Errorf("failed to move file to %s: %w", rel, cerr)
		}
		_ = os.Remove(file.Path)
	}

	logger.Debug().Str("filename", file.OriginalName).Str("path", rel).Msg("File moved into place")
	return rel, nil
}

func (ls *LocalStorage) DeleteFolder(_ context.Context, folder string) error {
	dir, err := ls.resolve(folder)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to delete folder")
		return fmt.Errorf("failed to delete folder %s: %w", folder, err)
	}
	logger.Info().Str("path", dir).Msg("Folder deleted")
	return nil
}

func (ls *LocalStorage) DeleteFile(_ context.Context, filePath string) error {
	if filePath == "" {
		return nil
	}
	physicalPath, err := ls.resolve(filePath)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

func (ls *LocalStorage) PublicURL(filePath string) string {
	if ls.baseURL == "" {
		return "/" + strings.TrimLeft(filePath, "/")
	}
	return ls.baseURL + "/" + strings.TrimLeft(filePath, "/")
}

func (ls *LocalStorage) resolve(rel string) (string, error) {
	cleaned, err := CleanRelative(rel)
	if err != nil {
		return "", err
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(cleaned)), nil
}

func stageUpload(stageDir string, fileHeader *multipart.FileHeader) (StagedFile, error) {
	if fileHeader == nil {
		return StagedFile{}, ErrNoFile
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return StagedFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dstPath := filepath.Join(stageDir, uuid.New().String()+filepath.Ext(fileHeader.Filename))
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create staging file")
		return StagedFile{}, fmt.Errorf("failed to create staging file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(dstPath)
		return StagedFile{}, fmt.Errorf("failed to save file content: %w", err)
	}

	return StagedFile{
		Path:         dstPath,
		OriginalName: fileHeader.Filename,
		Size:         written,
		ContentType:  fileHeader.Header.Get("Content-Type"),
	}, nil
}

func discardStaged(files ...StagedFile) {
	for _, f := range files {
		if f.Path == "" {
			continue
		}
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Str("path", f.Path).Msg("Failed to discard staged file")
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
