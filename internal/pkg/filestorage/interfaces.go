package filestorage

import (
	"context"
	"errors"
	"mime/multipart"
)

var (
	ErrInvalidPath = errors.New("invalid storage path")
	ErrNoFile      = errors.New("no file uploaded")
)

// StagedFile is an upload parked in the staging area until a service
// decides where it belongs.
type StagedFile struct {
	Path         string // location inside the staging area
	OriginalName string
	Size         int64
	ContentType  string
}

// FileStorage defines the picture store used by the lifecycle services.
// Folder and file paths are relative to the storage root, e.g. "ads/<id>".
type FileStorage interface {
	// Stage copies an upload into the staging area.
	Stage(fileHeader *multipart.FileHeader) (StagedFile, error)

	// Discard removes staged files that were never moved. Missing files are ignored.
	Discard(files ...StagedFile)

	// CreateFolder ensures folder exists.
	CreateFolder(ctx context.Context, folder string) error

	// MoveFile relocates a staged file to folder/name and returns the stored relative path.
	MoveFile(ctx context.Context, file StagedFile, folder, name string) (string, error)

	// DeleteFolder removes folder and everything under it. A missing folder is not an error.
	DeleteFolder(ctx context.Context, folder string) error

	// DeleteFile removes a single stored file. A missing file is not an error.
	DeleteFile(ctx context.Context, filePath string) error

	// PublicURL maps a stored relative path to the URL clients fetch it from.
	PublicURL(filePath string) string
}
