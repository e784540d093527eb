package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mert/lectern/internal/pkg/logger"
)

// MaxUploadSize is the largest accepted upload in bytes
const MaxUploadSize = 5 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ErrUnsupportedFileType is returned for uploads that are not images
var ErrUnsupportedFileType = fmt.Errorf("unsupported file type, expected jpg, png or webp")

// ErrFileTooLarge is returned for uploads exceeding MaxUploadSize
var ErrFileTooLarge = fmt.Errorf("file exceeds the maximum size of %d bytes", MaxUploadSize)

// LocalStorage stores uploaded files on the local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a LocalStorage rooted at basePath. baseURL, when
// set, is prepended to the returned file paths.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
	}, nil
}

// SaveFile validates and stores an uploaded image under subPath, naming it
// with a fresh UUID to avoid collisions.
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	if fileHeader.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return "", ErrUnsupportedFileType
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dirPath := ls.basePath
	if subPath != "" {
		dirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	filename := uuid.New().String() + ext
	dstPath := filepath.Join(dirPath, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	accessiblePath := storedPath(subPath, filename, ls.baseURL)
	logger.Info().Str("filename", fileHeader.Filename).Str("savedAs", accessiblePath).Msg("File saved")
	return accessiblePath, nil
}

func storedPath(subPath, filename, baseURL string) string {
	parts := []string{}
	if baseURL != "" {
		parts = append(parts, strings.TrimRight(baseURL, "/"))
	} else {
		parts = append(parts, "uploads")
	}
	if subPath != "" {
		parts = append(parts, subPath)
	}
	parts = append(parts, filename)
	return strings.Join(parts, "/")
}

// DeleteFile removes a stored file given the path returned by SaveFile.
// Missing files are treated as already deleted.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if filePath == "" {
		return nil
	}

	trimmed := strings.TrimPrefix(filePath, strings.TrimRight(ls.baseURL, "/")+"/")
	trimmed = strings.TrimPrefix(trimmed, "uploads/")

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(trimmed))

	rel, err := filepath.Rel(ls.basePath, physicalPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("invalid file path: %s", filePath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
