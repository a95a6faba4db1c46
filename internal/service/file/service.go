package file

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

type FileService interface {
	// UploadSelfie decodes a base64 data URI and stores the image as
	// clock-in/out proof for the given employee and day.
	UploadSelfie(ctx context.Context, employeeID string, date time.Time, dataURI string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

var selfieExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadSelfie stores proof photos under selfies/{employeeID}/{date}/.
func (s *fileServiceImpl) UploadSelfie(ctx context.Context, employeeID string, date time.Time, dataURI string) (string, error) {
	contentType, data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	ext, ok := selfieExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("invalid selfie type %q: only jpeg, png, webp allowed", contentType)
	}

	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	path := filepath.Join("selfies", employeeID, date.Format("2006-01-02"), newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(data), path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload selfie: %w", err)
	}

	return uploadedPath, nil
}

// DeleteFile deletes a stored file.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL generates a URL to access a stored file.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// decodeDataURI parses a "data:<type>;base64,<payload>" URI.
func decodeDataURI(uri string) (contentType string, data []byte, err error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("selfie must be a base64 data URI")
	}

	meta, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found {
		return "", nil, fmt.Errorf("malformed data URI: missing payload")
	}

	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("malformed data URI: expected base64 encoding")
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode selfie payload: %w", err)
	}

	return contentType, data, nil
}
