package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tabilog/tabilog/backend/internal/domain/providers"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

// UploadFile is one base64-encoded file in an upload request.
// Data may carry a data-URI prefix ("data:image/png;base64,...")
// which is stripped before decoding. Size and Type are client metadata;
// the actual size is measured from the decoded bytes.
type UploadFile struct {
	Name string `json:"name"`
	Data string `json:"base64Data"`
	Size int    `json:"size,omitempty"`
	Type string `json:"type,omitempty"`
}

// UploadResult describes the outcome for one uploaded file. Failures are
// reported per file so one bad payload does not reject the whole batch.
type UploadResult struct {
	FileName string `json:"fileName,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Size     int    `json:"size,omitempty"`
	Error    string `json:"error,omitempty"`
}

// UploadService decodes upload payloads and persists them via a FileStore
type UploadService struct {
	store        providers.FileStore
	maxFileBytes int
}

// NewUploadService creates a new upload service
func NewUploadService(store providers.FileStore, maxFileBytes int) *UploadService {
	return &UploadService{
		store:        store,
		maxFileBytes: maxFileBytes,
	}
}

// Save decodes and stores a single file
func (s *UploadService) Save(ctx context.Context, file UploadFile) (*providers.StoredFile, error) {
	if file.Name == "" {
		return nil, apperrors.NewValidationError("file name is required")
	}

	payload := file.Data
	if idx := strings.Index(payload, "base64,"); idx >= 0 {
		payload = payload[idx+len("base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperrors.NewValidationError("file data is not valid base64")
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("file data is empty")
	}
	if s.maxFileBytes > 0 && len(data) > s.maxFileBytes {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("file exceeds the maximum size of %d bytes", s.maxFileBytes))
	}

	return s.store.Save(ctx, file.Name, data)
}

// SaveAll stores every file in the batch, collecting per-file outcomes
func (s *UploadService) SaveAll(ctx context.Context, files []UploadFile) []UploadResult {
	results := make([]UploadResult, 0, len(files))
	for _, file := range files {
		stored, err := s.Save(ctx, file)
		if err != nil {
			msg := err.Error()
			if appErr, ok := apperrors.AsAppError(err); ok {
				msg = appErr.Message
			}
			results = append(results, UploadResult{FileName: file.Name, Error: msg})
			continue
		}
		results = append(results, UploadResult{
			FileName: stored.FileName,
			FilePath: stored.FilePath,
			Size:     stored.Size,
		})
	}
	return results
}
