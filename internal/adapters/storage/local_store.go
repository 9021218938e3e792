package storage

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tabilog/tabilog/backend/internal/domain/providers"
	apperrors "github.com/tabilog/tabilog/backend/pkg/errors"
)

// LocalStore implements the FileStore interface on the local filesystem
type LocalStore struct {
	contentDir string
}

// NewLocalStore creates a new local file store rooted at contentDir
func NewLocalStore(contentDir string) (*LocalStore, error) {
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create content directory %s: %w", contentDir, err)
	}
	return &LocalStore{contentDir: contentDir}, nil
}

var _ providers.FileStore = (*LocalStore)(nil)

// Save writes data under a collision-free name derived from name.
// Stored names follow {unixMillis}_{base36}_{sanitizedName}, which is
// unique in practice without any coordination.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (*providers.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sanitized := sanitizeFileName(name)
	if sanitized == "" {
		return nil, apperrors.NewValidationError("file name is required")
	}

	fileName := fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), randomBase36(), sanitized)
	fullPath := filepath.Join(s.contentDir, fileName)

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return nil, apperrors.NewInternalError("failed to write uploaded file", err)
	}

	return &providers.StoredFile{
		FileName: fileName,
		FilePath: fullPath,
		Size:     len(data),
	}, nil
}

// sanitizeFileName strips any directory components and characters that
// would be unsafe in a stored name.
func sanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), ".")
}

func randomBase36() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback keeps the timestamp prefix as the uniqueness source
		return strconv.FormatInt(time.Now().UnixNano()%1679616, 36)
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(buf[:])%2821109907456, 36)
}
