package providers

import "context"

// StoredFile describes a file persisted by a FileStore
type StoredFile struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	Size     int    `json:"size"`
}

// FileStore defines the write-bytes-to-path interface for uploaded files
type FileStore interface {
	// Save writes data under a collision-free name derived from name and
	// returns the stored file metadata.
	Save(ctx context.Context, name string, data []byte) (*StoredFile, error)
}
