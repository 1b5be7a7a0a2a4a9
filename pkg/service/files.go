package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/payserv/payment-accounts/pkg/domain"
)

// FileMetadataStore extends FileStore with the per-file operations the
// file service needs. Implemented by repository.FilesRepository.
type FileMetadataStore interface {
	FileStore
	GetByID(ctx context.Context, fileID string, ownerID uuid.UUID) (*domain.StoredFile, error)
	Delete(ctx context.Context, fileID string, ownerID uuid.UUID) error
}

// FileService manages stored files: metadata rows in the database and
// blobs on local disk under a configured root directory.
type FileService struct {
	store  FileMetadataStore
	root   string
	logger *slog.Logger
}

// NewFileService creates a new file service.
func NewFileService(store FileMetadataStore, root string, logger *slog.Logger) *FileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileService{store: store, root: root, logger: logger}
}

// RemoveFile deletes a stored file's metadata and its blob. Safe to call
// concurrently for distinct files. A blob already gone from disk is not
// an error.
func (s *FileService) RemoveFile(ctx context.Context, fileID string, ownerID uuid.UUID) error {
	file, err := s.store.GetByID(ctx, fileID, ownerID)
	if errors.Is(err, domain.ErrFileNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, fileID, ownerID); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	path := filepath.Join(s.root, file.StorageKey)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		// The record is gone; an orphaned blob is cleaned up out of band.
		s.logger.Warn("failed to remove file blob", "file_id", fileID, "path", path, "error", err)
	}

	return nil
}
