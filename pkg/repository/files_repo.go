package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/payserv/payment-accounts/pkg/domain"
)

// FilesRepository handles stored-file metadata persistence.
type FilesRepository struct {
	db *sql.DB
}

// NewFilesRepository creates a new files repository.
func NewFilesRepository(db *sql.DB) *FilesRepository {
	return &FilesRepository{db: db}
}

// FilesByOwner retrieves all file records owned by a user.
func (r *FilesRepository) FilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.StoredFile, error) {
	query := `
		SELECT id, owner_id, file_name, storage_key, created_at
		FROM stored_files
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.StoredFile
	for rows.Next() {
		var f domain.StoredFile
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.FileName, &f.StorageKey, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, rows.Err()
}

// GetByID retrieves a file record scoped to its owner.
func (r *FilesRepository) GetByID(ctx context.Context, fileID string, ownerID uuid.UUID) (*domain.StoredFile, error) {
	query := `
		SELECT id, owner_id, file_name, storage_key, created_at
		FROM stored_files
		WHERE id = $1 AND owner_id = $2
	`
	f := &domain.StoredFile{}
	err := r.db.QueryRowContext(ctx, query, fileID, ownerID).Scan(
		&f.ID, &f.OwnerID, &f.FileName, &f.StorageKey, &f.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a file record scoped to its owner.
func (r *FilesRepository) Delete(ctx context.Context, fileID string, ownerID uuid.UUID) error {
	query := `DELETE FROM stored_files WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, fileID, ownerID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}
