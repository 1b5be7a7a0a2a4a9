package domain

import (
	"time"

	"github.com/google/uuid"
)

// StoredFile represents a file owned by a user in the storage subsystem.
type StoredFile struct {
	ID         string
	OwnerID    uuid.UUID
	FileName   string
	StorageKey string
	CreatedAt  time.Time
}
