package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/payserv/payment-accounts/pkg/domain"
)

type fakeFileMetadataStore struct {
	mu    sync.Mutex
	files map[string]domain.StoredFile
}

func newFakeFileMetadataStore(files ...domain.StoredFile) *fakeFileMetadataStore {
	s := &fakeFileMetadataStore{files: make(map[string]domain.StoredFile)}
	for _, f := range files {
		s.files[f.ID] = f
	}
	return s
}

func (s *fakeFileMetadataStore) FilesByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var owned []domain.StoredFile
	for _, f := range s.files {
		if f.OwnerID == ownerID {
			owned = append(owned, f)
		}
	}
	return owned, nil
}

func (s *fakeFileMetadataStore) GetByID(_ context.Context, fileID string, ownerID uuid.UUID) (*domain.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[fileID]
	if !ok || f.OwnerID != ownerID {
		return nil, domain.ErrFileNotFound
	}
	return &f, nil
}

func (s *fakeFileMetadataStore) Delete(_ context.Context, fileID string, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[fileID]
	if !ok || f.OwnerID != ownerID {
		return domain.ErrFileNotFound
	}
	delete(s.files, fileID)
	return nil
}

func TestFileService_RemoveFile(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("removes record and blob", func(t *testing.T) {
		root := t.TempDir()
		blob := filepath.Join(root, "invoice.pdf")
		if err := os.WriteFile(blob, []byte("data"), 0o600); err != nil {
			t.Fatal(err)
		}

		store := newFakeFileMetadataStore(domain.StoredFile{
			ID: "f1", OwnerID: owner, StorageKey: "invoice.pdf",
		})
		svc := NewFileService(store, root, testLogger())

		if err := svc.RemoveFile(ctx, "f1", owner); err != nil {
			t.Fatalf("RemoveFile() error = %v", err)
		}
		if _, err := store.GetByID(ctx, "f1", owner); err == nil {
			t.Error("file record still present")
		}
		if _, err := os.Stat(blob); !os.IsNotExist(err) {
			t.Error("blob still present on disk")
		}
	})

	t.Run("missing record is not an error", func(t *testing.T) {
		svc := NewFileService(newFakeFileMetadataStore(), t.TempDir(), testLogger())
		if err := svc.RemoveFile(ctx, "ghost", owner); err != nil {
			t.Errorf("RemoveFile() error = %v, want nil", err)
		}
	})

	t.Run("wrong owner is treated as missing", func(t *testing.T) {
		store := newFakeFileMetadataStore(domain.StoredFile{
			ID: "f1", OwnerID: owner, StorageKey: "invoice.pdf",
		})
		svc := NewFileService(store, t.TempDir(), testLogger())

		if err := svc.RemoveFile(ctx, "f1", uuid.New()); err != nil {
			t.Errorf("RemoveFile() error = %v, want nil", err)
		}
		if _, err := store.GetByID(ctx, "f1", owner); err != nil {
			t.Error("file record removed despite owner mismatch")
		}
	})

	t.Run("blob already gone", func(t *testing.T) {
		store := newFakeFileMetadataStore(domain.StoredFile{
			ID: "f1", OwnerID: owner, StorageKey: "missing.pdf",
		})
		svc := NewFileService(store, t.TempDir(), testLogger())

		if err := svc.RemoveFile(ctx, "f1", owner); err != nil {
			t.Errorf("RemoveFile() error = %v, want nil", err)
		}
	})
}
