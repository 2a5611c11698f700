package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// documentRecord is the on-disk shape of one document.
type documentRecord struct {
	DocumentID string    `json:"document_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type metadataFile struct {
	Documents []documentRecord `json:"documents"`
}

// DocumentStore keeps document metadata in metadata.json.
type DocumentStore struct {
	mu   sync.RWMutex
	path string
	docs []documentRecord
}

// NewDocumentStore loads dataDir/metadata.json, starting empty if it is absent.
func NewDocumentStore(dataDir string) (*DocumentStore, error) {
	s := &DocumentStore{path: filepath.Join(dataDir, MetadataFileName)}

	var file metadataFile
	if err := readJSON(s.path, &file); err != nil {
		return nil, err
	}
	s.docs = file.Documents
	return s, nil
}

// Path returns the metadata file location.
func (s *DocumentStore) Path() string {
	return s.path
}

// SaveDocument stores or replaces a document record.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := toRecord(doc)
	next := slices.Clone(s.docs)
	if i := s.indexOf(doc.ID); i >= 0 {
		next[i] = rec
	} else {
		next = append(next, rec)
	}
	if err := writeJSON(s.path, metadataFile{Documents: next}); err != nil {
		return err
	}
	s.docs = next
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	doc := fromRecord(s.docs[i])
	return &doc, nil
}

// ListDocuments returns every document, oldest upload first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, len(s.docs))
	for i, rec := range s.docs {
		docs[i] = fromRecord(rec)
	}
	slices.SortStableFunc(docs, func(a, b domain.Document) int {
		if c := a.UploadedAt.Compare(b.UploadedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return docs, nil
}

// DeleteDocument removes a document record.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	next := slices.Delete(slices.Clone(s.docs), i, i+1)
	if err := writeJSON(s.path, metadataFile{Documents: next}); err != nil {
		return err
	}
	s.docs = next
	return nil
}

// indexOf returns the position of id or -1. Caller must hold the lock.
func (s *DocumentStore) indexOf(id string) int {
	return slices.IndexFunc(s.docs, func(r documentRecord) bool { return r.DocumentID == id })
}

func toRecord(doc *domain.Document) documentRecord {
	return documentRecord{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		FilePath:   doc.FilePath,
		FileSize:   doc.FileSize,
		UploadedAt: doc.UploadedAt.UTC(),
	}
}

func fromRecord(rec documentRecord) domain.Document {
	return domain.Document{
		ID:         rec.DocumentID,
		FileName:   rec.FileName,
		FilePath:   rec.FilePath,
		FileSize:   rec.FileSize,
		UploadedAt: rec.UploadedAt,
	}
}
