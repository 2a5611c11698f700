package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages uploaded documents and keeps metadata, stored
// files and index entries consistent.
type DocumentService struct {
	docStore    driven.DocumentStore
	files       driven.FileStore
	normalisers driven.NormaliserRegistry
	ingestion   driving.IngestionService
	index       driven.VectorIndex
	now         func() time.Time
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	docStore driven.DocumentStore,
	files driven.FileStore,
	normalisers driven.NormaliserRegistry,
	ingestion driving.IngestionService,
	index driven.VectorIndex,
) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		files:       files,
		normalisers: normalisers,
		ingestion:   ingestion,
		index:       index,
		now:         time.Now,
	}
}

// Upload stores, extracts and indexes a file.
//
//nolint:gocognit // Pipeline orchestration with sequential steps
func (s *DocumentService) Upload(
	ctx context.Context, fileName string, r io.Reader,
) (*domain.Document, domain.IngestResult, error) {
	fileName = filepath.Base(strings.TrimSpace(fileName))
	result := domain.IngestResult{FileName: fileName}

	if s.docStore == nil || s.files == nil || s.normalisers == nil || s.ingestion == nil {
		return nil, result, domain.ErrNotImplemented
	}

	// 1. VALIDATE FILE TYPE (before any storage work)
	if fileName == "" || fileName == "." {
		return nil, result, fmt.Errorf("%w: file name is required", domain.ErrInvalidInput)
	}
	normaliser, err := s.normalisers.For(fileName)
	if err != nil {
		return nil, result, err
	}

	// 2. STORE FILE as {id}{ext}
	doc := &domain.Document{
		ID:         uuid.New().String(),
		FileName:   fileName,
		UploadedAt: s.now().UTC(),
	}
	doc.FilePath, doc.FileSize, err = s.files.Put(ctx, doc.ID+domain.FileExtension(fileName), r)
	if err != nil {
		return nil, result, fmt.Errorf("store file: %w", err)
	}

	// 3. SAVE METADATA
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		s.removeFile(ctx, doc.FilePath)
		return nil, result, fmt.Errorf("save document: %w", err)
	}
	logger.Info("Stored %s as %s (%d bytes)", fileName, doc.ID, doc.FileSize)

	// 4. EXTRACT TEXT
	extracted, err := normaliser.Normalise(ctx, doc.FilePath, fileName)
	if err != nil {
		result = ingestFailure(fileName, doc.ID, err)
	} else {
		// 5. CHUNK, EMBED AND INDEX
		result = s.ingestion.Ingest(ctx, extracted, doc.ID)
	}

	// 6. ROLL BACK METADATA AND FILE ON FAILURE
	if !result.Success {
		s.rollbackUpload(ctx, doc)
		return nil, result, fmt.Errorf("%w: %s", domain.ErrIngestion, result.Error)
	}
	return doc, result, nil
}

// UploadBatch uploads local files one at a time. A failing file is reported
// in its own result and does not stop the rest.
func (s *DocumentService) UploadBatch(ctx context.Context, paths []string) []domain.IngestResult {
	results := make([]domain.IngestResult, 0, len(paths))
	succeeded := 0

	for _, path := range paths {
		result := s.uploadPath(ctx, path)
		if result.Success {
			succeeded++
		}
		results = append(results, result)
	}

	logger.Info("Batch processing complete: %d/%d successful", succeeded, len(results))
	return results
}

func (s *DocumentService) uploadPath(ctx context.Context, path string) domain.IngestResult {
	name := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return ingestFailure(name, "", fmt.Errorf("%w: %w", domain.ErrExtraction, err))
	}
	defer f.Close()

	_, result, err := s.Upload(ctx, name, f)
	if err != nil && result.Error == "" {
		return ingestFailure(name, "", err)
	}
	return result
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetDocument(ctx, id)
}

// Exists reports whether a document exists.
func (s *DocumentService) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Open returns the stored file of a document. The caller closes the reader.
func (s *DocumentService) Open(ctx context.Context, id string) (io.ReadCloser, *domain.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.files == nil {
		return nil, nil, domain.ErrNotImplemented
	}

	rc, err := s.files.Open(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open file for %s: %w", id, err)
	}
	return rc, doc, nil
}

// Delete removes a document's index entries, then its metadata, then its
// stored file. Metadata is kept when index cleanup fails so the delete can
// be retried.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	// 1. DELETE FROM VECTOR INDEX
	if s.index != nil {
		removed, err := s.index.DeleteWhere(ctx, driven.ForDocuments(id))
		if err != nil {
			return fmt.Errorf("delete index entries: %w", err)
		}
		logger.Debug("Removed %d index entries for %s", removed, id)
	}

	// 2. DELETE METADATA
	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	// 3. DELETE STORED FILE
	s.removeFile(ctx, doc.FilePath)

	logger.Info("Deleted document %s (%s)", id, doc.FileName)
	return nil
}

// SupportedExtensions lists the accepted upload extensions.
func (s *DocumentService) SupportedExtensions() []string {
	if s.normalisers == nil {
		return nil
	}
	return s.normalisers.Extensions()
}

// rollbackUpload removes the metadata and stored file of a failed upload.
func (s *DocumentService) rollbackUpload(ctx context.Context, doc *domain.Document) {
	if err := s.docStore.DeleteDocument(ctx, doc.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Error("Rollback of metadata for %s failed: %v", doc.ID, err)
	}
	s.removeFile(ctx, doc.FilePath)
	logger.Warn("Rolled back upload of %s", doc.FileName)
}

func (s *DocumentService) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.files.Remove(ctx, path); err != nil {
		logger.Warn("Failed to remove stored file %s: %v", path, err)
	}
}
