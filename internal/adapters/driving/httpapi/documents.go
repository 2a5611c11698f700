package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

type uploadResponse struct {
	Message   string         `json:"message"`
	Files     []string       `json:"files"`
	Documents []documentJSON `json:"documents"`
}

type documentListResponse struct {
	Documents []documentJSON `json:"documents"`
	Count     int            `json:"count"`
}

type deleteResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleUpload accepts one or more files in the "file" (or "files") form
// field. Every extension is checked before anything is stored.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "Expected a multipart form with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	headers := slices.Concat(r.MultipartForm.File["file"], r.MultipartForm.File["files"])
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "No files provided")
		return
	}

	supported := s.svc.Documents.SupportedExtensions()
	for _, fh := range headers {
		ext := domain.FileExtension(fh.Filename)
		if !slices.Contains(supported, ext) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf(
				"Unsupported file format: %s. Supported formats: %s", ext, strings.Join(supported, ", ")))
			return
		}
	}

	resp := uploadResponse{
		Files:     make([]string, 0, len(headers)),
		Documents: make([]documentJSON, 0, len(headers)),
	}
	chunks := 0
	for _, fh := range headers {
		doc, result, err := s.uploadOne(r, fh)
		if err != nil {
			logger.Error("Upload of %s failed: %v", fh.Filename, err)
			status := statusFor(err)
			if status == http.StatusServiceUnavailable || errors.Is(err, domain.ErrIngestion) {
				status = http.StatusInternalServerError
			}
			writeError(w, status, fmt.Sprintf("Failed to upload/process %s: %v", fh.Filename, err))
			return
		}
		resp.Files = append(resp.Files, doc.FileName)
		resp.Documents = append(resp.Documents, toDocumentJSON(*doc))
		chunks += result.ChunksCreated
	}

	resp.Message = fmt.Sprintf(
		"Successfully uploaded and processed %d/%d file(s). Created %d searchable chunks. "+
			"Documents are now ready for RAG queries.",
		len(resp.Files), len(headers), chunks)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) uploadOne(r *http.Request, fh *multipart.FileHeader) (*domain.Document, domain.IngestResult, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, domain.IngestResult{}, fmt.Errorf("read upload: %w", err)
	}
	defer f.Close()

	return s.svc.Documents.Upload(r.Context(), fh.Filename, f)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.svc.Documents.List(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	out := make([]documentJSON, len(docs))
	for i, d := range docs {
		out[i] = toDocumentJSON(d)
	}
	writeJSON(w, http.StatusOK, documentListResponse{Documents: out, Count: len(out)})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := s.svc.Documents.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document not found: "+id)
			return
		}
		writeError(w, statusFor(err), err.Error())
		return
	}

	if err := s.svc.Documents.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting document: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{
		Message:    "Document deleted successfully: " + doc.FileName,
		DocumentID: id,
	})
}

func (s *Server) handleDocumentFile(w http.ResponseWriter, r *http.Request) {
	rc, doc, err := s.svc.Documents.Open(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document not found")
			return
		}
		writeError(w, statusFor(err), err.Error())
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType(doc.FileName))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": doc.FileName}))
	if _, err := io.Copy(w, rc); err != nil {
		logger.Warn("Failed to stream %s: %v", doc.ID, err)
	}
}

func contentType(name string) string {
	switch domain.FileExtension(name) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
