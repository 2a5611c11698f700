package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Document represents an uploaded source file.
// Documents are immutable after upload; deleting one cascades to its chunks.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// FileName is the original display name supplied at upload.
	FileName string

	// FilePath is where the uploaded bytes are stored.
	FilePath string

	// FileSize is the size of the stored file in bytes.
	FileSize int64

	// UploadedAt is when the document was uploaded.
	UploadedAt time.Time
}

// Extension returns the lower-cased file extension including the dot.
func (d Document) Extension() string {
	return FileExtension(d.FileName)
}

// FileExtension returns the lower-cased extension of name including the dot.
func FileExtension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Page is the extracted text of one page (PDF) or section (plain text).
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted text.
	Text string
}

// ExtractedDocument is the output of text extraction for one file.
type ExtractedDocument struct {
	// FileName is the display name of the source file.
	FileName string

	// TotalPages is the page count of the source, including empty pages.
	TotalPages int

	// Pages holds the non-empty pages in page order.
	Pages []Page
}
