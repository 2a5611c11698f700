package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileExtension(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"pdf", "report.pdf", ".pdf"},
		{"upper case", "NOTES.TXT", ".txt"},
		{"no extension", "README", ""},
		{"multiple dots", "archive.v2.Pdf", ".pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FileExtension(tt.input))
		})
	}
}

func TestDocument_Extension(t *testing.T) {
	doc := Document{ID: "doc-1", FileName: "Guide.PDF"}
	assert.Equal(t, ".pdf", doc.Extension())
}
