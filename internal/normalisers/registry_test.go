package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestDefaultRegistry_Extensions(t *testing.T) {
	r := NewDefaultRegistry()

	assert.Equal(t, []string{".pdf", ".txt"}, r.Extensions())
}

func TestRegistry_For(t *testing.T) {
	r := NewDefaultRegistry()

	n, err := r.For("Report.PDF")
	require.NoError(t, err)
	assert.Contains(t, n.SupportedExtensions(), ".pdf")

	n, err = r.For("notes.txt")
	require.NoError(t, err)
	assert.Contains(t, n.SupportedExtensions(), ".txt")
}

func TestRegistry_UnsupportedType(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.For("slides.pptx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.False(t, r.Supports("slides.pptx"))
	assert.False(t, r.Supports("no-extension"))
	assert.True(t, r.Supports("a.txt"))
}

func TestRegistry_Empty(t *testing.T) {
	r := NewRegistry()

	assert.Empty(t, r.Extensions())
	_, err := r.For("a.pdf")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}
