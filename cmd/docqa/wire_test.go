package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestOpenVectorIndex_Memory(t *testing.T) {
	idx, err := openVectorIndex(context.Background(),
		domain.VectorIndexSettings{Backend: domain.VectorBackendMemory}, nil, nil)

	require.NoError(t, err)
	assert.IsType(t, &memory.VectorIndex{}, idx)
}

func TestOpenVectorIndex_SQLiteSharesStore(t *testing.T) {
	dir := t.TempDir()
	opened := 0
	var store *sqlite.Store
	open := func() (*sqlite.Store, error) {
		opened++
		if store == nil {
			s, err := sqlite.NewStore(dir)
			if err != nil {
				return nil, err
			}
			store = s
		}
		return store, nil
	}

	idx, err := openVectorIndex(context.Background(),
		domain.VectorIndexSettings{Backend: domain.VectorBackendSQLite}, nil, open)

	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Equal(t, 1, opened)
	require.NoError(t, store.Close())
}

func TestOpenVectorIndex_Unknown(t *testing.T) {
	_, err := openVectorIndex(context.Background(),
		domain.VectorIndexSettings{Backend: "faiss"}, nil, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPromptDir(t *testing.T) {
	assert.Empty(t, promptDir(""))
	assert.Equal(t, filepath.Join("cfg", "prompts"), promptDir("cfg"))
}

func TestPipelineClose_ReverseOrder(t *testing.T) {
	var order []int
	p := &pipeline{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return nil },
		func() error { order = append(order, 3); return nil },
	}}

	p.Close()

	assert.Equal(t, []int{3, 2, 1}, order)
}
