package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-gh/internal/core/domain"
	"github.com/custodia-labs/sercha-gh/internal/logger"
)

func TestDocumentService(t *testing.T) {
	store := newMockDocumentStore()
	registry := NewIndexRegistry(store, logger.Discard(), 0)
	_, err := registry.Index(context.Background(), &mockFactory{docType: "github", docs: markdownDocs(3)})
	require.NoError(t, err)

	svc := NewDocumentService(store)
	ctx := context.Background()

	docs, err := svc.List(ctx, "github", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "docs/00.md", docs[0].Path)

	count, err := svc.Count(ctx, "github")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = svc.List(ctx, "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Count(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
