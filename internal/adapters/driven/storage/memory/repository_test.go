package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_CommitGroupsStagedPaths(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	require.NoError(t, repo.Ensure(ctx))
	require.NoError(t, repo.Stage(ctx, "a.md"))
	require.NoError(t, repo.Stage(ctx, "b.md"))
	require.NoError(t, repo.Commit(ctx, "Updated"))

	commits := repo.Commits()
	require.Len(t, commits, 1)
	assert.Equal(t, []string{"a.md", "b.md"}, commits[0].Paths)
	assert.Empty(t, repo.Staged())
	assert.Equal(t, 1, repo.Ensured())
}

func TestRepository_Err(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	repo := &Repository{Err: boom}

	assert.ErrorIs(t, repo.Ensure(ctx), boom)
	assert.ErrorIs(t, repo.Stage(ctx, "a.md"), boom)
	assert.ErrorIs(t, repo.Commit(ctx, "m"), boom)
	assert.Empty(t, repo.Commits())
}
