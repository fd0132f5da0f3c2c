package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/ebd-admin/ebd-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	assert.False(t, repo.Enabled())
	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "ebd:dashboard:2024-03-03", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "ebd:dashboard:2024-03-03", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "ebd:dashboard:2024-03-03"))
	assert.NoError(t, repo.DeleteByPattern(ctx, "ebd:dashboard:*"))
	assert.NoError(t, repo.Close())
}
