package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/kanban-api/internal/domain"
)

func newTestCache(t *testing.T) (*BoardCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewBoardCache(client, time.Minute, nil), mr
}

func newCachedBoard(t *testing.T) *domain.Board {
	t.Helper()
	board, err := domain.NewBoard(uuid.New(), "Cached Board")
	require.NoError(t, err)
	_, err = board.AddTask(domain.Task{Title: "cached task"})
	require.NoError(t, err)
	return board
}

func TestBoardCacheRoundTrip(t *testing.T) {
	t.Parallel()
	cache, _ := newTestCache(t)
	ctx := context.Background()
	board := newCachedBoard(t)

	// Miss before set
	_, ok := cache.Get(ctx, board.ID)
	assert.False(t, ok)

	cache.Set(ctx, board)

	got, ok := cache.Get(ctx, board.ID)
	require.True(t, ok)
	assert.Equal(t, board.ID, got.ID)
	assert.Equal(t, board.Name, got.Name)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "cached task", got.Tasks[0].Title)
	assert.Equal(t, board.StatusCounts, got.StatusCounts)
}

func TestBoardCacheInvalidate(t *testing.T) {
	t.Parallel()
	cache, _ := newTestCache(t)
	ctx := context.Background()
	board := newCachedBoard(t)

	cache.Set(ctx, board)
	cache.Invalidate(ctx, board.ID)

	_, ok := cache.Get(ctx, board.ID)
	assert.False(t, ok)
}

func TestBoardCacheTTL(t *testing.T) {
	t.Parallel()
	cache, mr := newTestCache(t)
	ctx := context.Background()
	board := newCachedBoard(t)

	cache.Set(ctx, board)
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, board.ID)
	assert.False(t, ok)
}

func TestBoardCacheCorruptEntry(t *testing.T) {
	t.Parallel()
	cache, mr := newTestCache(t)
	ctx := context.Background()
	boardID := uuid.New()

	require.NoError(t, mr.Set(boardKeyPrefix+boardID.String(), "{not json"))

	// Corrupt entries read as misses and are dropped
	_, ok := cache.Get(ctx, boardID)
	assert.False(t, ok)
	assert.False(t, mr.Exists(boardKeyPrefix+boardID.String()))
}

func TestNilBoardCacheIsNoOp(t *testing.T) {
	t.Parallel()
	var cache *BoardCache
	ctx := context.Background()
	board := newCachedBoard(t)

	// All operations on a nil cache are safe no-ops
	cache.Set(ctx, board)
	_, ok := cache.Get(ctx, board.ID)
	assert.False(t, ok)
	cache.Invalidate(ctx, board.ID)
}

func TestBoardCacheServerDown(t *testing.T) {
	t.Parallel()
	cache, mr := newTestCache(t)
	ctx := context.Background()
	board := newCachedBoard(t)

	mr.Close()

	// Failures are logged, never surfaced
	cache.Set(ctx, board)
	_, ok := cache.Get(ctx, board.ID)
	assert.False(t, ok)
	cache.Invalidate(ctx, board.ID)
}
