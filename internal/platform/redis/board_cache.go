// Package redis provides an optional Redis-backed cache for board
// aggregates. Cache failures are logged and otherwise ignored so the
// database remains the source of truth.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
)

const boardKeyPrefix = "board:"

// BoardCache caches serialized board aggregates by ID with a TTL.
// A nil *BoardCache is a valid no-op cache, which keeps call sites free of
// enabled/disabled branching.
type BoardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewBoardCache creates a cache backed by the given client.
// If logger is nil, a default logger will be used.
func NewBoardCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *BoardCache {
	if client == nil {
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &BoardCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "board_cache")),
	}
}

// Get returns the cached board for id, or (nil, false) on a miss.
// Decode failures are treated as misses and the stale entry is dropped.
func (c *BoardCache) Get(ctx context.Context, id uuid.UUID) (*domain.Board, bool) {
	if c == nil {
		return nil, false
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	data, err := c.client.Get(ctx, boardKeyPrefix+id.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("board cache read failed",
				slog.String("error", err.Error()),
				slog.String("board_id", id.String()))
		}
		return nil, false
	}

	var board domain.Board
	if err := json.Unmarshal(data, &board); err != nil {
		log.Warn("board cache entry corrupt, dropping",
			slog.String("error", err.Error()),
			slog.String("board_id", id.String()))
		c.Invalidate(ctx, id)
		return nil, false
	}

	return &board, true
}

// Set stores the board under its ID for the configured TTL.
func (c *BoardCache) Set(ctx context.Context, board *domain.Board) {
	if c == nil || board == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	data, err := json.Marshal(board)
	if err != nil {
		log.Warn("failed to encode board for cache",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
		return
	}

	if err := c.client.Set(ctx, boardKeyPrefix+board.ID.String(), data, c.ttl).Err(); err != nil {
		log.Warn("board cache write failed",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
	}
}

// Invalidate removes the cached entry for id. Callers invoke this after
// every aggregate mutation so readers never see a stale document beyond
// the TTL window.
func (c *BoardCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if c == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	if err := c.client.Del(ctx, boardKeyPrefix+id.String()).Err(); err != nil {
		log.Warn("board cache invalidation failed",
			slog.String("error", err.Error()),
			slog.String("board_id", id.String()))
	}
}
