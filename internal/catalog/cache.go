// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/cinevault/internal/platform/constants"
)

// MovieCache is a Redis-backed read-through cache for the movie detail
// projection. Reaction writes invalidate entries so cached like/dislike
// counts stay fresh within one miss.
type MovieCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMovieCache creates a movie-detail cache with the given entry TTL.
func NewMovieCache(client *redis.Client, ttl time.Duration) *MovieCache {
	return &MovieCache{client: client, ttl: ttl}
}

// key builds the namespaced cache key for a movie id.
func (cache *MovieCache) key(movieID int64) string {
	return fmt.Sprintf("%s%d", constants.RedisPrefixMovie, movieID)
}

/*
Get returns the cached projection for a movie, or nil on a miss.

Description: A miss (redis.Nil) and a corrupt entry are both reported as
(nil, nil) so the caller falls through to the database; only connectivity
errors propagate.

Parameters:
  - context: context.Context
  - movieID: int64

Returns:
  - *Movie: Cached entity, or nil on miss
  - error: Connectivity failures
*/
func (cache *MovieCache) Get(context context.Context, movieID int64) (*Movie, error) {
	payload, err := cache.client.Get(context, cache.key(movieID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_movie_cache_get_failed: %w", err)
	}

	movie := &Movie{}
	if err := json.Unmarshal(payload, movie); err != nil {
		// Treat a corrupt entry as a miss; the next Set overwrites it.
		return nil, nil
	}

	return movie, nil
}

/*
Set stores the projection under the movie's key with the configured TTL.

Parameters:
  - context: context.Context
  - movie: *Movie

Returns:
  - error: Serialization or connectivity failures
*/
func (cache *MovieCache) Set(context context.Context, movie *Movie) error {
	payload, err := json.Marshal(movie)
	if err != nil {
		return fmt.Errorf("redis_movie_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, cache.key(movie.ID), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_movie_cache_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate drops the cached projection for a movie.

Parameters:
  - context: context.Context
  - movieID: int64

Returns:
  - error: Connectivity failures
*/
func (cache *MovieCache) Invalidate(context context.Context, movieID int64) error {
	if err := cache.client.Del(context, cache.key(movieID)).Err(); err != nil {
		return fmt.Errorf("redis_movie_cache_del_failed: %w", err)
	}

	return nil
}
