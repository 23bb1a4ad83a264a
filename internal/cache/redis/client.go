// Package redis caches per-transcript extraction results keyed by the
// MD5 of the transcript text, so re-processing an unchanged corpus
// skips the regex passes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/instabio/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// SetExtraction caches a serialized extraction result under the
// transcript's text hash.
func (c *Client) SetExtraction(ctx context.Context, textHash string, result interface{}, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("extraction:%s", textHash), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set extraction cache: %w", err)
	}

	logger.Debug("Extraction cached", zap.String("text_hash", textHash), zap.Duration("ttl", ttl))
	return nil
}

// GetExtraction loads a cached extraction into result, reporting
// whether the key was present.
func (c *Client) GetExtraction(ctx context.Context, textHash string, result interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("extraction:%s", textHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get extraction cache: %w", err)
	}

	err = json.Unmarshal(data, result)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal extraction: %w", err)
	}

	logger.Debug("Extraction cache hit", zap.String("text_hash", textHash))
	return true, nil
}

// InvalidateExtractions drops every cached extraction. Called when the
// pattern vocabulary changes, since cached results would be stale.
func (c *Client) InvalidateExtractions(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "extraction:*", 0).Iterator()
	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("Extraction cache invalidated")
	return nil
}

func (c *Client) IncrementMetric(ctx context.Context, metricName string) error {
	return c.client.Incr(ctx, fmt.Sprintf("metric:%s", metricName)).Err()
}

func (c *Client) GetMetric(ctx context.Context, metricName string) (int64, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("metric:%s", metricName)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
