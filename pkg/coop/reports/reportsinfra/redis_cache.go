package reportsinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/reports"
	"github.com/redis/go-redis/v9"
)

const nationalReportKey = "reports:national"

// RedisReportCache is the Redis implementation of ReportCache. Reports are
// stored as JSON with a TTL, so Redis expiry bounds how stale a served
// report can get.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisReportCache creates a new report cache backed by Redis.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) reports.ReportCache {
	return &RedisReportCache{
		client: client,
		ttl:    ttl,
	}
}

// GetNationalReport returns the cached report, or nil on a cache miss.
func (c *RedisReportCache) GetNationalReport(ctx context.Context) (*reports.NationalReport, error) {
	jsonData, err := c.client.Get(ctx, nationalReportKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get national report from Redis: %w", err)
	}

	var report reports.NationalReport
	if err := json.Unmarshal([]byte(jsonData), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal national report: %w", err)
	}

	return &report, nil
}

// StoreNationalReport caches a freshly generated report for the TTL window.
func (c *RedisReportCache) StoreNationalReport(ctx context.Context, report *reports.NationalReport) error {
	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal national report: %w", err)
	}

	if err := c.client.Set(ctx, nationalReportKey, jsonData, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store national report in Redis: %w", err)
	}

	return nil
}
