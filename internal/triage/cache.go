package triage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docnearby/docnearby/pkg/logging"
)

// Cache stores analysis results in Redis keyed by the normalized symptom set.
// Every operation fails open: a broken cache degrades to calling the model.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCache wraps a Redis client. rdb may be nil to disable caching.
func NewCache(rdb *redis.Client, ttl time.Duration, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// cacheKey normalizes symptoms so "Fever, cough" and "cough, fever" share an
// entry: lowercased, trimmed, sorted, then hashed.
func cacheKey(symptoms []string) string {
	normalized := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			normalized = append(normalized, s)
		}
	}
	sort.Strings(normalized)
	sum := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return "triage:analysis:" + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, symptoms []string) (*Analysis, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, cacheKey(symptoms)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("triage cache read failed", "error", err)
		}
		return nil, false
	}
	var out Analysis
	if err := json.Unmarshal(payload, &out); err != nil {
		c.logger.Warn("triage cache entry corrupt", "error", err)
		return nil, false
	}
	return &out, true
}

func (c *Cache) Set(ctx context.Context, symptoms []string, analysis *Analysis) {
	if c == nil || c.rdb == nil {
		return
	}
	payload, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(symptoms), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("triage cache write failed", "error", err)
	}
}
