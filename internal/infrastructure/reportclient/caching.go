package reportclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/report"
	"github.com/erp/pos-reports/internal/infrastructure/cache"
)

// Ensure CachingClient implements Collaborator
var _ reportapp.Collaborator = (*CachingClient)(nil)

// CachingClient serves repeated identical queries from a PayloadCache.
// Cache failures are logged and the request falls through to the service.
type CachingClient struct {
	client *Client
	cache  cache.PayloadCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachingClient wraps client. A nil cache or non-positive ttl disables caching.
func NewCachingClient(client *Client, payloads cache.PayloadCache, ttl time.Duration, logger *zap.Logger) *CachingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingClient{
		client: client,
		cache:  payloads,
		ttl:    ttl,
		logger: logger,
	}
}

// FetchReport implements Collaborator
func (c *CachingClient) FetchReport(ctx context.Context, t report.Type, subtype report.Subtype, filters report.Filters) (map[string]any, error) {
	if c.cache == nil || c.ttl <= 0 {
		return c.client.FetchReport(ctx, t, subtype, filters)
	}

	key := CacheKey(t, subtype, filters)
	if body, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("Payload cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		payload, err := decodePayload(body)
		if err == nil {
			c.logger.Debug("Payload cache hit", zap.String("key", key))
			return payload, nil
		}
		_ = c.cache.Delete(ctx, key)
	}

	body, err := c.client.fetchRaw(ctx, t, subtype, filters)
	if err != nil {
		return nil, err
	}
	payload, err := decodePayload(body)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("Payload cache write failed", zap.String("key", key), zap.Error(err))
	}
	return payload, nil
}

// CacheKey identifies a query by type, subtype and the filters actually sent
func CacheKey(t report.Type, subtype report.Subtype, filters report.Filters) string {
	var b strings.Builder
	b.WriteString(t.String())
	b.WriteByte(':')
	b.WriteString(subtype.String())
	b.WriteByte(':')
	if filters.BranchID != nil {
		b.WriteString("b")
		b.WriteString(strconv.FormatInt(*filters.BranchID, 10))
	}
	b.WriteString(encodeQuery(subtype, filters))

	sum := sha256.Sum256([]byte(b.String()))
	return t.String() + ":" + hex.EncodeToString(sum[:8])
}
