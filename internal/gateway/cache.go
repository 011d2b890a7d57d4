package gateway

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"fleet-reconciliation/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RecordFetcher is the fetch contract the cache decorates.
type RecordFetcher interface {
	FetchRecords(ctx context.Context, identifiers []string) ([]domain.FetchedRecord, error)
}

type cacheEntry struct {
	records []domain.FetchedRecord
	built   time.Time
}

// CachedRecordRepository memoizes fetch results keyed by the ordered
// identifier list as presented. Only successful fetches are stored.
type CachedRecordRepository struct {
	next         RecordFetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	logger       *zap.Logger
	now          func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	sf      singleflight.Group
}

// NewCachedRecordRepository wraps next with a session cache. A zero ttl keeps
// entries until they are invalidated. fetchTimeout bounds a shared fetch,
// which outlives the caller that started it; zero leaves it unbounded.
func NewCachedRecordRepository(next RecordFetcher, ttl, fetchTimeout time.Duration, logger *zap.Logger) *CachedRecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRecordRepository{
		next:         next,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		now:          time.Now,
		entries:      make(map[string]cacheEntry),
	}
}

// FetchRecords returns the cached result for identifiers or fetches it.
// Concurrent callers with the same key share one in-flight fetch. The shared
// fetch is detached from every caller's cancellation; each caller stops
// waiting when its own ctx is done.
func (c *CachedRecordRepository) FetchRecords(ctx context.Context, identifiers []string) ([]domain.FetchedRecord, error) {
	key := cacheKey(identifiers)

	if records, ok := c.lookup(key); ok {
		c.logger.Debug("Fetch cache hit", zap.Int("identifiers", len(identifiers)))
		return cloneRecords(records), nil
	}

	ch := c.sf.DoChan(key, func() (any, error) {
		if records, ok := c.lookup(key); ok {
			return records, nil
		}

		fetchCtx, cancel := context.WithoutCancel(ctx), context.CancelFunc(func() {})
		if c.fetchTimeout > 0 {
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.fetchTimeout)
		}
		defer cancel()

		records, err := c.next.FetchRecords(fetchCtx, identifiers)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{records: records, built: c.now()}
		c.mu.Unlock()
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, &domain.FetchError{Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		c.logger.Debug("Fetch cache miss", zap.Int("identifiers", len(identifiers)), zap.Bool("shared", res.Shared))
		return cloneRecords(res.Val.([]domain.FetchedRecord)), nil
	}
}

// Invalidate drops the entry for exactly this ordered identifier list.
func (c *CachedRecordRepository) Invalidate(identifiers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(identifiers))
}

// Purge drops every entry.
func (c *CachedRecordRepository) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of cached entries, expired ones included.
func (c *CachedRecordRepository) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachedRecordRepository) lookup(key string) ([]domain.FetchedRecord, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.built) > c.ttl {
		return nil, false
	}
	return entry.records, true
}

// cacheKey length-prefixes each identifier so no two lists share a key.
func cacheKey(identifiers []string) string {
	var b strings.Builder
	for _, id := range identifiers {
		b.WriteString(strconv.Itoa(len(id)))
		b.WriteByte(':')
		b.WriteString(id)
	}
	return b.String()
}

func cloneRecords(records []domain.FetchedRecord) []domain.FetchedRecord {
	out := make([]domain.FetchedRecord, len(records))
	copy(out, records)
	return out
}
