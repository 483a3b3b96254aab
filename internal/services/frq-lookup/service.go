// Package frqlookup resolves finance request identifiers from the
// relational store, keyed by transaction batch reference.
package frqlookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/common/metrics"
	"psb-dashboard/internal/models"
)

var (
	ErrEmptyBatchID = errors.New("EMPTY_BATCH_ID")
	ErrLookupFailed = errors.New("LOOKUP_FAILED")
)

// The one-to-many batch_id -> unique_id relation is returned fully; the
// explicit ORDER BY keeps the primary (first row) deterministic.
const queryFRQByBatchID = `SELECT unique_id FROM unique_id_generator WHERE batch_id = $1 ORDER BY created_at, unique_id`

const cacheKeyPrefix = "frq:batch:"

type Service struct {
	config *Config
	db     *sql.DB
	cache  *redis.Client // optional, nil disables caching
	logger logger.Logger
}

func NewService(config *Config, db *sql.DB, cache *redis.Client, log logger.Logger) *Service {
	return &Service{
		config: config,
		db:     db,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"service": "frq-lookup"}),
	}
}

// Resolve returns every finance request id recorded for the batch
// reference, first row flagged as primary. Zero matches is a valid
// unresolved outcome, not an error. Store failures surface as
// ErrLookupFailed; the correlator degrades them, standalone callers see
// them directly.
func (s *Service) Resolve(ctx context.Context, batchID string) (*models.FRQResolution, error) {
	batchID = strings.TrimSpace(batchID)
	if batchID == "" {
		return nil, ErrEmptyBatchID
	}

	if cached := s.cacheGet(ctx, batchID); cached != nil {
		metrics.FRQLookupsTotal.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	timer := prometheus.NewTimer(metrics.FRQLookupDuration)
	defer timer.ObserveDuration()

	rows, err := s.db.QueryContext(ctx, queryFRQByBatchID, batchID)
	if err != nil {
		metrics.FRQLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			metrics.FRQLookupsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		metrics.FRQLookupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	resolution := &models.FRQResolution{IDs: ids}
	if len(ids) > 0 {
		resolution.Primary = ids[0]
		metrics.FRQLookupsTotal.WithLabelValues("resolved").Inc()
	} else {
		metrics.FRQLookupsTotal.WithLabelValues("unresolved").Inc()
	}

	s.cacheSet(ctx, batchID, resolution)

	return resolution, nil
}

// cacheGet reads a cached resolution. Cache failures are logged and
// treated as misses; the relational store stays authoritative.
func (s *Service) cacheGet(ctx context.Context, batchID string) *models.FRQResolution {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return nil
	}

	val, err := s.cache.Get(ctx, cacheKeyPrefix+batchID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("frq cache read failed", map[string]interface{}{
				"batchId": batchID,
				"error":   err.Error(),
			})
		}
		return nil
	}

	var resolution models.FRQResolution
	if err := json.Unmarshal([]byte(val), &resolution); err != nil {
		s.logger.Warn("frq cache entry corrupt", map[string]interface{}{
			"batchId": batchID,
			"error":   err.Error(),
		})
		return nil
	}
	return &resolution
}

func (s *Service) cacheSet(ctx context.Context, batchID string, resolution *models.FRQResolution) {
	if s.cache == nil || s.config.CacheTTL <= 0 {
		return
	}

	payload, err := json.Marshal(resolution)
	if err != nil {
		return
	}

	setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.cache.Set(setCtx, cacheKeyPrefix+batchID, payload, s.config.CacheTTL).Err(); err != nil {
		s.logger.Warn("frq cache write failed", map[string]interface{}{
			"batchId": batchID,
			"error":   err.Error(),
		})
	}
}
