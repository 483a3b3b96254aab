package frqcorrelate

import (
	"context"
	"sync"

	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/models"
)

// Resolver resolves finance-request identifiers by batch reference.
// Satisfied by the frq-lookup service.
type Resolver interface {
	Resolve(ctx context.Context, batchID string) (*models.FRQResolution, error)
}

// Service enriches aggregated invoices with their finance-request
// identifiers. Lookups fan out concurrently; results are reassembled in
// input order.
type Service struct {
	maxConcurrency int
	resolver       Resolver
	logger         logger.Logger
}

// NewService normalizes a non-positive concurrency bound to 1 without
// touching the caller's config.
func NewService(config *Config, resolver Resolver, log logger.Logger) *Service {
	maxConcurrency := config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Service{
		maxConcurrency: maxConcurrency,
		resolver:       resolver,
		logger:         log,
	}
}

// Enrich attaches a resolved finance-request id to every invoice. The
// output has the same length and order as the input. A failed or empty
// resolution degrades that invoice to models.FRQUnresolved; it never
// fails the batch.
func (s *Service) Enrich(ctx context.Context, invoices []models.InvoiceRecord) []models.EnrichedInvoiceRecord {
	enriched := make([]models.EnrichedInvoiceRecord, len(invoices))
	if len(invoices) == 0 {
		return enriched
	}

	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup

	for i, invoice := range invoices {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, inv models.InvoiceRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			enriched[idx] = models.EnrichedInvoiceRecord{
				InvoiceRecord: inv,
				FRQID:         s.resolveOne(ctx, inv.BatchReferenceNo),
			}
		}(i, invoice)
	}
	wg.Wait()

	return enriched
}

func (s *Service) resolveOne(ctx context.Context, batchID string) string {
	resolution, err := s.resolver.Resolve(ctx, batchID)
	if err != nil {
		s.logger.Warn("frq lookup degraded to sentinel", map[string]interface{}{
			"batch_id": batchID,
			"error":    err.Error(),
		})
		return models.FRQUnresolved
	}
	if !resolution.Resolved() {
		return models.FRQUnresolved
	}
	return resolution.Primary
}
