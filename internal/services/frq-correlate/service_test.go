package frqcorrelate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeResolver struct {
	mu          sync.Mutex
	resolutions map[string]*models.FRQResolution
	errs        map[string]error
	delay       time.Duration
	inFlight    int32
	maxInFlight int32
}

func (f *fakeResolver) Resolve(ctx context.Context, batchID string) (*models.FRQResolution, error) {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		observed := atomic.LoadInt32(&f.maxInFlight)
		if cur <= observed || atomic.CompareAndSwapInt32(&f.maxInFlight, observed, cur) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[batchID]; ok {
		return nil, err
	}
	if res, ok := f.resolutions[batchID]; ok {
		return res, nil
	}
	return &models.FRQResolution{}, nil
}

func invoicesFor(batchIDs ...string) []models.InvoiceRecord {
	out := make([]models.InvoiceRecord, len(batchIDs))
	for i, id := range batchIDs {
		out[i] = models.InvoiceRecord{BatchReferenceNo: id, InvoiceNumber: "INV-" + id}
	}
	return out
}

func frqIDs(records []models.EnrichedInvoiceRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.FRQID
	}
	return out
}

// ==========================
// Enrichment Tests
// ==========================

func TestService_Enrich_PreservesLengthAndOrder(t *testing.T) {
	resolver := &fakeResolver{
		resolutions: map[string]*models.FRQResolution{
			"B-1": {IDs: []string{"FRQ-1"}, Primary: "FRQ-1"},
			"B-2": {IDs: []string{"FRQ-2"}, Primary: "FRQ-2"},
			"B-3": {IDs: []string{"FRQ-3"}, Primary: "FRQ-3"},
		},
		delay: 2 * time.Millisecond,
	}
	svc := NewService(LoadConfig(), resolver, logger.NewTestLogger(t))

	invoices := invoicesFor("B-1", "B-2", "B-3")
	enriched := svc.Enrich(context.Background(), invoices)

	require.Len(t, enriched, len(invoices))
	for i := range invoices {
		assert.Equal(t, invoices[i], enriched[i].InvoiceRecord)
	}
	assert.Equal(t, []string{"FRQ-1", "FRQ-2", "FRQ-3"}, frqIDs(enriched))
}

func TestService_Enrich_DegradesToSentinel(t *testing.T) {
	resolver := &fakeResolver{
		resolutions: map[string]*models.FRQResolution{
			"B-OK": {IDs: []string{"FRQ-9"}, Primary: "FRQ-9"},
			// B-EMPTY resolves to an empty, non-error resolution.
		},
		errs: map[string]error{
			"B-FAIL": errors.New("connection refused"),
		},
	}
	svc := NewService(LoadConfig(), resolver, logger.NewTestLogger(t))

	enriched := svc.Enrich(context.Background(), invoicesFor("B-OK", "B-FAIL", "B-EMPTY"))

	assert.Equal(t, []string{"FRQ-9", models.FRQUnresolved, models.FRQUnresolved}, frqIDs(enriched))
}

func TestService_Enrich_NeverEmitsEmptyFRQID(t *testing.T) {
	resolver := &fakeResolver{}
	svc := NewService(LoadConfig(), resolver, logger.NewTestLogger(t))

	enriched := svc.Enrich(context.Background(), invoicesFor("B-1", "B-2"))

	for _, record := range enriched {
		assert.NotEmpty(t, record.FRQID)
	}
}

func TestService_Enrich_EmptyInput(t *testing.T) {
	svc := NewService(LoadConfig(), &fakeResolver{}, logger.NewNoOpLogger())

	enriched := svc.Enrich(context.Background(), nil)

	assert.Empty(t, enriched)
}

func TestService_Enrich_BoundsConcurrency(t *testing.T) {
	resolver := &fakeResolver{delay: 5 * time.Millisecond}
	svc := NewService(&Config{MaxConcurrency: 2}, resolver, logger.NewNoOpLogger())

	svc.Enrich(context.Background(), invoicesFor("B-1", "B-2", "B-3", "B-4", "B-5", "B-6"))

	assert.LessOrEqual(t, atomic.LoadInt32(&resolver.maxInFlight), int32(2))
}

func TestNewService_DoesNotMutateCallerConfig(t *testing.T) {
	cfg := &Config{MaxConcurrency: 0}

	svc := NewService(cfg, &fakeResolver{}, logger.NewNoOpLogger())

	assert.Equal(t, 0, cfg.MaxConcurrency)
	assert.Equal(t, 1, svc.maxConcurrency)
}
