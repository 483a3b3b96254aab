package invoicefetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/common/metrics"
	"psb-dashboard/internal/models"
)

var (
	ErrEmptyPartnerID = errors.New("EMPTY_PARTNER_ID")
	ErrFetchFailed    = errors.New("FETCH_FAILED")
)

const (
	detailCollection = "transaction"

	// Limit window is a hard contract: out-of-range values are clamped,
	// never rejected.
	minLimit     = 5
	maxLimit     = 15
	defaultLimit = 5
)

// Collection is the subset of *mongo.Collection the service needs.
// Narrowed so tests can substitute a fake backed by
// mongo.NewCursorFromDocuments.
type Collection interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// Service aggregates invoice summaries with their transaction detail
// documents from the document store.
type Service struct {
	config    *Config
	summaries Collection
	logger    logger.Logger
}

func NewService(config *Config, summaries Collection, log logger.Logger) *Service {
	return &Service{
		config:    config,
		summaries: summaries,
		logger:    log,
	}
}

// summaryDoc is the pipeline output shape before flattening. The detail
// array is kept so flattening can tie-break deterministically.
type summaryDoc struct {
	BatchReferenceNo   string      `bson:"psbtransactionbatchreferenceno"`
	Product            string      `bson:"product"`
	TransactionDetails []detailDoc `bson:"transactionDetails"`
}

type detailDoc struct {
	ID                   primitive.ObjectID `bson:"_id"`
	InvoiceNumber        string             `bson:"transactioninvoicenumber"`
	InvoiceAmount        string             `bson:"transactioninvoiceamount"`
	FinanceRequestAmount string             `bson:"transactionfinancerequestamount"`
	FinanceRequestID     string             `bson:"transactionfinancerequestid"`
	InvoiceDate          interface{}        `bson:"transactioninvoicedate"`
}

// Fetch returns up to clamp(limit, 5, 15) non-archived invoices for the
// partner, newest first, each flattened with exactly one transaction
// detail document. Invoices with no matching detail are dropped. An
// empty result is not an error.
func (s *Service) Fetch(ctx context.Context, partnerID string, limit int) ([]models.InvoiceRecord, error) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return nil, ErrEmptyPartnerID
	}
	limit = clampLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	cursor, err := s.summaries.Aggregate(ctx, buildPipeline(partnerID, limit))
	if err != nil {
		metrics.InvoiceFetchesTotal.WithLabelValues("error").Inc()
		s.logger.Error("invoice aggregation failed", map[string]interface{}{
			"partner_id": partnerID,
			"limit":      limit,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer cursor.Close(ctx)

	var docs []summaryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		metrics.InvoiceFetchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	records := make([]models.InvoiceRecord, 0, len(docs))
	for _, doc := range docs {
		record, ok := flatten(doc)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	metrics.InvoiceFetchesTotal.WithLabelValues("success").Inc()
	s.logger.Info("invoices fetched", map[string]interface{}{
		"partner_id": partnerID,
		"limit":      limit,
		"count":      len(records),
	})
	return records, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit < minLimit {
		return minLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func buildPipeline(partnerID string, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "psbidentifier", Value: partnerID},
			{Key: "isArchived", Value: false},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createDate", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: detailCollection},
			{Key: "localField", Value: "psbtransactionbatchreferenceno"},
			{Key: "foreignField", Value: "psbtransactionbatchreferenceno"},
			{Key: "as", Value: "transactionDetails"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "psbtransactionbatchreferenceno", Value: 1},
			// The product tag lives on the summary root, not on the
			// joined detail documents.
			{Key: "product", Value: 1},
			{Key: "transactionDetails", Value: 1},
		}}},
	}
}

// flatten collapses a summary with its joined details into one record.
// Zero details drops the invoice. More than one detail for the same
// batch reference picks the document with the lowest _id, which is
// creation-ordered and stable across fetches.
func flatten(doc summaryDoc) (models.InvoiceRecord, bool) {
	if len(doc.TransactionDetails) == 0 {
		return models.InvoiceRecord{}, false
	}

	detail := doc.TransactionDetails[0]
	for _, candidate := range doc.TransactionDetails[1:] {
		if bytes.Compare(candidate.ID[:], detail.ID[:]) < 0 {
			detail = candidate
		}
	}

	return models.InvoiceRecord{
		BatchReferenceNo:     doc.BatchReferenceNo,
		InvoiceNumber:        detail.InvoiceNumber,
		InvoiceAmount:        detail.InvoiceAmount,
		FinanceRequestAmount: detail.FinanceRequestAmount,
		FinanceRequestID:     detail.FinanceRequestID,
		Product:              doc.Product,
		InvoiceDate:          coerceDate(detail.InvoiceDate),
	}, true
}

// coerceDate normalizes the detail document's raw date representation.
// Older documents store the invoice date as a string, newer ones as a
// native BSON datetime.
func coerceDate(raw interface{}) time.Time {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC()
	case primitive.DateTime:
		return v.Time().UTC()
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}
