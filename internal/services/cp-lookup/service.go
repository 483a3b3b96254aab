package cplookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/models"
)

var (
	ErrEmptyReferenceID = errors.New("EMPTY_REFERENCE_ID")
	ErrLookupFailed     = errors.New("CP_LOOKUP_FAILED")
	ErrNotFound         = errors.New("CP_NOT_FOUND")
)

const programCollection = "programs"

// Collection is the subset of *mongo.Collection the service needs.
type Collection interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// Service resolves channel-partner prefill data for exposure updates:
// the treasury-management partner id and its program id, joined from
// the channel_partners and programs collections.
type Service struct {
	timeout  time.Duration
	partners Collection
	logger   logger.Logger
}

func NewService(timeout time.Duration, partners Collection, log logger.Logger) *Service {
	return &Service{
		timeout:  timeout,
		partners: partners,
		logger:   log,
	}
}

type partnerDoc struct {
	TMChannelPartnerID string `bson:"tmchannelpartnerid"`
	TMProgramID        string `bson:"tmprogramid"`
}

// Lookup returns the channel partner for the given reference id. A
// missing partner is ErrNotFound, not a store failure.
func (s *Service) Lookup(ctx context.Context, referenceID string) (*models.ChannelPartner, error) {
	referenceID = strings.TrimSpace(referenceID)
	if referenceID == "" {
		return nil, ErrEmptyReferenceID
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.partners.Aggregate(ctx, buildPipeline(referenceID))
	if err != nil {
		s.logger.Error("channel partner lookup failed", map[string]interface{}{
			"reference_id": referenceID,
			"error":        err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer cursor.Close(ctx)

	var docs []partnerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}

	return &models.ChannelPartner{
		TMChannelPartnerID: docs[0].TMChannelPartnerID,
		TMProgramID:        docs[0].TMProgramID,
	}, nil
}

func buildPipeline(referenceID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "cpreferenceid", Value: referenceID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: programCollection},
			{Key: "localField", Value: "psbplatformprogramid"},
			{Key: "foreignField", Value: "id"},
			{Key: "as", Value: "program_data"},
		}}},
		{{Key: "$unwind", Value: "$program_data"}},
		{{Key: "$project", Value: bson.D{
			{Key: "tmchannelpartnerid", Value: 1},
			{Key: "tmprogramid", Value: "$program_data.tmprogramid"},
		}}},
	}
}
