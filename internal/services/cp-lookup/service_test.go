package cplookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"psb-dashboard/internal/common/logger"
)

type fakeCollection struct {
	docs  []interface{}
	err   error
	calls int
}

func (f *fakeCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func newTestService(t *testing.T, coll *fakeCollection) *Service {
	return NewService(5*time.Second, coll, logger.NewTestLogger(t))
}

func TestService_Lookup_Success(t *testing.T) {
	coll := &fakeCollection{docs: []interface{}{
		partnerDoc{TMChannelPartnerID: "CP-77", TMProgramID: "PRG-12"},
	}}
	svc := newTestService(t, coll)

	partner, err := svc.Lookup(context.Background(), "cp-ref-001")

	require.NoError(t, err)
	assert.Equal(t, "CP-77", partner.TMChannelPartnerID)
	assert.Equal(t, "PRG-12", partner.TMProgramID)
}

func TestService_Lookup_NotFound(t *testing.T) {
	svc := newTestService(t, &fakeCollection{})

	_, err := svc.Lookup(context.Background(), "cp-ref-missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Lookup_EmptyReferenceFailsFast(t *testing.T) {
	coll := &fakeCollection{}
	svc := newTestService(t, coll)

	_, err := svc.Lookup(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyReferenceID)
	assert.Zero(t, coll.calls)
}

func TestService_Lookup_StoreError(t *testing.T) {
	svc := newTestService(t, &fakeCollection{err: errors.New("no reachable servers")})

	_, err := svc.Lookup(context.Background(), "cp-ref-001")

	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Contains(t, err.Error(), "no reachable servers")
}
