package archive

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeTransport struct {
	status   int
	respBody string
	requests []*http.Request
	bodies   []string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body := ""
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, body)

	return &http.Response{
		StatusCode: f.status,
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}, "Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(f.respBody)),
	}, nil
}

func newTestStore(t *testing.T, transport *fakeTransport) *Store {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://elasticsearch.test:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return NewStore("generated_responses", client, logger.NewTestLogger(t))
}

// ==========================
// Save Tests
// ==========================

func TestStore_Save(t *testing.T) {
	transport := &fakeTransport{status: http.StatusCreated, respBody: `{"result":"created"}`}
	store := newTestStore(t, transport)

	doc, err := store.Save(context.Background(), "Response_FR-001.xml", models.ResponseTypeTransaction, "<request/>")

	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Response_FR-001.xml", doc.Name)
	assert.Equal(t, models.ResponseTypeTransaction, doc.ResponseType)
	assert.Equal(t, int64(len("<request/>")), doc.Size)
	assert.False(t, doc.CreatedAt.IsZero())

	require.Len(t, transport.requests, 1)
	req := transport.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Contains(t, req.URL.Path, "/generated_responses/_doc/"+doc.ID)

	var indexed models.GeneratedDocument
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &indexed))
	assert.Equal(t, "<request/>", indexed.Content)
}

func TestStore_Save_ClusterError(t *testing.T) {
	transport := &fakeTransport{status: http.StatusServiceUnavailable, respBody: `{}`}
	store := newTestStore(t, transport)

	_, err := store.Save(context.Background(), "x.xml", models.ResponseTypeRepayment, "<request/>")

	assert.ErrorIs(t, err, ErrWriteFailed)
}

// ==========================
// List Tests
// ==========================

func TestStore_List_NewestFirst(t *testing.T) {
	transport := &fakeTransport{status: http.StatusOK, respBody: `{
		"hits": {"hits": [
			{"_source": {"id": "b", "name": "Response_FR-002.xml", "responseType": "repayment", "createdAt": "2026-03-05T12:00:00Z"}},
			{"_source": {"id": "a", "name": "Response_FR-001.xml", "responseType": "transaction", "createdAt": "2026-03-04T12:00:00Z"}}
		]}
	}`}
	store := newTestStore(t, transport)

	docs, err := store.List(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].ID)
	assert.Equal(t, "a", docs[1].ID)

	// The sort is delegated to the store.
	assert.Contains(t, transport.bodies[0], `"createdAt":{"order":"desc"}`)
}

func TestStore_List_MissingIndexIsEmpty(t *testing.T) {
	transport := &fakeTransport{status: http.StatusNotFound, respBody: `{"error":{"type":"index_not_found_exception"}}`}
	store := newTestStore(t, transport)

	docs, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, docs)
}

// ==========================
// Delete Tests
// ==========================

func TestStore_Delete(t *testing.T) {
	transport := &fakeTransport{status: http.StatusOK, respBody: `{"result":"deleted"}`}
	store := newTestStore(t, transport)

	err := store.Delete(context.Background(), "doc-1")

	require.NoError(t, err)
	require.Len(t, transport.requests, 1)
	assert.Equal(t, http.MethodDelete, transport.requests[0].Method)
	assert.Contains(t, transport.requests[0].URL.Path, "/generated_responses/_doc/doc-1")
}

func TestStore_Delete_NotFound(t *testing.T) {
	transport := &fakeTransport{status: http.StatusNotFound, respBody: `{"result":"not_found"}`}
	store := newTestStore(t, transport)

	err := store.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}
