package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"psb-dashboard/internal/common/logger"
	"psb-dashboard/internal/common/metrics"
	"psb-dashboard/internal/models"
)

var (
	ErrWriteFailed = errors.New("ARCHIVE_WRITE_FAILED")
	ErrQueryFailed = errors.New("ARCHIVE_QUERY_FAILED")
	ErrNotFound    = errors.New("ARCHIVE_DOCUMENT_NOT_FOUND")
)

const listSize = 200

// Store keeps rendered response documents until they are uploaded to
// the remote drop. Append-only; entries are deletable by the operator
// but never modified in place.
type Store struct {
	index  string
	client *elasticsearch.Client
	logger logger.Logger
}

func NewStore(index string, client *elasticsearch.Client, log logger.Logger) *Store {
	return &Store{
		index:  index,
		client: client,
		logger: log,
	}
}

// Save archives one rendered document and returns it with its assigned
// id and creation time.
func (s *Store) Save(ctx context.Context, name string, responseType models.ResponseType, content string) (*models.GeneratedDocument, error) {
	doc := &models.GeneratedDocument{
		ID:           uuid.New().String(),
		Name:         name,
		ResponseType: responseType,
		Content:      content,
		Size:         int64(len(content)),
		CreatedAt:    time.Now().UTC(),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrWriteFailed, res.Status())
	}

	metrics.ResponsesGenerated.WithLabelValues(string(responseType)).Inc()
	s.logger.Info("document archived", map[string]interface{}{
		"id":   doc.ID,
		"name": doc.Name,
		"type": string(responseType),
	})
	return doc, nil
}

// List returns archived documents newest first.
func (s *Store) List(ctx context.Context) ([]models.GeneratedDocument, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort": []interface{}{
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
		"size": listSize,
	}
	body, _ := json.Marshal(query)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// A missing index just means nothing has been archived yet.
		if res.StatusCode == 404 {
			return []models.GeneratedDocument{}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, res.Status())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source models.GeneratedDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	docs := make([]models.GeneratedDocument, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// Delete removes one archived document by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      s.index,
		DocumentID: id,
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return ErrNotFound
	}
	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrWriteFailed, res.Status())
	}

	s.logger.Info("archived document deleted", map[string]interface{}{"id": id})
	return nil
}
