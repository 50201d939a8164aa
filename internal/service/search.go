package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/foodorder/food-order-api/internal/apperr"
	"github.com/foodorder/food-order-api/internal/logging"
	"github.com/foodorder/food-order-api/internal/util"
)

// SearchIndexer is what the CRUD services see of the search backend.
// Indexing is best-effort: the database remains the source of truth.
type SearchIndexer interface {
	IndexDocument(ctx context.Context, docID string, doc any) error
	DeleteDocument(ctx context.Context, docID string) error
}

// SearchService maintains and queries the combined back-office index
// (coupons, sliders, product categories).
type SearchService struct {
	ES    *elasticsearch.Client
	Index string
}

type SearchHit struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

func (s *SearchService) IndexDocument(ctx context.Context, docID string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}

	res, err := s.ES.Index(
		s.Index,
		bytes.NewReader(data),
		s.ES.Index.WithDocumentID(docID),
		s.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search index: %s", res.Status())
	}
	return nil
}

func (s *SearchService) DeleteDocument(ctx context.Context, docID string) error {
	res, err := s.ES.Delete(
		s.Index,
		docID,
		s.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search delete: %s", res.Status())
	}
	return nil
}

func (s *SearchService) Search(ctx context.Context, query string, p util.PageParams) (int64, []SearchHit, error) {
	p = p.Normalize()

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "text"},
				"fuzziness": "AUTO",
			},
		},
		"from": p.Offset(),
		"size": p.Limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, apperr.Internal("Search failed", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, apperr.Internal("Search failed", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, apperr.Internal("Search failed: "+res.Status(), nil)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source SearchHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, apperr.Internal("Search failed", err)
	}

	hits := make([]SearchHit, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		hits[i] = hit.Source
	}
	return r.Hits.Total.Value, hits, nil
}

// indexDoc mirrors a write into the search index, logging instead of
// failing when the index is unavailable.
func indexDoc(ctx context.Context, idx SearchIndexer, docID string, doc any) {
	if idx == nil {
		return
	}
	if err := idx.IndexDocument(ctx, docID, doc); err != nil {
		logging.FromContext(ctx).Error("search index failed", "doc_id", docID, "error", err)
	}
}

func deleteDoc(ctx context.Context, idx SearchIndexer, docID string) {
	if idx == nil {
		return
	}
	if err := idx.DeleteDocument(ctx, docID); err != nil {
		logging.FromContext(ctx).Error("search delete failed", "doc_id", docID, "error", err)
	}
}
