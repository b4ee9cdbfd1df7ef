// File: internal/listing/search.go
package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ldw80203/house-video/internal/platform/elasticsearch"
)

// searchDocument is the shape indexed for keyword search.
type searchDocument struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	CommunityName string    `json:"community_name,omitempty"`
	Address       string    `json:"address"`
	District      string    `json:"district"`
	RoomType      string    `json:"room_type"`
	Price         float64   `json:"price"`
	Size          float64   `json:"size"`
	PricePerPing  float64   `json:"price_per_ping"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
}

func toSearchDocument(l *Listing) searchDocument {
	doc := searchDocument{
		ID:           l.ID,
		Title:        l.Title,
		Address:      l.Address,
		District:     l.District,
		RoomType:     l.RoomType,
		Price:        l.Price,
		Size:         l.Size,
		PricePerPing: l.PricePerPing,
		IsPublished:  l.IsPublished,
		CreatedAt:    l.CreatedAt,
	}
	if l.CommunityName != nil {
		doc.CommunityName = *l.CommunityName
	}
	return doc
}

// searchIndexer mirrors listing writes into the Elasticsearch index. All
// methods are no-ops when the client is disabled.
type searchIndexer struct {
	es     *elasticsearch.ESClientWrapper
	logger *zap.Logger
}

func newSearchIndexer(es *elasticsearch.ESClientWrapper, logger *zap.Logger) *searchIndexer {
	return &searchIndexer{es: es, logger: logger}
}

func (s *searchIndexer) Index(ctx context.Context, l *Listing) error {
	if !s.es.Enabled() {
		return nil
	}

	body, err := json.Marshal(toSearchDocument(l))
	if err != nil {
		return fmt.Errorf("marshalling listing %s for indexing: %w", l.ID, err)
	}

	res, err := esapi.IndexRequest{
		Index:      elasticsearch.ListingsIndexName,
		DocumentID: l.ID.String(),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}.Do(ctx, s.es.Client)
	if err != nil {
		return fmt.Errorf("indexing listing %s: %w", l.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response indexing listing %s: %s", l.ID, res.String())
	}
	return nil
}

func (s *searchIndexer) Remove(ctx context.Context, id uuid.UUID) error {
	if !s.es.Enabled() {
		return nil
	}

	res, err := esapi.DeleteRequest{
		Index:      elasticsearch.ListingsIndexName,
		DocumentID: id.String(),
	}.Do(ctx, s.es.Client)
	if err != nil {
		return fmt.Errorf("removing listing %s from index: %w", id, err)
	}
	defer res.Body.Close()

	// A 404 just means the document was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("error response removing listing %s from index: %s", id, res.String())
	}
	return nil
}

// Search runs a multi-field keyword query over published listings and
// returns matching listing IDs in relevance order.
func (s *searchIndexer) Search(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	if !s.es.Enabled() {
		return nil, nil
	}

	esQuery := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"title^2", "community_name", "address", "district"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"is_published": true},
				},
			},
		},
	}

	body, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("marshalling search query: %w", err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{elasticsearch.ListingsIndexName},
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.es.Client)
	if err != nil {
		return nil, fmt.Errorf("executing listing search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error response from listing search: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding listing search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			s.logger.Warn("Skipping search hit with non-UUID document ID", zap.String("doc_id", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
