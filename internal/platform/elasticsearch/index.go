// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// ListingsIndexName is the index holding searchable listing documents.
const ListingsIndexName = "listings"

func defineListingsMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":          map[string]interface{}{"type": "text"},
				"community_name": map[string]interface{}{"type": "text"},
				"address":        map[string]interface{}{"type": "text"},
				"district":       map[string]interface{}{"type": "keyword"},
				"room_type":      map[string]interface{}{"type": "keyword"},
				"price":          map[string]interface{}{"type": "double"},
				"size":           map[string]interface{}{"type": "double"},
				"price_per_ping": map[string]interface{}{"type": "double"},
				"is_published":   map[string]interface{}{"type": "boolean"},
				"created_at":     map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling listings mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateListingsIndexIfNotExists creates the listings index with its mapping
// when it is missing. Safe to call on every startup.
func CreateListingsIndexIfNotExists(es *ESClientWrapper, logger *zap.Logger) error {
	if !es.Enabled() {
		return nil
	}

	existsRes, err := esapi.IndicesExistsRequest{
		Index: []string{ListingsIndexName},
	}.Do(context.Background(), es.Client)
	if err != nil {
		return fmt.Errorf("error checking if listings index exists: %w", err)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == 200 {
		logger.Debug("Listings index already exists.", zap.String("index", ListingsIndexName))
		return nil
	}

	mapping, err := defineListingsMapping()
	if err != nil {
		return err
	}

	createRes, err := esapi.IndicesCreateRequest{
		Index: ListingsIndexName,
		Body:  strings.NewReader(mapping),
	}.Do(context.Background(), es.Client)
	if err != nil {
		return fmt.Errorf("error creating listings index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error response creating listings index: %s", createRes.String())
	}

	logger.Info("Created Elasticsearch listings index.", zap.String("index", ListingsIndexName))
	return nil
}
