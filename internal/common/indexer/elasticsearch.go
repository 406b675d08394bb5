package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/project-tktt/empleos-bot/internal/domain"
)

// ElasticsearchIndexer indexes listings to Elasticsearch
type ElasticsearchIndexer struct {
	client    *elasticsearch.Client
	indexName string
}

// NewElasticsearchIndexer creates a new Elasticsearch indexer
func NewElasticsearchIndexer(addresses []string, indexName string) (*ElasticsearchIndexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	return &ElasticsearchIndexer{
		client:    client,
		indexName: indexName,
	}, nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// BulkIndex indexes multiple listings at once. Rejected documents are logged
// and reported as one error.
func (i *ElasticsearchIndexer) BulkIndex(ctx context.Context, listings []*domain.ScheduledListing) error {
	if len(listings) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, l := range listings {
		r := toRecord(l)
		meta := map[string]any{
			"index": map[string]any{
				"_index": i.indexName,
				"_id":    r.ID,
			},
		}
		// Encode terminates each line with '\n'
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("marshal meta %s: %w", r.ID, err)
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("marshal listing %s: %w", r.ID, err)
		}
	}

	res, err := i.client.Bulk(bytes.NewReader(buf.Bytes()), i.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	var bulkRes bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if !bulkRes.Errors {
		log.Printf("[Elasticsearch] Indexed %d listings into %s", len(listings), i.indexName)
		return nil
	}

	var failed []string
	for _, item := range bulkRes.Items {
		if item.Index.Status >= 400 {
			log.Printf("[Elasticsearch] Bulk index error for %s: %s - %s",
				item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason)
			failed = append(failed, item.Index.ID)
		}
	}
	return fmt.Errorf("bulk index: %d of %d documents rejected (%s)",
		len(failed), len(listings), strings.Join(failed, ", "))
}

// EnsureIndex creates the index with accent folding on the text fields
func (i *ElasticsearchIndexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.indexName}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	mapping := `{
		"settings": {
			"analysis": {
				"analyzer": {
					"spanish_folded": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase", "asciifolding"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"id": {"type": "keyword"},
				"listing_id": {"type": "keyword"},
				"category": {"type": "keyword"},
				"date": {"type": "date"},
				"offer": {
					"type": "text",
					"analyzer": "spanish_folded",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"salary": {"type": "integer"},
				"start_hour": {"type": "integer"},
				"end_hour": {"type": "integer"},
				"hours_worked": {"type": "float"},
				"monday": {"type": "boolean"},
				"tuesday": {"type": "boolean"},
				"wednesday": {"type": "boolean"},
				"thursday": {"type": "boolean"},
				"friday": {"type": "boolean"},
				"saturday": {"type": "boolean"},
				"sunday": {"type": "boolean"},
				"days_worked": {"type": "integer"},
				"state": {"type": "keyword"},
				"municipality": {
					"type": "text",
					"analyzer": "spanish_folded",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"source": {"type": "keyword"}
			}
		}
	}`

	res, err = i.client.Indices.Create(
		i.indexName,
		i.client.Indices.Create.WithBody(strings.NewReader(mapping)),
		i.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}

// Close is a no-op, the client holds no connection state
func (i *ElasticsearchIndexer) Close() error {
	return nil
}
