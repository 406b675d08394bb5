package indexer

import (
	"context"
	"fmt"
	"strings"

	"github.com/project-tktt/empleos-bot/internal/config"
)

// Open builds one Indexer per configured sink name
func Open(ctx context.Context, cfg *config.Config) (Multi, error) {
	var sinks Multi
	for _, name := range cfg.Export.Sinks {
		idx, err := open(ctx, strings.ToLower(strings.TrimSpace(name)), cfg)
		if err != nil {
			sinks.Close()
			return nil, fmt.Errorf("open sink %s: %w", name, err)
		}
		sinks = append(sinks, idx)
	}
	if len(sinks) == 0 {
		return nil, fmt.Errorf("no export sinks configured")
	}
	return sinks, nil
}

func open(ctx context.Context, name string, cfg *config.Config) (Indexer, error) {
	switch name {
	case "csv":
		return NewCSVIndexer(cfg.Paths.ExportCSV), nil
	case "sqlite":
		return NewSQLiteIndexer(ctx, cfg.Export.SQLitePath)
	case "postgres":
		return NewPostgresIndexer(ctx, cfg.Postgres.ConnectionString, cfg.Postgres.TableName)
	case "elasticsearch":
		es, err := NewElasticsearchIndexer(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Index)
		if err != nil {
			return nil, err
		}
		if err := es.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		return es, nil
	default:
		return nil, fmt.Errorf("unknown sink")
	}
}
