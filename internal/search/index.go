package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/streamdash/streamdash-server/internal/catalog"
)

// batchSize bounds the documents committed per bleve batch.
const batchSize = 500

// SearchIndex wraps an in-memory Bleve index of catalog titles.
//
// Thread safety: All public methods are safe for concurrent use.
type SearchIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	logger *slog.Logger
}

// NewMemIndex creates an empty in-memory index.
func NewMemIndex(logger *slog.Logger) (*SearchIndex, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &SearchIndex{index: index, logger: logger}, nil
}

// BuildFromCatalog creates an index holding every title of c.
func BuildFromCatalog(ctx context.Context, c *catalog.Catalog, logger *slog.Logger) (*SearchIndex, error) {
	idx, err := NewMemIndex(logger)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	docs := make([]*TitleDocument, 0, c.Len())
	for i := range c.Len() {
		docs = append(docs, TitleToDocument(i, c.At(i)))
	}
	if err := idx.IndexDocuments(ctx, docs); err != nil {
		_ = idx.Close()
		return nil, err
	}

	idx.logger.Info("search index built",
		"documents", len(docs),
		"duration", time.Since(start),
	)
	return idx, nil
}

// IndexDocuments indexes docs in batches, checking ctx between batches.
func (s *SearchIndex) IndexDocuments(ctx context.Context, docs []*TitleDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < len(docs); i += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(i+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// DocumentCount returns the number of indexed titles.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Close releases the index.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}
