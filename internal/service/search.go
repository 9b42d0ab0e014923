package service

import (
	"context"
	"log/slog"

	"github.com/streamdash/streamdash-server/internal/catalog"
	"github.com/streamdash/streamdash-server/internal/search"
	"github.com/streamdash/streamdash-server/internal/validation"
)

// MaxSearchLimit caps the page size of a title search.
const MaxSearchLimit = 100

// searchRequest carries the bounds checked before a query runs.
type searchRequest struct {
	Query     string   `json:"q" validate:"max=200"`
	Limit     int      `json:"limit" validate:"gte=0,lte=100"`
	Platforms []string `json:"platforms" validate:"dive,platform"`
	Types     []string `json:"types" validate:"dive,type"`
}

// SearchService searches titles within a filter selection.
type SearchService struct {
	index     *search.SearchIndex
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, c *catalog.Catalog, logger *slog.Logger) (*SearchService, error) {
	v, err := newSelectionValidator(c)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SearchService{
		index:     index,
		validator: v,
		logger:    logger,
	}, nil
}

// Search runs a title query restricted to the selection. An empty query
// lists the selection.
func (s *SearchService) Search(ctx context.Context, query string, sel catalog.Selection, limit int) (*search.Result, error) {
	req := searchRequest{Query: query, Limit: limit, Platforms: sel.Platforms, Types: sel.Types}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	res, err := s.index.Search(ctx, search.Params{
		Query:     query,
		Platforms: sel.Platforms,
		Types:     sel.Types,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("title search", "query", query, "total", res.Total, "took_ms", res.TookMs)
	return res, nil
}

// DocumentCount returns the number of indexed titles.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
