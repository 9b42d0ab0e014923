package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamdash/streamdash-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchTitles",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles",
		Summary:     "Search titles",
		Description: "Full-text title search restricted to the platform and type selection. An empty query lists the selection.",
		Tags:        []string{"Search"},
	}, s.handleSearchTitles)
}

// SearchTitlesInput contains parameters for searching titles.
type SearchTitlesInput struct {
	SelectionParams
	Query string `query:"q" maxLength:"200" doc:"Search query"`
	Limit int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
}

// SearchTitlesOutput wraps the search result for Huma.
type SearchTitlesOutput struct {
	Body *search.Result
}

func (s *Server) handleSearchTitles(ctx context.Context, input *SearchTitlesInput) (*SearchTitlesOutput, error) {
	if s.services.Search == nil {
		return nil, huma.Error503ServiceUnavailable("search is not available")
	}

	s.logger.Debug("Search request received",
		"query", input.Query,
		"limit", input.Limit,
	)

	res, err := s.services.Search.Search(ctx, input.Query, input.Selection(), input.Limit)
	if err != nil {
		return nil, apiError(err)
	}
	return &SearchTitlesOutput{Body: res}, nil
}
