package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamdash/streamdash-server/internal/present"
	"github.com/streamdash/streamdash-server/internal/service"
)

func (s *Server) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFilters",
		Method:      http.MethodGet,
		Path:        "/api/v1/filters",
		Summary:     "Filter options",
		Description: "Returns every platform and title type, in catalog order",
		Tags:        []string{"Dashboard"},
	}, s.handleGetFilters)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard",
		Summary:     "Render dashboard",
		Description: "Filters the catalog by the repeated platform and type query parameters and returns all four summaries. " +
			"An absent parameter selects every value; a blank one selects none.",
		Tags: []string{"Dashboard"},
	}, s.handleGetDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSummary",
		Method:      http.MethodGet,
		Path:        "/api/v1/summaries/{view}",
		Summary:     "Single summary",
		Description: "Returns one summary table for the selection",
		Tags:        []string{"Dashboard"},
	}, s.handleGetSummary)
}

// === DTOs ===

// FiltersOutput contains the filter control domains.
type FiltersOutput struct {
	Body service.FilterOptions
}

// DashboardInput contains the filter selection.
type DashboardInput struct {
	SelectionParams
}

// DashboardOutput contains one render pass.
type DashboardOutput struct {
	Body *service.Render
}

// SummaryInput selects a summary view.
type SummaryInput struct {
	SelectionParams
	View string `path:"view" doc:"Summary view: types, years, genres, or countries"`
}

// SummaryOutput contains the rows of one summary view.
type SummaryOutput struct {
	Body any
}

// === Handlers ===

func (s *Server) handleGetFilters(_ context.Context, _ *struct{}) (*FiltersOutput, error) {
	return &FiltersOutput{Body: s.services.Dashboard.Options()}, nil
}

func (s *Server) handleGetDashboard(ctx context.Context, input *DashboardInput) (*DashboardOutput, error) {
	render, err := s.services.Dashboard.Render(ctx, input.Selection())
	if err != nil {
		return nil, apiError(err)
	}
	return &DashboardOutput{Body: render}, nil
}

func (s *Server) handleGetSummary(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	if !present.IsView(input.View) {
		return nil, huma.Error404NotFound("unknown summary view")
	}
	rows, err := s.services.Dashboard.Summary(ctx, input.Selection(), input.View)
	if err != nil {
		return nil, apiError(err)
	}
	return &SummaryOutput{Body: rows}, nil
}
