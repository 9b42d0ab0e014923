// Package service holds the read-only operations the HTTP layer and the
// report command call: dashboard render passes and title search.
package service

import (
	"context"
	"log/slog"

	"github.com/streamdash/streamdash-server/internal/aggregate"
	"github.com/streamdash/streamdash-server/internal/catalog"
	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
	"github.com/streamdash/streamdash-server/internal/id"
	"github.com/streamdash/streamdash-server/internal/present"
	"github.com/streamdash/streamdash-server/internal/validation"
)

// renderIDPrefix prefixes render ids in logs and responses.
const renderIDPrefix = "rnd"

// FilterOptions are the domains of the two filter controls, in first
// appearance order.
type FilterOptions struct {
	Platforms []string `json:"platforms" doc:"Every platform in the catalog"`
	Types     []string `json:"types" doc:"Every recoded title type in the catalog"`
}

// Render is the outcome of one render pass.
type Render struct {
	ID        string            `json:"id" doc:"Render id, also logged"`
	Selection catalog.Selection `json:"selection" doc:"Selection with every value listed explicitly"`
	Summary   aggregate.Summary `json:"summary"`
}

// selectionRequest mirrors catalog.Selection with domain checks.
type selectionRequest struct {
	Platforms []string `json:"platforms" validate:"dive,platform"`
	Types     []string `json:"types" validate:"dive,type"`
}

// newSelectionValidator accepts only platforms and types present in c.
func newSelectionValidator(c *catalog.Catalog) (*validation.Validator, error) {
	v := validation.New()
	if err := v.RegisterDomain(catalog.ParamPlatform, c.Platforms()); err != nil {
		return nil, err
	}
	if err := v.RegisterDomain(catalog.ParamType, c.Types()); err != nil {
		return nil, err
	}
	return v, nil
}

// DashboardService runs render passes over the immutable catalog. Safe for
// concurrent use.
type DashboardService struct {
	catalog   *catalog.Catalog
	validator *validation.Validator
	logger    *slog.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(c *catalog.Catalog, logger *slog.Logger) (*DashboardService, error) {
	v, err := newSelectionValidator(c)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DashboardService{
		catalog:   c,
		validator: v,
		logger:    logger,
	}, nil
}

// Options returns the filter control domains.
func (s *DashboardService) Options() FilterOptions {
	return FilterOptions{
		Platforms: s.catalog.Platforms(),
		Types:     s.catalog.Types(),
	}
}

// TitleCount returns the number of titles in the catalog.
func (s *DashboardService) TitleCount() int {
	return s.catalog.Len()
}

// ValidateSelection rejects values outside the filter domains.
func (s *DashboardService) ValidateSelection(sel catalog.Selection) error {
	return s.validator.Validate(selectionRequest{Platforms: sel.Platforms, Types: sel.Types})
}

// Render filters the catalog and builds all four summaries.
func (s *DashboardService) Render(ctx context.Context, sel catalog.Selection) (*Render, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ValidateSelection(sel); err != nil {
		return nil, err
	}

	renderID, err := id.Generate(renderIDPrefix)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate render id")
	}

	view := catalog.Filter(s.catalog, sel)
	summary := aggregate.Build(view)

	s.logger.Info("dashboard rendered",
		"render_id", renderID,
		"rows", view.Len(),
		"catalog_rows", s.catalog.Len(),
		"genres", len(summary.Genres),
		"countries", len(summary.Countries),
	)

	return &Render{
		ID:        renderID,
		Selection: sel.Resolve(s.catalog),
		Summary:   summary,
	}, nil
}

// Summary builds a single summary view. The result is one of the aggregate
// row slices.
func (s *DashboardService) Summary(ctx context.Context, sel catalog.Selection, view string) (any, error) {
	if !present.IsView(view) {
		return nil, domainerrors.NotFoundf("unknown summary view %q", view)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ValidateSelection(sel); err != nil {
		return nil, err
	}

	filtered := catalog.Filter(s.catalog, sel)
	s.logger.Debug("summary built", "view", view, "rows", filtered.Len())

	switch view {
	case present.ViewTypes:
		return aggregate.TypesByPlatform(filtered), nil
	case present.ViewYears:
		return aggregate.YearsByPlatform(filtered), nil
	case present.ViewGenres:
		return aggregate.TopGenres(filtered), nil
	default:
		return aggregate.Countries(filtered), nil
	}
}
