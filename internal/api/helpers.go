package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/streamdash/streamdash-server/internal/catalog"
)

// SelectionParams reads the platform and type filters straight from the URL,
// since huma's query binding cannot tell an absent parameter from a blank
// one. Embed it in an input struct.
type SelectionParams struct {
	selection catalog.Selection
}

// Resolve implements huma.Resolver.
func (p *SelectionParams) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	p.selection = catalog.ParseSelection(u.Query())
	return nil
}

// Selection returns the parsed filter state.
func (p *SelectionParams) Selection() catalog.Selection {
	return p.selection
}
