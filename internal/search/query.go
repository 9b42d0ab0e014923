package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit is the page size used when Params.Limit is zero.
const DefaultLimit = 20

// Params configures a title search. Platforms and Types follow the catalog
// selection rules: nil matches everything, empty matches nothing.
type Params struct {
	Query     string
	Platforms []string
	Types     []string
	Limit     int
	Offset    int
}

// Result is one page of search hits plus facet counts over every match.
type Result struct {
	Query     string       `json:"query"`
	Total     uint64       `json:"total"`
	TookMs    int64        `json:"tookMs"`
	Hits      []Hit        `json:"hits"`
	Platforms []FacetCount `json:"platforms"`
	Types     []FacetCount `json:"types"`
}

// Hit is a single matching title.
type Hit struct {
	Index       int               `json:"index"`
	Score       float64           `json:"score"`
	Title       string            `json:"title"`
	Platform    string            `json:"platform"`
	Type        string            `json:"type"`
	ReleaseYear int               `json:"releaseYear,omitempty"`
	Genres      []string          `json:"genres,omitempty"`
	GenreSlugs  []string          `json:"genreSlugs,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// FacetCount is a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

func emptyResult(q string) *Result {
	return &Result{Query: q, Hits: []Hit{}, Platforms: []FacetCount{}, Types: []FacetCount{}}
}

// Search runs a query restricted to the selected platforms and types.
func (s *SearchIndex) Search(ctx context.Context, params Params) (*Result, error) {
	if (params.Platforms != nil && len(params.Platforms) == 0) ||
		(params.Types != nil && len(params.Types) == 0) {
		return emptyResult(params.Query), nil
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	req.SortBy([]string{"-_score", fieldTitle})
	req.Fields = []string{fieldTitle, fieldPlatform, fieldType, fieldYear, fieldGenres, fieldGenreLabels}
	req.AddFacet(fieldPlatform, bleve.NewFacetRequest(fieldPlatform, 10))
	req.AddFacet(fieldType, bleve.NewFacetRequest(fieldType, 10))
	if params.Query != "" {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField(fieldTitle)
	}

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := emptyResult(params.Query)
	out.Total = res.Total
	out.TookMs = res.Took.Milliseconds()

	for _, h := range res.Hits {
		idx, err := strconv.Atoi(h.ID)
		if err != nil {
			return nil, fmt.Errorf("unexpected document id %q: %w", h.ID, err)
		}
		hit := Hit{
			Index:  idx,
			Score:  h.Score,
			Title:  stringField(h.Fields, fieldTitle),
			Genres: stringsField(h.Fields, fieldGenreLabels),
		}
		hit.GenreSlugs = stringsField(h.Fields, fieldGenres)
		hit.Platform = stringField(h.Fields, fieldPlatform)
		hit.Type = stringField(h.Fields, fieldType)
		if y, ok := h.Fields[fieldYear].(float64); ok {
			hit.ReleaseYear = int(y)
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		out.Hits = append(out.Hits, hit)
	}

	out.Platforms = facetCounts(res, fieldPlatform)
	out.Types = facetCounts(res, fieldType)
	return out, nil
}

// buildSearchQuery ANDs the text query with one OR-group per restricted
// dimension.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		title := bleve.NewMatchQuery(q)
		title.SetField(fieldTitle)
		title.SetBoost(3.0)

		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetField(fieldTitle)
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(0.8)

		people := bleve.NewMatchQuery(q)
		people.SetField(fieldCast)

		director := bleve.NewMatchQuery(q)
		director.SetField(fieldDirector)

		desc := bleve.NewMatchQuery(q)
		desc.SetField(fieldDescription)
		desc.SetBoost(0.5)

		text := []query.Query{title, fuzzy, people, director, desc}
		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField(fieldTitle)
			prefix.SetBoost(0.5)
			text = append(text, prefix)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(text...))
	}

	if params.Platforms != nil {
		queries = append(queries, anyTerm(fieldPlatform, params.Platforms))
	}
	if params.Types != nil {
		queries = append(queries, anyTerm(fieldType, params.Types))
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

func anyTerm(field string, values []string) query.Query {
	terms := make([]query.Query, len(values))
	for i, v := range values {
		tq := bleve.NewTermQuery(v)
		tq.SetField(field)
		terms[i] = tq
	}
	return bleve.NewDisjunctionQuery(terms...)
}

func facetCounts(res *bleve.SearchResult, field string) []FacetCount {
	out := []FacetCount{}
	facet, ok := res.Facets[field]
	if !ok || facet.Terms == nil {
		return out
	}
	for _, term := range facet.Terms.Terms() {
		out = append(out, FacetCount{Value: term.Term, Count: term.Count})
	}
	return out
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}

// stringsField reads a stored field that holds one or many strings.
func stringsField(fields map[string]any, name string) []string {
	switch v := fields[name].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
