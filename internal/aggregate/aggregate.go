// Package aggregate builds the group-by-count summaries the dashboard plots.
//
// Every function is a single pass over a catalog.View followed by a sort.
// Empty views yield empty, non-nil slices.
package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/streamdash/streamdash-server/internal/catalog"
	"github.com/streamdash/streamdash-server/internal/genre"
)

const (
	// MinReleaseYear is the earliest year plotted by the release timeline.
	MinReleaseYear = 1980
	// TopGenreLimit is the number of genres kept by TopGenres.
	TopGenreLimit = 15
)

// TypeCount is the number of titles of one type on one platform.
type TypeCount struct {
	Platform string `json:"platform"`
	Type     string `json:"type"`
	Count    int    `json:"count"`
}

// YearCount is the number of titles released in one year on one platform.
type YearCount struct {
	Year     int    `json:"year"`
	Platform string `json:"platform"`
	Count    int    `json:"count"`
}

// GenreCount is the number of titles carrying one genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// CountryCount is the number of titles attributed to one country.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// Summary bundles the four summaries of one view.
type Summary struct {
	Total     int            `json:"total"`
	Types     []TypeCount    `json:"types"`
	Years     []YearCount    `json:"years"`
	Genres    []GenreCount   `json:"genres"`
	Countries []CountryCount `json:"countries"`
}

// Build runs every summary over the view.
func Build(view catalog.View) Summary {
	return Summary{
		Total:     view.Len(),
		Types:     TypesByPlatform(view),
		Years:     YearsByPlatform(view),
		Genres:    TopGenres(view),
		Countries: Countries(view),
	}
}

type platformType struct {
	platform, typ string
}

// TypesByPlatform counts titles per (platform, type), sorted by platform
// then type.
func TypesByPlatform(view catalog.View) []TypeCount {
	counts := make(map[platformType]int)
	for t := range view.All() {
		counts[platformType{t.Platform, t.Type}]++
	}

	out := make([]TypeCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, TypeCount{Platform: k.platform, Type: k.typ, Count: n})
	}
	slices.SortFunc(out, func(a, b TypeCount) int {
		return cmp.Or(strings.Compare(a.Platform, b.Platform), strings.Compare(a.Type, b.Type))
	})
	return out
}

type yearPlatform struct {
	year     int
	platform string
}

// YearsByPlatform counts titles per (release year, platform) for years from
// MinReleaseYear on, sorted by year then platform. Titles without a release
// year are skipped.
func YearsByPlatform(view catalog.View) []YearCount {
	counts := make(map[yearPlatform]int)
	for t := range view.All() {
		if !t.HasReleaseYear() || t.ReleaseYear < MinReleaseYear {
			continue
		}
		counts[yearPlatform{t.ReleaseYear, t.Platform}]++
	}

	out := make([]YearCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, YearCount{Year: k.year, Platform: k.platform, Count: n})
	}
	slices.SortFunc(out, func(a, b YearCount) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), strings.Compare(a.Platform, b.Platform))
	})
	return out
}

// TopGenres counts every genre occurrence outside the stoplist and keeps the
// TopGenreLimit most frequent, most frequent first. Ties keep the order in
// which the genres first appear in the view.
func TopGenres(view catalog.View) []GenreCount {
	index := make(map[string]int)
	out := []GenreCount{}
	for t := range view.All() {
		for _, g := range t.Genres {
			if g == "" || genre.IsStopped(g) {
				continue
			}
			i, ok := index[g]
			if !ok {
				i = len(out)
				index[g] = i
				out = append(out, GenreCount{Genre: g})
			}
			out[i].Count++
		}
	}

	slices.SortStableFunc(out, func(a, b GenreCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(out) > TopGenreLimit {
		out = out[:TopGenreLimit]
	}
	return out
}

// Countries splits each title's country list and counts titles per country,
// sorted by country name. Titles without a country and blank names are
// skipped.
func Countries(view catalog.View) []CountryCount {
	counts := make(map[string]int)
	for t := range view.All() {
		if t.Country == "" {
			continue
		}
		for part := range strings.SplitSeq(t.Country, ",") {
			name := norm.NFC.String(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			counts[name]++
		}
	}

	out := make([]CountryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CountryCount{Country: name, Count: n})
	}
	slices.SortFunc(out, func(a, b CountryCount) int {
		return strings.Compare(a.Country, b.Country)
	})
	return out
}
