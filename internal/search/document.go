// Package search provides full-text title search over the catalog using Bleve.
// The index lives in memory and is built once from the immutable catalog.
package search

import (
	"strconv"

	"github.com/streamdash/streamdash-server/internal/catalog"
	"github.com/streamdash/streamdash-server/internal/genre"
)

// TitleDocument is the indexed form of one catalog title. The document ID is
// the title's catalog index.
type TitleDocument struct {
	ID          string
	Title       string
	Description string
	Director    string
	Cast        string
	Platform    string
	Type        string
	Genres      []string
	GenreSlugs  []string
	ReleaseYear int
}

// TitleToDocument converts the title at catalog index i.
func TitleToDocument(i int, t *catalog.Title) *TitleDocument {
	doc := &TitleDocument{
		ID:          strconv.Itoa(i),
		Title:       t.Title,
		Description: t.Description,
		Director:    t.Director,
		Cast:        t.Cast,
		Platform:    t.Platform,
		Type:        t.Type,
		ReleaseYear: t.ReleaseYear,
	}
	for _, g := range t.Genres {
		if g == "" {
			continue
		}
		doc.Genres = append(doc.Genres, g)
		if slug := genre.Slugify(g); slug != "" {
			doc.GenreSlugs = append(doc.GenreSlugs, slug)
		}
	}
	return doc
}

// ToMap returns the document keyed by the mapped field names.
func (d *TitleDocument) ToMap() map[string]any {
	m := map[string]any{
		fieldTitle:    d.Title,
		fieldPlatform: d.Platform,
		fieldType:     d.Type,
	}
	if d.Description != "" {
		m[fieldDescription] = d.Description
	}
	if d.Director != "" {
		m[fieldDirector] = d.Director
	}
	if d.Cast != "" {
		m[fieldCast] = d.Cast
	}
	if len(d.GenreSlugs) > 0 {
		m[fieldGenres] = d.GenreSlugs
	}
	if len(d.Genres) > 0 {
		m[fieldGenreLabels] = d.Genres
	}
	if d.ReleaseYear != 0 {
		m[fieldYear] = float64(d.ReleaseYear)
	}
	return m
}
