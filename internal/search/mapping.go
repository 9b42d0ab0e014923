package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Indexed field names.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldDirector    = "director"
	fieldCast        = "cast"
	fieldPlatform    = "platform"
	fieldType        = "type"
	fieldGenres      = "genre_slugs"
	fieldGenreLabels = "genres"
	fieldYear        = "release_year"
)

// buildIndexMapping maps titles for full-text search and the filter fields
// for exact matching. Catalog titles span many languages, so the title
// field uses the standard analyzer rather than English stemming.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	doc := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = true
	titleField.IncludeTermVectors = true
	doc.AddFieldMappingsAt(fieldTitle, titleField)

	descField := bleve.NewTextFieldMapping()
	descField.Analyzer = en.AnalyzerName
	descField.Store = false
	doc.AddFieldMappingsAt(fieldDescription, descField)

	for _, name := range []string{fieldDirector, fieldCast} {
		people := bleve.NewTextFieldMapping()
		people.Analyzer = simple.Name
		people.Store = false
		doc.AddFieldMappingsAt(name, people)
	}

	// Keyword fields hold the exact display values used by the filters.
	for _, name := range []string{fieldPlatform, fieldType, fieldGenres} {
		kw := bleve.NewTextFieldMapping()
		kw.Analyzer = keyword.Name
		kw.Store = true
		doc.AddFieldMappingsAt(name, kw)
	}

	// Display labels are only read back into hits.
	labels := bleve.NewTextFieldMapping()
	labels.Analyzer = keyword.Name
	labels.Store = true
	doc.AddFieldMappingsAt(fieldGenreLabels, labels)

	year := bleve.NewNumericFieldMapping()
	year.Store = true
	doc.AddFieldMappingsAt(fieldYear, year)

	indexMapping.AddDocumentMapping("_default", doc)
	return indexMapping
}
