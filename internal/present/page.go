package present

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"slices"

	"github.com/streamdash/streamdash-server/internal/aggregate"
	"github.com/streamdash/streamdash-server/internal/catalog"
	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
)

//go:embed templates/*.html
var templates embed.FS

// DefaultAssetsHost serves echarts.min.js and maps/world.js.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Page header texts.
const (
	PageTitle    = "Análise de Catálogos de Streaming"
	PageSubtitle = "Explorando dados e padrões nos catálogos de streaming"
)

// Control labels.
const (
	LabelPlatform = "Plataforma"
	LabelType     = "Tipo"
)

// Option is one entry of a multi-select control.
type Option struct {
	Value    string
	Selected bool
}

// Control is a multi-select filter control.
type Control struct {
	Name    string
	Label   string
	Options []Option
}

// Section is one chart on the page.
type Section struct {
	View    string
	Heading string
	Options template.JS
	PNG     string
	Data    string
}

// PageData is everything the dashboard template renders.
type PageData struct {
	Title      string
	Subtitle   string
	Controls   []Control
	Sections   []Section
	Total      int
	CSS        template.CSS
	AssetsHost string
	// Error replaces the charts when the selection was rejected.
	Error        string
	ErrorDetails []string
}

// PageInput is the result of one render pass plus the page's static inputs.
type PageInput struct {
	Platforms  []string
	Types      []string
	Selection  catalog.Selection
	Summary    aggregate.Summary
	CSS        string
	AssetsHost string
}

// BuildChart returns the chart for one summary view.
func BuildChart(view string, s aggregate.Summary) (Renderable, error) {
	switch view {
	case ViewTypes:
		return TypesChart(s.Types), nil
	case ViewYears:
		return YearsChart(s.Years), nil
	case ViewGenres:
		return GenresChart(s.Genres), nil
	case ViewCountries:
		return CountriesChart(s.Countries), nil
	default:
		return nil, domainerrors.NotFoundf("unknown summary view %q", view)
	}
}

// NewPageData builds the four chart sections and the filter controls.
// Controls default to every value selected.
func NewPageData(in PageInput) (PageData, error) {
	host := in.AssetsHost
	if host == "" {
		host = DefaultAssetsHost
	}

	data := PageData{
		Title:    PageTitle,
		Subtitle: PageSubtitle,
		Controls: []Control{
			newControl(catalog.ParamPlatform, LabelPlatform, in.Platforms, in.Selection.Platforms),
			newControl(catalog.ParamType, LabelType, in.Types, in.Selection.Types),
		},
		Total:      in.Summary.Total,
		CSS:        template.CSS(in.CSS), //#nosec G203 -- operator supplied stylesheet
		AssetsHost: host,
	}

	query := in.Selection.Query().Encode()
	for _, view := range Views {
		chart, err := BuildChart(view, in.Summary)
		if err != nil {
			return PageData{}, err
		}
		options, err := ChartOptions(chart)
		if err != nil {
			return PageData{}, fmt.Errorf("%s chart: %w", view, err)
		}
		data.Sections = append(data.Sections, Section{
			View:    view,
			Heading: Headings[view],
			Options: options,
			PNG:     withQuery("/charts/"+view+".png", query),
			Data:    withQuery("/api/v1/summaries/"+view, query),
		})
	}
	return data, nil
}

// NewErrorPageData builds a page that keeps the filter controls but shows
// message and details instead of the charts.
func NewErrorPageData(in PageInput, message string, details []string) PageData {
	host := in.AssetsHost
	if host == "" {
		host = DefaultAssetsHost
	}
	return PageData{
		Title:    PageTitle,
		Subtitle: PageSubtitle,
		Controls: []Control{
			newControl(catalog.ParamPlatform, LabelPlatform, in.Platforms, in.Selection.Platforms),
			newControl(catalog.ParamType, LabelType, in.Types, in.Selection.Types),
		},
		CSS:          template.CSS(in.CSS), //#nosec G203 -- operator supplied stylesheet
		AssetsHost:   host,
		Error:        message,
		ErrorDetails: details,
	}
}

func newControl(name, label string, domain, selected []string) Control {
	c := Control{Name: name, Label: label, Options: make([]Option, len(domain))}
	for i, v := range domain {
		c.Options[i] = Option{Value: v, Selected: selected == nil || slices.Contains(selected, v)}
	}
	return c
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}

// Page renders the dashboard HTML.
type Page struct {
	tmpl *template.Template
}

// NewPage parses the embedded dashboard template.
func NewPage() (*Page, error) {
	tmpl, err := template.ParseFS(templates, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Page{tmpl: tmpl}, nil
}

// Render writes the full page.
func (p *Page) Render(w io.Writer, data PageData) error {
	if err := p.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		return fmt.Errorf("execute dashboard template: %w", err)
	}
	return nil
}
