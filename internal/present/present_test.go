package present

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/streamdash/streamdash-server/internal/aggregate"
	"github.com/streamdash/streamdash-server/internal/catalog"
	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
)

func sampleSummary() aggregate.Summary {
	return aggregate.Summary{
		Total: 3,
		Types: []aggregate.TypeCount{
			{Platform: catalog.PlatformAmazon, Type: catalog.TypeMovie, Count: 1},
			{Platform: catalog.PlatformDisney, Type: catalog.TypeSeries, Count: 1},
			{Platform: catalog.PlatformNetflix, Type: catalog.TypeMovie, Count: 1},
		},
		Years: []aggregate.YearCount{
			{Year: 2019, Platform: catalog.PlatformNetflix, Count: 1},
			{Year: 2020, Platform: catalog.PlatformDisney, Count: 1},
			{Year: 2022, Platform: catalog.PlatformAmazon, Count: 1},
		},
		Genres: []aggregate.GenreCount{
			{Genre: "Dramas", Count: 2},
			{Genre: "Comédias", Count: 1},
		},
		Countries: []aggregate.CountryCount{
			{Country: "Brazil", Count: 1},
			{Country: "Canada", Count: 1},
			{Country: "United States", Count: 1},
		},
	}
}

func emptySummary() aggregate.Summary {
	return aggregate.Summary{
		Types:     []aggregate.TypeCount{},
		Years:     []aggregate.YearCount{},
		Genres:    []aggregate.GenreCount{},
		Countries: []aggregate.CountryCount{},
	}
}

func decodeOptions(t *testing.T, c Renderable) map[string]any {
	t.Helper()

	js, err := ChartOptions(c)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &out))
	return out
}

func first(t *testing.T, v any) map[string]any {
	t.Helper()
	list := components(v)
	require.NotEmpty(t, list)
	return list[0]
}

func seriesValues(t *testing.T, series map[string]any) []any {
	t.Helper()
	data, ok := series["data"].([]any)
	require.True(t, ok, "series data should be a list")
	out := make([]any, len(data))
	for i, d := range data {
		item, ok := d.(map[string]any)
		require.True(t, ok)
		out[i] = item["value"]
	}
	return out
}

func TestChartOptions_AppliesTheme(t *testing.T) {
	opts := decodeOptions(t, TypesChart(sampleSummary().Types))

	assert.Equal(t, "transparent", opts["backgroundColor"])
	assert.Equal(t, map[string]any{"color": fontColor}, opts["textStyle"])

	xAxis := first(t, opts["xAxis"])
	assert.Equal(t, fontColor, object(xAxis, "axisLabel")["color"])
	assert.Equal(t, fontColor, object(first(t, opts["legend"]), "textStyle")["color"])
}

func TestTypesChart_GroupsByPlatform(t *testing.T) {
	opts := decodeOptions(t, TypesChart(sampleSummary().Types))

	xAxis := first(t, opts["xAxis"])
	assert.Equal(t, []any{"Amazon Prime", "Disney+", "Netflix"}, xAxis["data"])
	assert.Equal(t, labelPlatform, xAxis["name"])

	series := components(opts["series"])
	require.Len(t, series, 2)
	assert.Equal(t, catalog.TypeMovie, series[0]["name"])
	assert.Equal(t, "bar", series[0]["type"])
	assert.Equal(t, []any{1.0, 0.0, 1.0}, seriesValues(t, series[0]))
	assert.Equal(t, catalog.TypeSeries, series[1]["name"])
	assert.Equal(t, []any{0.0, 1.0, 0.0}, seriesValues(t, series[1]))

	colors, ok := opts["color"].([]any)
	require.True(t, ok)
	assert.Equal(t, Set1[0], colors[0])
}

func TestCharts_PaletteStableAcrossRenders(t *testing.T) {
	palette := slices.Clone(Set1)
	builders := map[string]func() Renderable{
		ViewTypes: func() Renderable { return TypesChart(sampleSummary().Types) },
		ViewYears: func() Renderable { return YearsChart(sampleSummary().Years) },
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			for range 3 {
				colors, ok := decodeOptions(t, build())["color"].([]any)
				require.True(t, ok)
				require.NotEmpty(t, colors)
				assert.Equal(t, palette[0], colors[0])
			}
			assert.Equal(t, palette, Set1, "rendering must not reorder the shared palette")
		})
	}
}

func TestYearsChart_ContinuousAxisWithGaps(t *testing.T) {
	opts := decodeOptions(t, YearsChart(sampleSummary().Years))

	xAxis := first(t, opts["xAxis"])
	assert.Equal(t, []any{"2019", "2020", "2021", "2022"}, xAxis["data"])
	assert.Equal(t, "1", object(xAxis, "axisLabel")["interval"], "a label every other year")

	series := components(opts["series"])
	require.Len(t, series, 3)
	assert.Equal(t, catalog.PlatformAmazon, series[0]["name"])
	assert.Equal(t, "line", series[0]["type"])
	assert.Equal(t, []any{"-", "-", "-", 1.0}, seriesValues(t, series[0]))
	assert.Equal(t, catalog.PlatformNetflix, series[2]["name"])
	assert.Equal(t, []any{1.0, "-", "-", "-"}, seriesValues(t, series[2]))
}

func TestGenresChart_LabeledBarsScaledByCount(t *testing.T) {
	opts := decodeOptions(t, GenresChart(sampleSummary().Genres))

	xAxis := first(t, opts["xAxis"])
	assert.Equal(t, []any{"Dramas", "Comédias"}, xAxis["data"])
	assert.InDelta(t, 45.0, object(xAxis, "axisLabel")["rotate"], 0.001)

	vm := first(t, opts["visualMap"])
	assert.InDelta(t, 2.0, vm["max"], 0.001)
	inRange := object(vm, "inRange")
	colors, ok := inRange["color"].([]any)
	require.True(t, ok)
	assert.Len(t, colors, len(Inferno))

	legend := first(t, opts["legend"])
	assert.Equal(t, false, legend["show"])

	series := first(t, opts["series"])
	label := object(series, "label")
	assert.Equal(t, true, label["show"])
	assert.Equal(t, fontColor, label["color"])
}

func TestCountriesChart_WorldMap(t *testing.T) {
	opts := decodeOptions(t, CountriesChart(sampleSummary().Countries))

	series := first(t, opts["series"])
	assert.Equal(t, "map", series["type"])

	data, ok := series["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 3)
	assert.Equal(t, "Brazil", data[0].(map[string]any)["name"])

	assert.Equal(t, mapTitle, first(t, opts["title"])["text"])
	assert.NotContains(t, opts, "xAxis")
}

func TestCharts_EmptySummary(t *testing.T) {
	for _, view := range Views {
		t.Run(view, func(t *testing.T) {
			c, err := BuildChart(view, emptySummary())
			require.NoError(t, err)

			_, err = ChartOptions(c)
			assert.NoError(t, err)
		})
	}
}

func TestBuildChart_UnknownView(t *testing.T) {
	_, err := BuildChart("ratings", sampleSummary())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestIsView(t *testing.T) {
	assert.True(t, IsView(ViewCountries))
	assert.False(t, IsView("ratings"))
}

func renderPage(t *testing.T, in PageInput) string {
	t.Helper()

	data, err := NewPageData(in)
	require.NoError(t, err)

	page, err := NewPage()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf, data))
	return buf.String()
}

func pageInput(sel catalog.Selection) PageInput {
	return PageInput{
		Platforms: []string{catalog.PlatformNetflix, catalog.PlatformDisney, catalog.PlatformAmazon},
		Types:     []string{catalog.TypeMovie, catalog.TypeSeries},
		Selection: sel,
		Summary:   sampleSummary(),
		CSS:       "body { color: rebeccapurple; }",
	}
}

func TestPage_RendersLayout(t *testing.T) {
	html := renderPage(t, pageInput(catalog.SelectAll()))

	assert.Contains(t, html, "<h1>"+PageTitle+"</h1>")
	assert.Contains(t, html, PageSubtitle)
	assert.Contains(t, html, "🔧 Filtros")
	assert.Contains(t, html, "<style>body { color: rebeccapurple; }</style>")
	assert.Contains(t, html, DefaultAssetsHost+"echarts.min.js")
	assert.Contains(t, html, DefaultAssetsHost+"maps/world.js")
	assert.Contains(t, html, "3 títulos selecionados")

	for _, view := range Views {
		assert.Contains(t, html, `id="chart-`+view+`"`)
		assert.Contains(t, html, Headings[view])
		assert.Contains(t, html, `getElementById("chart-`+view+`")`)
	}
	assert.Contains(t, html, `href="/charts/types.png"`)
}

func TestPage_DefaultsToAllSelected(t *testing.T) {
	html := renderPage(t, pageInput(catalog.SelectAll()))

	assert.Contains(t, html, `<option value="Netflix" selected>`)
	assert.Contains(t, html, `<option value="Filmes" selected>`)
	assert.Contains(t, html, `<input type="hidden" name="platform" value="">`)
	assert.Contains(t, html, `<input type="hidden" name="type" value="">`)
}

func TestPage_ReflectsSelection(t *testing.T) {
	html := renderPage(t, pageInput(catalog.Selection{Platforms: []string{catalog.PlatformNetflix}}))

	assert.Contains(t, html, `<option value="Netflix" selected>`)
	assert.Contains(t, html, `<option value="Filmes" selected>`)
	assert.NotContains(t, html, `<option value="Amazon Prime" selected>`)
	assert.Contains(t, html, `<option value="Amazon Prime">`)
	assert.Contains(t, html, `/charts/genres.png?platform=Netflix`)
	assert.Contains(t, html, `/api/v1/summaries/genres?platform=Netflix`)
}

func TestPage_ErrorReplacesCharts(t *testing.T) {
	in := pageInput(catalog.Selection{Types: []string{"Documentary"}})
	data := NewErrorPageData(in, "validation failed", []string{`types[0]: unknown type "Documentary"`})

	page, err := NewPage()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf, data))
	html := buf.String()

	assert.Contains(t, html, `<div class="error" role="alert">`)
	assert.Contains(t, html, "<p>validation failed</p>")
	assert.Contains(t, html, "<li>types[0]: unknown type &#34;Documentary&#34;</li>")
	assert.Contains(t, html, `<option value="Netflix" selected>`)
	assert.NotContains(t, html, `<option value="Filmes" selected>`)
	assert.NotContains(t, html, "títulos selecionados")
	for _, view := range Views {
		assert.NotContains(t, html, `id="chart-`+view+`"`)
	}
}

func TestPage_CustomAssetsHost(t *testing.T) {
	in := pageInput(catalog.SelectAll())
	in.AssetsHost = "/assets/"

	html := renderPage(t, in)
	assert.Contains(t, html, `src="/assets/echarts.min.js"`)
	assert.NotContains(t, html, DefaultAssetsHost)
}

func TestRenderPNG(t *testing.T) {
	summaries := map[string]aggregate.Summary{
		"sample": sampleSummary(),
		"empty":  emptySummary(),
	}
	for name, summary := range summaries {
		for _, view := range Views {
			t.Run(name+"/"+view, func(t *testing.T) {
				var buf bytes.Buffer
				require.NoError(t, RenderPNG(&buf, view, summary))
				assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "output should be a PNG")
			})
		}
	}
}

func TestYearsPNG_AxisEndsOnTick(t *testing.T) {
	tests := []struct {
		name   string
		rows   []aggregate.YearCount
		lo, hi float64
	}{
		{name: "empty", rows: nil, lo: aggregate.MinReleaseYear, hi: aggregate.MinReleaseYear + 2},
		{name: "single year", rows: []aggregate.YearCount{{Year: 2005, Platform: catalog.PlatformDisney, Count: 1}}, lo: 2005, hi: 2007},
		{name: "odd span", rows: sampleSummary().Years, lo: 2019, hi: 2023},
		{name: "even span", rows: []aggregate.YearCount{
			{Year: 2010, Platform: catalog.PlatformNetflix, Count: 2},
			{Year: 2014, Platform: catalog.PlatformNetflix, Count: 1},
		}, lo: 2010, hi: 2014},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := yearsPNG(tt.rows)

			ticks := ch.XAxis.Ticks
			require.GreaterOrEqual(t, len(ticks), 2)
			assert.InDelta(t, tt.lo, ticks[0].Value, 0.001)
			assert.InDelta(t, tt.hi, ticks[len(ticks)-1].Value, 0.001)

			var buf bytes.Buffer
			require.NoError(t, ch.Render(chart.PNG, &buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
		})
	}
}

func TestRenderPNG_UnknownView(t *testing.T) {
	err := RenderPNG(&bytes.Buffer{}, "ratings", sampleSummary())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestScaleColor(t *testing.T) {
	assert.Equal(t, hexColor(Plasma[0]), scaleColor(Plasma, 0, 10))
	assert.Equal(t, hexColor(Plasma[len(Plasma)-1]), scaleColor(Plasma, 10, 10))
	assert.Equal(t, hexColor(Plasma[0]), scaleColor(Plasma, 5, 0))
}

func TestWriteTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTables(&buf, sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, PageTitle)
	assert.Contains(t, out, "3 títulos selecionados")
	for _, want := range []string{labelPlatform, "Netflix", "Disney+", "2019", "Dramas", "Brazil"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 4, strings.Count(out, "╭"), "one table per summary")
}

func TestWriteTables_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTables(&buf, emptySummary()))
	assert.Contains(t, buf.String(), "0 títulos selecionados")
}
