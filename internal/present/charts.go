// Package present turns aggregate summaries into what people look at: ECharts
// options for the dashboard page, PNG snapshots and terminal tables.
package present

import (
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/streamdash/streamdash-server/internal/aggregate"
)

// Summary view names, shared by the page, the PNG export and the JSON API.
const (
	ViewTypes     = "types"
	ViewYears     = "years"
	ViewGenres    = "genres"
	ViewCountries = "countries"
)

// Views lists the summary views in page order.
var Views = []string{ViewTypes, ViewYears, ViewGenres, ViewCountries}

// IsView reports whether name is a known summary view.
func IsView(name string) bool {
	return slices.Contains(Views, name)
}

// Headings are the section titles shown above each chart.
var Headings = map[string]string{
	ViewTypes:     "🎥 Quantidade de Filmes e Séries por Plataforma",
	ViewYears:     "📅 Evolução de Lançamentos por Ano",
	ViewGenres:    "🎭 Gêneros Mais Comuns",
	ViewCountries: "🌍 Quantidade de Títulos por País",
}

// Axis and legend labels.
const (
	labelPlatform = "Plataforma"
	labelCount    = "Quantidade"
	labelYear     = "Ano de Lançamento"
	labelTitles   = "Quantidade de Títulos"
	labelGenre    = "Gênero"
	mapTitle      = "Quantidade de Títulos por País"
)

// Set1 is the categorical palette for platform and type series.
var Set1 = []string{
	"#E41A1C", "#377EB8", "#4DAF4A", "#984EA3", "#FF7F00",
	"#FFFF33", "#A65628", "#F781BF", "#999999",
}

// Inferno is the sequential scale for the genre bars.
var Inferno = []string{
	"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
	"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4",
}

// Plasma is the sequential scale for the country map.
var Plasma = []string{
	"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
	"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
}

// TypesChart is a grouped bar chart: one group per platform, one bar per type.
func TypesChart(rows []aggregate.TypeCount) *charts.Bar {
	var platforms, types []string
	counts := make(map[[2]string]int, len(rows))
	for _, r := range rows {
		platforms = appendUnique(platforms, r.Platform)
		types = appendUnique(types, r.Type)
		counts[[2]string{r.Platform, r.Type}] = r.Count
	}
	slices.Sort(types)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithColorsOpts(opts.Colors(slices.Clone(Set1))),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "top"}),
		charts.WithXAxisOpts(opts.XAxis{Name: labelPlatform}),
		charts.WithYAxisOpts(opts.YAxis{Name: labelCount}),
	)
	bar.SetXAxis(platforms)
	for _, typ := range types {
		data := make([]opts.BarData, len(platforms))
		for i, p := range platforms {
			data[i] = opts.BarData{Name: p, Value: counts[[2]string{p, typ}]}
		}
		bar.AddSeries(typ, data)
	}
	return bar
}

// YearsChart is a line per platform over a continuous year axis with a
// label every other year. Years a platform has no titles in are gaps.
func YearsChart(rows []aggregate.YearCount) *charts.Line {
	years := yearAxis(rows)
	var platforms []string
	counts := make(map[string]map[int]int)
	for _, r := range rows {
		if _, ok := counts[r.Platform]; !ok {
			counts[r.Platform] = make(map[int]int)
			platforms = append(platforms, r.Platform)
		}
		counts[r.Platform][r.Year] = r.Count
	}
	slices.Sort(platforms)

	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = strconv.Itoa(y)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithColorsOpts(opts.Colors(slices.Clone(Set1))),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "top"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      labelYear,
			AxisLabel: &opts.AxisLabel{Interval: "1"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: labelTitles}),
	)
	line.SetXAxis(labels)
	for _, p := range platforms {
		data := make([]opts.LineData, len(years))
		for i, y := range years {
			if n, ok := counts[p][y]; ok {
				data[i] = opts.LineData{Value: n}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(p, data)
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), ConnectNulls: opts.Bool(true)}),
	)
	return line
}

// yearAxis returns every year from the first to the last present in rows.
func yearAxis(rows []aggregate.YearCount) []int {
	if len(rows) == 0 {
		return nil
	}
	lo, hi := rows[0].Year, rows[0].Year
	for _, r := range rows {
		lo = min(lo, r.Year)
		hi = max(hi, r.Year)
	}
	years := make([]int, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		years = append(years, y)
	}
	return years
}

// GenresChart is a labeled bar chart with bars colored by magnitude.
func GenresChart(rows []aggregate.GenreCount) *charts.Bar {
	names := make([]string, len(rows))
	data := make([]opts.BarData, len(rows))
	peak := 0
	for i, r := range rows {
		names[i] = r.Genre
		data[i] = opts.BarData{Name: r.Genre, Value: r.Count}
		peak = max(peak, r.Count)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      labelGenre,
			AxisLabel: &opts.AxisLabel{Interval: "0", Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: labelTitles}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:    opts.Bool(false),
			Min:     0,
			Max:     float32(max(peak, 1)),
			InRange: &opts.VisualMapInRange{Color: slices.Clone(Inferno)},
		}),
	)
	bar.SetXAxis(names)
	bar.AddSeries(labelTitles, data)
	bar.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

// CountriesChart is a world choropleth keyed by country name. Names the
// world map does not know are not drawn.
func CountriesChart(rows []aggregate.CountryCount) *charts.Map {
	data := make([]opts.MapData, len(rows))
	peak := 0
	for i, r := range rows {
		data[i] = opts.MapData{Name: r.Country, Value: r.Count}
		peak = max(peak, r.Count)
	}

	m := charts.NewMap()
	m.RegisterMapType("world")
	m.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: mapTitle, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(peak, 1)),
			InRange:    &opts.VisualMapInRange{Color: slices.Clone(Plasma)},
		}),
	)
	m.AddSeries(labelTitles, data)
	return m
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
