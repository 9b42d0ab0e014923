package present

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/streamdash/streamdash-server/internal/aggregate"
	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
)

const (
	pngWidth  = 1024
	pngHeight = 512
	// TopCountries is how many countries the PNG bar chart keeps.
	TopCountries = 20
	noData       = "Sem dados"
)

var (
	pngBackground = hexColor("#0e1117")
	pngFont       = drawing.ColorWhite
)

type pngChart interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// RenderPNG writes a PNG snapshot of one summary view. Empty summaries
// produce a blank chart.
func RenderPNG(w io.Writer, view string, s aggregate.Summary) error {
	var r pngChart
	switch view {
	case ViewTypes:
		bars := make([]chart.Value, len(s.Types))
		types := make([]string, 0, 2)
		for _, tc := range s.Types {
			types = appendUnique(types, tc.Type)
		}
		slices.Sort(types)
		for i, tc := range s.Types {
			bars[i] = chart.Value{
				Label: tc.Platform + " · " + tc.Type,
				Value: float64(tc.Count),
				Style: chart.Style{FillColor: hexColor(Set1[slices.Index(types, tc.Type)%len(Set1)])},
			}
		}
		r = barChart(plainHeading(ViewTypes), bars, 0)
	case ViewYears:
		r = yearsPNG(s.Years)
	case ViewGenres:
		bars := make([]chart.Value, len(s.Genres))
		peak := 0
		for _, g := range s.Genres {
			peak = max(peak, g.Count)
		}
		for i, g := range s.Genres {
			bars[i] = chart.Value{
				Label: g.Genre,
				Value: float64(g.Count),
				Style: chart.Style{FillColor: scaleColor(Inferno, g.Count, peak)},
			}
		}
		r = barChart(plainHeading(ViewGenres), bars, 45)
	case ViewCountries:
		top := slices.Clone(s.Countries)
		slices.SortStableFunc(top, func(a, b aggregate.CountryCount) int {
			return cmp.Compare(b.Count, a.Count)
		})
		top = top[:min(len(top), TopCountries)]
		peak := 0
		if len(top) > 0 {
			peak = top[0].Count
		}
		bars := make([]chart.Value, len(top))
		for i, c := range top {
			bars[i] = chart.Value{
				Label: c.Country,
				Value: float64(c.Count),
				Style: chart.Style{FillColor: scaleColor(Plasma, c.Count, peak)},
			}
		}
		r = barChart(plainHeading(ViewCountries), bars, 45)
	default:
		return domainerrors.NotFoundf("unknown summary view %q", view)
	}

	if err := r.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s png: %w", view, err)
	}
	return nil
}

func barChart(title string, bars []chart.Value, rotate float64) *chart.BarChart {
	peak := 0.0
	for _, b := range bars {
		peak = max(peak, b.Value)
	}
	if len(bars) == 0 {
		bars = []chart.Value{{Label: noData, Value: 0}}
	}

	// Bars and gaps share the canvas so any count fits.
	slot := (pngWidth - 160) / len(bars)
	barWidth := max(4, slot*2/3)

	return &chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: pngFont},
		Width:      pngWidth,
		Height:     pngHeight,
		BarWidth:   barWidth,
		BarSpacing: max(1, slot-barWidth),
		Background: chart.Style{
			FillColor: pngBackground,
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: pngBackground},
		XAxis:  chart.Style{FontColor: pngFont, StrokeColor: pngFont, TextRotationDegrees: rotate},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: pngFont, StrokeColor: pngFont},
			Range:          &chart.ContinuousRange{Min: 0, Max: max(peak, 1)},
			ValueFormatter: intFormatter,
		},
		Bars: bars,
	}
}

func yearsPNG(rows []aggregate.YearCount) *chart.Chart {
	byPlatform := make(map[string]*chart.ContinuousSeries)
	var platforms []string
	lo, hi, peak := aggregate.MinReleaseYear, aggregate.MinReleaseYear+1, 0
	if len(rows) > 0 {
		lo, hi = rows[0].Year, rows[0].Year
	}
	for _, r := range rows {
		s, ok := byPlatform[r.Platform]
		if !ok {
			s = &chart.ContinuousSeries{Name: r.Platform}
			byPlatform[r.Platform] = s
			platforms = append(platforms, r.Platform)
		}
		s.XValues = append(s.XValues, float64(r.Year))
		s.YValues = append(s.YValues, float64(r.Count))
		lo, hi, peak = min(lo, r.Year), max(hi, r.Year), max(peak, r.Count)
	}
	// Ticks set the x-range, so the axis must end on a tick and hold two.
	hi = max(hi, lo+2)
	if (hi-lo)%2 != 0 {
		hi++
	}
	slices.Sort(platforms)

	series := make([]chart.Series, 0, max(1, len(platforms)))
	for i, p := range platforms {
		s := byPlatform[p]
		col := hexColor(Set1[i%len(Set1)])
		s.Style = chart.Style{StrokeColor: col, StrokeWidth: 2, DotColor: col, DotWidth: 3}
		series = append(series, *s)
	}
	if len(series) == 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    noData,
			XValues: []float64{float64(lo), float64(hi)},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
		})
	}

	ticks := make([]chart.Tick, 0, (hi-lo)/2+1)
	for y := lo; y <= hi; y += 2 {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}

	ch := &chart.Chart{
		Title:      plainHeading(ViewYears),
		TitleStyle: chart.Style{FontColor: pngFont},
		Width:      pngWidth,
		Height:     pngHeight,
		Background: chart.Style{
			FillColor: pngBackground,
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: pngBackground},
		XAxis: chart.XAxis{
			Name:      labelYear,
			NameStyle: chart.Style{FontColor: pngFont},
			Style:     chart.Style{FontColor: pngFont, StrokeColor: pngFont, TextRotationDegrees: 45},
			Range:     &chart.ContinuousRange{Min: float64(lo), Max: float64(hi)},
			Ticks:     ticks,
		},
		YAxis: chart.YAxis{
			Name:           labelTitles,
			NameStyle:      chart.Style{FontColor: pngFont},
			Style:          chart.Style{FontColor: pngFont, StrokeColor: pngFont},
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(max(peak, 1))},
			ValueFormatter: intFormatter,
		},
		Series: series,
	}
	if len(platforms) > 0 {
		ch.Elements = []chart.Renderable{chart.Legend(ch, chart.Style{
			FillColor:   pngBackground,
			FontColor:   pngFont,
			StrokeColor: pngFont,
		})}
	}
	return ch
}

// plainHeading drops the leading emoji, which the bundled font cannot draw.
func plainHeading(view string) string {
	_, text, _ := strings.Cut(Headings[view], " ")
	return text
}

func intFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(f))
	}
	return fmt.Sprint(v)
}

// scaleColor picks the palette entry for v on a 0..peak scale.
func scaleColor(palette []string, v, peak int) drawing.Color {
	if peak <= 0 {
		return hexColor(palette[0])
	}
	i := v * (len(palette) - 1) / peak
	return hexColor(palette[min(max(i, 0), len(palette)-1)])
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
