package present

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/streamdash/streamdash-server/internal/aggregate"
)

var (
	tableTitleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E41A1C")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
)

// WriteTables prints the four summaries as terminal tables.
func WriteTables(w io.Writer, s aggregate.Summary) error {
	sections := []struct {
		view    string
		headers []string
		rows    [][]string
	}{
		{ViewTypes, []string{labelPlatform, LabelType, labelCount}, typeRows(s.Types)},
		{ViewYears, []string{labelYear, labelPlatform, labelTitles}, yearRows(s.Years)},
		{ViewGenres, []string{labelGenre, labelTitles}, genreRows(s.Genres)},
		{ViewCountries, []string{"País", labelTitles}, countryRows(s.Countries)},
	}

	if _, err := fmt.Fprintln(w, tableTitleStyle.Render(PageTitle)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d títulos selecionados\n", s.Total); err != nil {
		return err
	}
	for _, sec := range sections {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tableBorderStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return tableHeaderStyle
				}
				return tableCellStyle
			}).
			Headers(sec.headers...).
			Rows(sec.rows...)

		if _, err := fmt.Fprintln(w, tableTitleStyle.Render(Headings[sec.view])); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	return nil
}

func typeRows(rows []aggregate.TypeCount) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Platform, r.Type, strconv.Itoa(r.Count)}
	}
	return out
}

func yearRows(rows []aggregate.YearCount) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{strconv.Itoa(r.Year), r.Platform, strconv.Itoa(r.Count)}
	}
	return out
}

func genreRows(rows []aggregate.GenreCount) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Genre, strconv.Itoa(r.Count)}
	}
	return out
}

func countryRows(rows []aggregate.CountryCount) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Country, strconv.Itoa(r.Count)}
	}
	return out
}
