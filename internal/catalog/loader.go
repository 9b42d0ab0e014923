package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
	"github.com/streamdash/streamdash-server/internal/genre"
	"github.com/streamdash/streamdash-server/internal/logger"
)

// Source is one input file and the platform its rows belong to.
type Source struct {
	Platform string
	Path     string
}

// DefaultSources returns the three catalogs under dataDir in load order.
func DefaultSources(dataDir string) []Source {
	return []Source{
		{Platform: PlatformNetflix, Path: filepath.Join(dataDir, "netflix_titles.csv")},
		{Platform: PlatformDisney, Path: filepath.Join(dataDir, "disney_plus_titles.csv")},
		{Platform: PlatformAmazon, Path: filepath.Join(dataDir, "amazon_prime_titles.csv")},
	}
}

// Columns every source must carry.
var requiredColumns = []string{"type", "listed_in", "release_year", "country"}

// Check for cancellation every this many rows.
const cancelCheckInterval = 1024

// Load reads every source in order and returns the unified catalog. The
// first failure aborts the load; there is no partial catalog.
func Load(ctx context.Context, sources []Source, translator *genre.Translator, log *logger.Logger) (*Catalog, error) {
	start := time.Now()
	var titles []Title

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		before := len(titles)
		var err error
		titles, err = loadSource(ctx, src, translator, titles)
		if err != nil {
			return nil, err
		}

		log.Debug("catalog source loaded",
			"platform", src.Platform,
			"path", src.Path,
			"rows", len(titles)-before,
		)
	}

	c := New(titles)
	log.Info("catalog loaded",
		"titles", c.Len(),
		"sources", len(sources),
		"duration", time.Since(start),
	)
	return c, nil
}

func loadSource(ctx context.Context, src Source, translator *genre.Translator, titles []Title) ([]Title, error) {
	f, err := os.Open(src.Path) //#nosec G304 -- catalog paths come from configuration
	if err != nil {
		return nil, domainerrors.SourceMissingf(err, "open %s catalog %s", src.Platform, src.Path)
	}
	defer f.Close()

	return ReadSource(ctx, f, src, translator, titles)
}

// ReadSource parses one CSV stream and appends its titles to dst.
func ReadSource(ctx context.Context, r io.Reader, src Source, translator *genre.Translator, dst []Title) ([]Title, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty file")
		}
		return nil, domainerrors.SourceMalformedf(err, "read %s header", src.Platform)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, domainerrors.SourceMalformedf(err, "read %s header", src.Platform)
	}

	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domainerrors.SourceMalformedf(err, "read %s catalog", src.Platform)
		}
		if row%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		t, err := cols.title(record, src.Platform, translator)
		if err != nil {
			return nil, domainerrors.SourceMalformedf(err, "%s catalog row %d", src.Platform, row)
		}
		dst = append(dst, t)
	}
	return dst, nil
}

// columns maps a lowercased header name to its position.
type columns map[string]int

func indexColumns(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c columns) title(record []string, platform string, translator *genre.Translator) (Title, error) {
	listedIn := c.get(record, "listed_in")
	t := Title{
		ShowID:      c.get(record, "show_id"),
		Title:       c.get(record, "title"),
		Director:    c.get(record, "director"),
		Cast:        c.get(record, "cast"),
		Country:     c.get(record, "country"),
		DateAdded:   c.get(record, "date_added"),
		Rating:      c.get(record, "rating"),
		Duration:    c.get(record, "duration"),
		ListedIn:    listedIn,
		Description: c.get(record, "description"),
		Type:        RecodeType(c.get(record, "type")),
		Platform:    platform,
		Genres:      translator.Translate(listedIn, listedIn != ""),
	}

	if year := c.get(record, "release_year"); year != "" {
		y, err := strconv.Atoi(year)
		if err != nil {
			return Title{}, fmt.Errorf("invalid release_year %q", year)
		}
		t.ReleaseYear = y
	}
	return t, nil
}
