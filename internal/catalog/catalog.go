// Package catalog loads the three streaming catalogs into one immutable,
// recoded table and filters it by platform and type.
package catalog

// Platform names in source order.
const (
	PlatformNetflix = "Netflix"
	PlatformDisney  = "Disney+"
	PlatformAmazon  = "Amazon Prime"
)

// Display names for the recoded title types.
const (
	TypeMovie  = "Filmes"
	TypeSeries = "Séries"
)

// RecodeType maps a raw type value to its display value. Values other than
// "Movie" and "TV Show" pass through unchanged.
func RecodeType(raw string) string {
	switch raw {
	case "Movie":
		return TypeMovie
	case "TV Show":
		return TypeSeries
	default:
		return raw
	}
}

// Title is one catalog row after load. Empty strings mean the source cell
// was empty. ReleaseYear is zero when the source cell was empty.
type Title struct {
	ShowID      string   `json:"showId,omitempty"`
	Title       string   `json:"title"`
	Director    string   `json:"director,omitempty"`
	Cast        string   `json:"cast,omitempty"`
	Country     string   `json:"country,omitempty"`
	DateAdded   string   `json:"dateAdded,omitempty"`
	ReleaseYear int      `json:"releaseYear,omitempty"`
	Rating      string   `json:"rating,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	ListedIn    string   `json:"listedIn,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Platform    string   `json:"platform"`
	Genres      []string `json:"genres"`
}

// HasReleaseYear reports whether the source row carried a release year.
func (t *Title) HasReleaseYear() bool {
	return t.ReleaseYear != 0
}

// Catalog is the unified, read-only table of every title from every source,
// in source order then row order. Safe for concurrent use.
type Catalog struct {
	titles    []Title
	platforms []string
	types     []string
}

// New builds a catalog from already recoded titles. The slice is owned by
// the catalog afterwards.
func New(titles []Title) *Catalog {
	c := &Catalog{titles: titles}
	c.platforms = distinct(titles, func(t *Title) string { return t.Platform })
	c.types = distinct(titles, func(t *Title) string { return t.Type })
	return c
}

// Len returns the number of titles.
func (c *Catalog) Len() int {
	return len(c.titles)
}

// At returns the title at index i. The returned value must not be modified.
func (c *Catalog) At(i int) *Title {
	return &c.titles[i]
}

// Titles returns a copy of every title.
func (c *Catalog) Titles() []Title {
	out := make([]Title, len(c.titles))
	copy(out, c.titles)
	return out
}

// Platforms returns the distinct platforms in first-appearance order.
func (c *Catalog) Platforms() []string {
	return append([]string(nil), c.platforms...)
}

// Types returns the distinct types in first-appearance order.
func (c *Catalog) Types() []string {
	return append([]string(nil), c.types...)
}

// All returns a view over the whole catalog.
func (c *Catalog) All() View {
	idx := make([]int, len(c.titles))
	for i := range idx {
		idx[i] = i
	}
	return View{catalog: c, idx: idx}
}

func distinct(titles []Title, key func(*Title) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for i := range titles {
		k := key(&titles[i])
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
