package catalog

import (
	"iter"
	"net/url"
)

// Query parameter names for the two filter controls.
const (
	ParamPlatform = "platform"
	ParamType     = "type"
)

// Selection is the state of the two filter controls. A nil slice selects
// every value; an empty non-nil slice selects none.
type Selection struct {
	Platforms []string `json:"platforms"`
	Types     []string `json:"types"`
}

// SelectAll returns the default selection.
func SelectAll() Selection {
	return Selection{}
}

// ParseSelection reads the selection from query values. A parameter that is
// present contributes its non-empty values, possibly none. An absent
// parameter selects everything.
func ParseSelection(values url.Values) Selection {
	return Selection{
		Platforms: parseParam(values, ParamPlatform),
		Types:     parseParam(values, ParamType),
	}
}

func parseParam(values url.Values, key string) []string {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Query encodes the selection so that ParseSelection restores it. An empty
// selection is written as a single blank value.
func (s Selection) Query() url.Values {
	values := url.Values{}
	encodeParam(values, ParamPlatform, s.Platforms)
	encodeParam(values, ParamType, s.Types)
	return values
}

func encodeParam(values url.Values, key string, selected []string) {
	switch {
	case selected == nil:
	case len(selected) == 0:
		values.Set(key, "")
	default:
		values[key] = append([]string(nil), selected...)
	}
}

// Resolve replaces nil sets with the full domains, so the result lists
// every selected value explicitly.
func (s Selection) Resolve(c *Catalog) Selection {
	if s.Platforms == nil {
		s.Platforms = c.Platforms()
	}
	if s.Types == nil {
		s.Types = c.Types()
	}
	return s
}

// View is an ordered subset of a catalog, held as indices into it.
type View struct {
	catalog *Catalog
	idx     []int
}

// Len returns the number of titles in the view.
func (v View) Len() int {
	return len(v.idx)
}

// At returns the i-th title of the view.
func (v View) At(i int) *Title {
	return v.catalog.At(v.idx[i])
}

// Index returns the catalog index of the i-th title of the view.
func (v View) Index(i int) int {
	return v.idx[i]
}

// All iterates the view in catalog order.
func (v View) All() iter.Seq[*Title] {
	return func(yield func(*Title) bool) {
		for _, i := range v.idx {
			if !yield(v.catalog.At(i)) {
				return
			}
		}
	}
}

// Contains reports whether the catalog index i is part of the view.
func (v View) Contains(i int) bool {
	lo, hi := 0, len(v.idx)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case v.idx[mid] == i:
			return true
		case v.idx[mid] < i:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}

// Filter returns the titles whose platform and type are both selected, in
// catalog order. Dimensions are AND-combined; values within a dimension are
// OR-combined.
func Filter(c *Catalog, sel Selection) View {
	platforms := toSet(sel.Platforms)
	types := toSet(sel.Types)

	if (platforms != nil && len(platforms) == 0) || (types != nil && len(types) == 0) {
		return View{catalog: c, idx: []int{}}
	}

	idx := make([]int, 0, c.Len())
	for i := range c.titles {
		t := &c.titles[i]
		if platforms != nil {
			if _, ok := platforms[t.Platform]; !ok {
				continue
			}
		}
		if types != nil {
			if _, ok := types[t.Type]; !ok {
				continue
			}
		}
		idx = append(idx, i)
	}
	return View{catalog: c, idx: idx}
}

// toSet returns nil for a nil slice so callers can tell "all" from "none".
func toSet(values []string) map[string]struct{} {
	if values == nil {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
