package listing

import (
	"maps"
	"strings"
)

// Filters maps a filter key to its value. Empty values mean no constraint and are dropped.
type Filters map[string]string

func (f Filters) normalise() Filters {
	out := Filters{}
	for k, v := range f {
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

func (f Filters) Equal(other Filters) bool {
	return maps.Equal(f.normalise(), other.normalise())
}

func (f Filters) Clone() Filters {
	return maps.Clone(f.normalise())
}

// Query is the parameter set of one fetch.
type Query struct {
	Page    int
	Limit   int
	Filters Filters
}

func (q Query) Equal(other Query) bool {
	return q.Page == other.Page && q.Limit == other.Limit && q.Filters.Equal(other.Filters)
}

func (q Query) clone() Query {
	q.Filters = q.Filters.Clone()
	return q
}
