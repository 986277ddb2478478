package activity

import (
	"net/url"
	"time"
)

// Filter keys, shared by the query string and the list controller.
const (
	FilterUserID      = "userId"
	FilterType        = "type"
	FilterDateFrom    = "dateFrom"
	FilterDateTo      = "dateTo"
	FilterApplication = "application"
)

var FilterKeys = []string{FilterUserID, FilterType, FilterDateFrom, FilterDateTo, FilterApplication}

const dateLayout = "2006-01-02"

// Filters are the server-side constraints on a logs query. Empty means no constraint.
type Filters struct {
	UserID      string
	Type        Type
	DateFrom    string // YYYY-MM-DD, inclusive
	DateTo      string // YYYY-MM-DD, inclusive
	Application string
}

func (f Filters) Map() map[string]string {
	m := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set(FilterUserID, f.UserID)
	set(FilterType, string(f.Type))
	set(FilterDateFrom, f.DateFrom)
	set(FilterDateTo, f.DateTo)
	set(FilterApplication, f.Application)
	return m
}

func FiltersFromMap(m map[string]string) Filters {
	return Filters{
		UserID:      m[FilterUserID],
		Type:        Type(m[FilterType]),
		DateFrom:    m[FilterDateFrom],
		DateTo:      m[FilterDateTo],
		Application: m[FilterApplication],
	}
}

// Encode adds the non-empty filters to q.
func (f Filters) Encode(q url.Values) {
	for k, v := range f.Map() {
		q.Set(k, v)
	}
}

func FiltersFromQuery(q url.Values) Filters {
	m := map[string]string{}
	for _, k := range FilterKeys {
		m[k] = q.Get(k)
	}
	return FiltersFromMap(m)
}

// Accepts reports whether l satisfies every non-empty filter. Unparseable dates are ignored.
func (f Filters) Accepts(l Log) bool {
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	if f.Application != "" && l.Application != f.Application {
		return false
	}
	if from, err := time.Parse(dateLayout, f.DateFrom); err == nil && l.Timestamp.Before(from) {
		return false
	}
	if to, err := time.Parse(dateLayout, f.DateTo); err == nil && !l.Timestamp.Before(to.AddDate(0, 0, 1)) {
		return false
	}
	return true
}
