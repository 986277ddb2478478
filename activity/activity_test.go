package activity_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/stretchr/testify/require"
)

func TestLog_Matches(t *testing.T) {
	l := activity.Log{Description: "Opened report.pdf", UserName: "Jane Doe", Application: "Acrobat"}

	require.True(t, l.Matches(""))
	require.True(t, l.Matches("REPORT"))
	require.True(t, l.Matches("jane"))
	require.True(t, l.Matches("acro"))
	require.False(t, l.Matches("excel"))
}

func TestFilters_RoundTrip(t *testing.T) {
	f := activity.Filters{UserID: "u-1", Type: activity.TypeLogin, DateFrom: "2024-03-01"}

	m := f.Map()
	require.Equal(t, map[string]string{"userId": "u-1", "type": "login", "dateFrom": "2024-03-01"}, m)
	require.Equal(t, f, activity.FiltersFromMap(m))

	q := url.Values{}
	f.Encode(q)
	require.Equal(t, "login", q.Get("type"))
	require.Equal(t, f, activity.FiltersFromQuery(q))
}

func TestFilters_Accepts(t *testing.T) {
	at := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	l := activity.Log{UserID: "u-1", Type: activity.TypeAppUsage, Application: "Slack", Timestamp: at}

	tests := []struct {
		name    string
		filters activity.Filters
		want    bool
	}{
		{"no filters", activity.Filters{}, true},
		{"user match", activity.Filters{UserID: "u-1"}, true},
		{"user mismatch", activity.Filters{UserID: "u-2"}, false},
		{"type mismatch", activity.Filters{Type: activity.TypeLogin}, false},
		{"application match", activity.Filters{Application: "Slack"}, true},
		{"date from same day", activity.Filters{DateFrom: "2024-03-10"}, true},
		{"date from later", activity.Filters{DateFrom: "2024-03-11"}, false},
		{"date to same day inclusive", activity.Filters{DateTo: "2024-03-10"}, true},
		{"date to earlier", activity.Filters{DateTo: "2024-03-09"}, false},
		{"bad date ignored", activity.Filters{DateTo: "yesterday"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.filters.Accepts(l))
		})
	}
}
