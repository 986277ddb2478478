package server

import (
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/users"
)

const dateLayout = "Jan 2, 2006 3:04 PM"

var templateFuncs = template.FuncMap{
	"formatDate":     formatDate,
	"formatDuration": formatDuration,
	"capitalize":     capitalize,
	"initials":       initials,
	"truncate":       truncate,
	"humanize":       humanize,
	"percent":        percent,
	"add":            func(a, b int) int { return a + b },
	"roles":          func() []users.Role { return users.Roles },
	"activityTypes":  func() []activity.Type { return activity.Types },
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Local().Format(dateLayout)
}

// formatDuration renders seconds as "Xh Ym".
func formatDuration(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%dh %dm", seconds/3600, seconds%3600/60)
}

func capitalize(v any) string {
	s := fmt.Sprint(v)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// initials takes the first letter of the first two words, e.g. "Alex Morgan" is "AM".
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// humanize turns identifiers like "file_access" into "File access".
func humanize(v any) string {
	s := strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(fmt.Sprint(v)))
	return capitalize(strings.ToLower(s))
}

// percent renders a trend with its sign, e.g. "+12.5%".
func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0%"
	}
	s := fmt.Sprintf("%.1f", math.Abs(v))
	s = strings.TrimSuffix(s, ".0")
	switch {
	case v > 0:
		return "+" + s + "%"
	case v < 0:
		return "-" + s + "%"
	}
	return "0%"
}
