package server

import (
	"testing"
	"time"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Never", formatDate(time.Time{}))

	at := time.Date(2025, time.March, 4, 15, 7, 0, 0, time.Local)
	assert.Equal(t, "Mar 4, 2025 3:07 PM", formatDate(at))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h 0m", formatDuration(0))
	assert.Equal(t, "0h 0m", formatDuration(-30))
	assert.Equal(t, "1h 30m", formatDuration(5400))
	assert.Equal(t, "25h 1m", formatDuration(90060))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Admin", capitalize(users.RoleAdmin))
	assert.Equal(t, "Émile", capitalize("émile"))
	assert.Equal(t, "", capitalize(""))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AM", initials("Alex Morgan"))
	assert.Equal(t, "MD", initials("mary de la cruz"))
	assert.Equal(t, "C", initials("Cher"))
	assert.Equal(t, "?", initials("  "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Opened...", truncate("Opened quarterly report", 7))
	assert.Equal(t, "unchanged", truncate("unchanged", 0))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "File access", humanize(activity.TypeFileAccess))
	assert.Equal(t, "Screen time", humanize("SCREEN_TIME"))
	assert.Equal(t, "Superadmin", humanize(users.RoleSuperAdmin))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.5, "+12.5%"},
		{-4, "-4%"},
		{0, "0%"},
		{100.04, "+100%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percent(tt.in), tt.in)
	}
}

func TestTemplatesParse(t *testing.T) {
	for _, page := range []string{"login.html", "signup.html", "dashboard.html", "users.html", "logs.html", "settings.html"} {
		_, err := ParsePage(page)
		assert.NoError(t, err, page)
	}
	_, err := ParseTemplate("loading.html")
	assert.NoError(t, err)
}
