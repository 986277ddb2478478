package activity

import (
	"strings"
	"time"
)

type Type string

const (
	TypeLogin      Type = "login"
	TypeLogout     Type = "logout"
	TypeFileAccess Type = "file_access"
	TypeAppUsage   Type = "app_usage"
	TypeScreenTime Type = "screen_time"
)

var Types = []Type{TypeLogin, TypeLogout, TypeFileAccess, TypeAppUsage, TypeScreenTime}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// Log is one monitored activity entry. Logs are read-only for the console.
type Log struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	UserName       string         `json:"userName"`
	Type           Type           `json:"type"`
	Description    string         `json:"description"`
	Application    string         `json:"application,omitempty"`
	Duration       int            `json:"duration,omitempty"` // seconds
	Timestamp      time.Time      `json:"timestamp"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	OrganizationID string         `json:"organizationId,omitempty"`
}

// Matches is the free-text search over a loaded logs page.
func (l Log) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{l.Description, l.UserName, l.Application} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Summary is the aggregate returned by GET /logs/summary.
type Summary struct {
	TotalUsers        int          `json:"totalUsers"`
	ActiveUsers       int          `json:"activeUsers"`
	LogsToday         int          `json:"logsToday"`
	AverageScreenTime int          `json:"averageScreenTime"` // seconds
	Trends            Trends       `json:"trends"`
	ByType            map[Type]int `json:"byType,omitempty"`
	TopApplications   []AppUsage   `json:"topApplications,omitempty"`
}

// Trends are percentage changes against the previous day.
type Trends struct {
	Users      float64 `json:"users"`
	Activity   float64 `json:"activity"`
	ScreenTime float64 `json:"screenTime"`
}

type AppUsage struct {
	Application string `json:"application"`
	Duration    int    `json:"duration"` // seconds
	Count       int    `json:"count"`
}
