package activity

import "time"

type LogsListResponse struct {
	Logs   []*Log
	Total  int
	Offset int
	Limit  int
}

type Repo interface {
	Append(l *Log) error
	List(organizationID string, filters Filters, offset, limit int) (LogsListResponse, error)
	Summarise(organizationID string, now time.Time) (Summary, error)
}
