package config

import "time"

const (
	apiBaseURLVar     = "API_BASE_URL"
	requestTimeoutVar = "REQUEST_TIMEOUT"
	usersPageSizeVar  = "USERS_PAGE_SIZE"
	logsPageSizeVar   = "LOGS_PAGE_SIZE"
)

// ClientConfig configures the backend resource client and the list pages.
type ClientConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetUsersPageSize() int
	GetLogsPageSize() int
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:5000/api")
}

func (Client) GetRequestTimeout() time.Duration {
	return GetEnvDuration(requestTimeoutVar, 30*time.Second)
}

func (Client) GetUsersPageSize() int {
	return GetEnvInt(usersPageSizeVar, 10)
}

func (Client) GetLogsPageSize() int {
	return GetEnvInt(logsPageSizeVar, 20)
}
