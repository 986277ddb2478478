package users

import "time"

type UsersListResponse struct {
	Users  []*User
	Total  int
	Offset int
	Limit  int
}

type Repo interface {
	Upsert(user *User) error
	Delete(id string) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	List(organizationID string, offset, limit int) (UsersListResponse, error)
	Count(organizationID string) int
	SetLastActive(id string, at time.Time) error
}
