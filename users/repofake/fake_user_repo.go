package fakeuserrepo

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Upsert(user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	email := strings.ToLower(user.Email)
	if existingID, ok := ur.emailIds[email]; ok && existingID != user.ID {
		return errors.Wrapf(errors.ErrConflict, "email %s", user.Email)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if prev, ok := ur.users[user.ID]; ok {
		delete(ur.emailIds, strings.ToLower(prev.Email))
	}
	stored := *user
	ur.users[user.ID] = &stored
	ur.emailIds[email] = user.ID
	return nil
}

func (ur *FakeUserRepo) Delete(id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "user %s", id)
	}
	delete(ur.emailIds, strings.ToLower(user.Email))
	delete(ur.users, id)
	return nil
}

func (ur *FakeUserRepo) GetByEmail(email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "user %s", email)
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "user %s", id)
	}
	u := *user
	return &u, nil
}

// List orders users by creation time then ID so pages are stable.
func (ur *FakeUserRepo) List(organizationID string, offset, limit int) (users.UsersListResponse, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := ur.filter(organizationID)
	sort.Slice(userList, func(i, j int) bool {
		if !userList[i].CreatedAt.Equal(userList[j].CreatedAt) {
			return userList[i].CreatedAt.Before(userList[j].CreatedAt)
		}
		return userList[i].ID < userList[j].ID
	})

	resp := users.UsersListResponse{Total: len(userList), Offset: offset, Limit: limit}
	if offset < 0 || offset >= len(userList) {
		resp.Users = []*users.User{}
		return resp, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(userList) {
		end = len(userList)
	}
	for _, u := range userList[offset:end] {
		c := *u
		resp.Users = append(resp.Users, &c)
	}
	return resp, nil
}

func (ur *FakeUserRepo) Count(organizationID string) int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.filter(organizationID))
}

func (ur *FakeUserRepo) SetLastActive(id string, at time.Time) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "user %s", id)
	}
	user.LastActive = at
	return nil
}

func (ur *FakeUserRepo) filter(organizationID string) []*users.User {
	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		if organizationID != "" && v.OrganizationID != organizationID {
			continue
		}
		userList = append(userList, v)
	}
	return userList
}
