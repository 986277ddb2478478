package orgrepofakes

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/organizations"
)

var _ organizations.Repo = (*FakeOrganizationRepo)(nil)

type FakeOrganizationRepo struct {
	orgs map[string]*organizations.Organization
	lock sync.RWMutex
}

func NewFakeOrganizationRepo() *FakeOrganizationRepo {
	return &FakeOrganizationRepo{
		orgs: make(map[string]*organizations.Organization),
	}
}

func (r *FakeOrganizationRepo) Upsert(org *organizations.Organization) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if org.ID == "" {
		org.ID = uuid.New().String()
	}
	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	stored := *org
	stored.Features = append([]string(nil), org.Features...)
	r.orgs[org.ID] = &stored
	return nil
}

func (r *FakeOrganizationRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.orgs, id)
	return nil
}

func (r *FakeOrganizationRepo) Get(id string) (*organizations.Organization, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	org, ok := r.orgs[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "organization %s", id)
	}
	c := *org
	c.Features = append([]string(nil), org.Features...)
	return &c, nil
}

func (r *FakeOrganizationRepo) List(offset, limit int) ([]*organizations.Organization, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	orgs := make([]*organizations.Organization, 0, len(r.orgs))
	for _, o := range r.orgs {
		c := *o
		orgs = append(orgs, &c)
	}

	sort.Slice(orgs, func(i, j int) bool {
		return orgs[i].ID < orgs[j].ID
	})

	if offset >= len(orgs) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(orgs) {
		end = len(orgs)
	}
	return orgs[offset:end], nil
}
