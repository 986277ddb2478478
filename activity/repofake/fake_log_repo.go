package fakelogrepo

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/monitor-dashboard/activity"
)

var _ activity.Repo = (*FakeLogRepo)(nil)

const topApplications = 5

type FakeLogRepo struct {
	logs []*activity.Log
	lock sync.RWMutex
}

func NewFakeLogRepo() *FakeLogRepo {
	return &FakeLogRepo{}
}

func (lr *FakeLogRepo) Append(l *activity.Log) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	stored := *l
	lr.logs = append(lr.logs, &stored)
	return nil
}

// List returns logs newest first.
func (lr *FakeLogRepo) List(organizationID string, filters activity.Filters, offset, limit int) (activity.LogsListResponse, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	matched := make([]*activity.Log, 0)
	for _, l := range lr.logs {
		if organizationID != "" && l.OrganizationID != organizationID {
			continue
		}
		if !filters.Accepts(*l) {
			continue
		}
		matched = append(matched, l)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	resp := activity.LogsListResponse{Logs: []*activity.Log{}, Total: len(matched), Offset: offset, Limit: limit}
	if offset < 0 || offset >= len(matched) {
		return resp, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	for _, l := range matched[offset:end] {
		c := *l
		resp.Logs = append(resp.Logs, &c)
	}
	return resp, nil
}

// Summarise compares the 24 hours before now with the 24 hours before that.
// ByType and TopApplications cover every stored log.
func (lr *FakeLogRepo) Summarise(organizationID string, now time.Time) (activity.Summary, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	var today, yesterday window
	today.start, yesterday.start = now.Add(-24*time.Hour), now.Add(-48*time.Hour)

	summary := activity.Summary{ByType: map[activity.Type]int{}}
	apps := map[string]*activity.AppUsage{}
	allUsers := map[string]struct{}{}

	for _, l := range lr.logs {
		if organizationID != "" && l.OrganizationID != organizationID {
			continue
		}
		allUsers[l.UserID] = struct{}{}
		summary.ByType[l.Type]++
		if l.Application != "" {
			app, ok := apps[l.Application]
			if !ok {
				app = &activity.AppUsage{Application: l.Application}
				apps[l.Application] = app
			}
			app.Count++
			app.Duration += l.Duration
		}
		switch {
		case l.Timestamp.After(now):
		case !l.Timestamp.Before(today.start):
			today.add(l)
		case !l.Timestamp.Before(yesterday.start):
			yesterday.add(l)
		}
	}

	summary.TotalUsers = len(allUsers)
	summary.ActiveUsers = len(today.users)
	summary.LogsToday = today.count
	summary.AverageScreenTime = today.averageScreenTime()
	summary.Trends = activity.Trends{
		Users:      percentChange(len(yesterday.users), len(today.users)),
		Activity:   percentChange(yesterday.count, today.count),
		ScreenTime: percentChange(yesterday.averageScreenTime(), today.averageScreenTime()),
	}

	for _, app := range apps {
		summary.TopApplications = append(summary.TopApplications, *app)
	}
	sort.Slice(summary.TopApplications, func(i, j int) bool {
		a, b := summary.TopApplications[i], summary.TopApplications[j]
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		return a.Application < b.Application
	})
	if len(summary.TopApplications) > topApplications {
		summary.TopApplications = summary.TopApplications[:topApplications]
	}
	return summary, nil
}

type window struct {
	start       time.Time
	count       int
	users       map[string]struct{}
	screenTime  int
	screenUsers map[string]struct{}
}

func (w *window) add(l *activity.Log) {
	if w.users == nil {
		w.users = map[string]struct{}{}
		w.screenUsers = map[string]struct{}{}
	}
	w.count++
	w.users[l.UserID] = struct{}{}
	if l.Type == activity.TypeScreenTime {
		w.screenTime += l.Duration
		w.screenUsers[l.UserID] = struct{}{}
	}
}

func (w *window) averageScreenTime() int {
	if len(w.screenUsers) == 0 {
		return 0
	}
	return w.screenTime / len(w.screenUsers)
}

func percentChange(prev, cur int) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return math.Round(float64(cur-prev)/float64(prev)*1000) / 10
}
