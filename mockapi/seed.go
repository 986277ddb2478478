package mockapi

import (
	"fmt"
	"log"
	"time"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/jrsteele09/monitor-dashboard/users"
)

const (
	DefaultAdminEmail    = "admin@company.com"
	DefaultEmployeeEmail = "employee@company.com"
	DefaultPassword      = "password"
	DefaultOrganization  = "Acme Corp"

	seededLogs = 60
)

type seedUser struct {
	first, last, email, department string
	role                           users.Role
}

var seedUsers = []seedUser{
	{"Alex", "Morgan", DefaultAdminEmail, "Operations", users.RoleAdmin},
	{"Sam", "Carter", DefaultEmployeeEmail, "Engineering", users.RoleEmployee},
	{"Jordan", "Lee", "jordan.lee@company.com", "Design", users.RoleEmployee},
	{"Taylor", "Kim", "taylor.kim@company.com", "Sales", users.RoleEmployee},
}

var seedApps = []string{"VS Code", "Chrome", "Slack", "Figma", "Excel", "Zoom"}

// Seed creates the demo organization, its users and a couple of days of activity.
// It does nothing when the default admin already exists.
func Seed(repos Repos, now time.Time) (*organizations.Organization, error) {
	if existing, err := repos.Users.GetByEmail(DefaultAdminEmail); err == nil {
		return repos.Organizations.Get(existing.OrganizationID)
	}

	org := &organizations.Organization{
		Name:         DefaultOrganization,
		Plan:         organizations.PlanFree,
		MaxUsers:     organizations.DefaultMaxUsers(organizations.PlanFree),
		Features:     organizations.DefaultFeatures(organizations.PlanFree),
		BillingEmail: "billing@company.com",
		CreatedAt:    now.AddDate(0, -3, 0),
	}
	if err := repos.Organizations.Upsert(org); err != nil {
		return nil, fmt.Errorf("[Seed] organization: %w", err)
	}

	hash, err := users.HashPassword(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("[Seed] hash password: %w", err)
	}

	created := make([]*users.User, 0, len(seedUsers))
	for i, su := range seedUsers {
		u := &users.User{
			FirstName:      su.first,
			LastName:       su.last,
			Email:          su.email,
			Role:           su.role,
			Status:         users.StatusActive,
			Department:     su.department,
			OrganizationID: org.ID,
			CreatedAt:      org.CreatedAt.Add(time.Duration(i) * time.Hour),
			LastActive:     now.Add(-time.Duration(i*3) * time.Hour),
			PasswordHash:   hash,
		}
		if err := repos.Users.Upsert(u); err != nil {
			return nil, fmt.Errorf("[Seed] user %s: %w", su.email, err)
		}
		created = append(created, u)
	}

	for i := 0; i < seededLogs; i++ {
		if err := repos.Logs.Append(seedLog(i, created[i%len(created)], org.ID, now)); err != nil {
			return nil, fmt.Errorf("[Seed] log %d: %w", i, err)
		}
	}

	log.Printf("👤 Demo accounts (password %q):", DefaultPassword)
	for _, u := range created {
		log.Printf("   %-24s %s", u.Email, u.Role)
	}
	return org, nil
}

// seedLog spreads entries 45 minutes apart going back from now.
func seedLog(i int, u *users.User, orgID string, now time.Time) *activity.Log {
	kind := activity.Types[i%len(activity.Types)]
	app := seedApps[i%len(seedApps)]
	l := &activity.Log{
		UserID:         u.ID,
		UserName:       u.DisplayName(),
		Type:           kind,
		Timestamp:      now.Add(-time.Duration(i*45) * time.Minute).UTC(),
		OrganizationID: orgID,
	}
	switch kind {
	case activity.TypeLogin:
		l.Description = "Logged in from workstation"
	case activity.TypeLogout:
		l.Description = "Logged out"
	case activity.TypeFileAccess:
		l.Application = app
		l.Description = fmt.Sprintf("Opened quarterly-report-%d.xlsx", i)
		l.Metadata = map[string]any{"path": fmt.Sprintf("/shared/reports/quarterly-report-%d.xlsx", i)}
	case activity.TypeAppUsage:
		l.Application = app
		l.Duration = 600 + (i%7)*300
		l.Description = "Used " + app
	case activity.TypeScreenTime:
		l.Application = app
		l.Duration = 3600 + (i%5)*900
		l.Description = "Active screen time"
	}
	return l
}
