package organizations

import (
	"strings"
	"time"
)

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// FreePlanUserLimit is the seat count at which a free organization stops accepting new users.
const FreePlanUserLimit = 5

// Organization is the customer account that owns users and activity logs.
type Organization struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Plan            Plan       `json:"plan"`
	MaxUsers        int        `json:"maxUsers"`
	CurrentUsers    int        `json:"currentUsers"`
	Features        []string   `json:"features"`
	BillingEmail    string     `json:"billingEmail"`
	SubscriptionEnd *time.Time `json:"subscriptionEnd,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CanAddUser blocks new users on the free plan once FreePlanUserLimit seats are taken.
func (o Organization) CanAddUser() bool {
	return o.Plan != PlanFree || o.CurrentUsers < FreePlanUserLimit
}

func (o Organization) HasFeature(feature string) bool {
	for _, f := range o.Features {
		if strings.EqualFold(f, feature) {
			return true
		}
	}
	return false
}

// Update carries the editable fields of an organization; nil fields are left as they are.
type Update struct {
	Name         *string `json:"name,omitempty" validate:"omitnil,notblank"`
	BillingEmail *string `json:"billingEmail,omitempty" validate:"omitnil,email"`
}

func (u Update) Apply(o *Organization) {
	if u.Name != nil {
		o.Name = strings.TrimSpace(*u.Name)
	}
	if u.BillingEmail != nil {
		o.BillingEmail = strings.TrimSpace(*u.BillingEmail)
	}
}

// DefaultMaxUsers is the seat allowance for each plan.
func DefaultMaxUsers(p Plan) int {
	switch p {
	case PlanPremium:
		return 50
	case PlanEnterprise:
		return 1000
	default:
		return FreePlanUserLimit
	}
}

// DefaultFeatures is the feature set for each plan.
func DefaultFeatures(p Plan) []string {
	features := []string{"activity_logs", "dashboard"}
	switch p {
	case PlanPremium:
		features = append(features, "screen_time", "exports")
	case PlanEnterprise:
		features = append(features, "screen_time", "exports", "sso", "audit_trail")
	}
	return features
}
