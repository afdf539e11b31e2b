package domain

// Plan represents a user's subscription tier.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// PlanFromString normalizes a stored plan value; unknown values fall back to free.
func PlanFromString(s string) Plan {
	switch Plan(s) {
	case PlanPro:
		return PlanPro
	case PlanEnterprise:
		return PlanEnterprise
	default:
		return PlanFree
	}
}

// Rank orders plans for entitlement comparison: free < pro < enterprise.
func (p Plan) Rank() int {
	switch p {
	case PlanPro:
		return 1
	case PlanEnterprise:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether the plan grants entitlements of the required tier.
func (p Plan) AtLeast(required Plan) bool {
	return p.Rank() >= required.Rank()
}
