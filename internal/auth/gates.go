package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/image-platform/internal/domain"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// The authorization ladder: authenticated -> active -> verified -> plan-tier
// -> superuser. Each check requires the prior stage to have passed and stops
// at the first failure, so a disabled user asking for an enterprise feature
// is reported as disabled, not underplanned.

// CheckActive fails with AccountDisabled for inactive users.
func CheckActive(user *domain.User) error {
	if user == nil {
		return apperrors.NewAuthenticationFailed("authentication required")
	}
	if !user.IsActive {
		return apperrors.NewAccountDisabled()
	}
	return nil
}

// CheckVerified fails with EmailNotVerified for active but unverified users.
func CheckVerified(user *domain.User) error {
	if err := CheckActive(user); err != nil {
		return err
	}
	if !user.IsVerified {
		return apperrors.NewEmailNotVerified()
	}
	return nil
}

// CheckPlan fails with InsufficientPlan when the user's tier ranks below required.
func CheckPlan(user *domain.User, required domain.Plan) error {
	if err := CheckVerified(user); err != nil {
		return err
	}
	if !user.Plan.AtLeast(required) {
		return apperrors.NewInsufficientPlan(string(required))
	}
	return nil
}

// CheckSuperuser fails with InsufficientPrivilege for non-superusers.
func CheckSuperuser(user *domain.User) error {
	if err := CheckActive(user); err != nil {
		return err
	}
	if !user.IsSuperuser {
		return apperrors.NewInsufficientPrivilege()
	}
	return nil
}

// RequireActive gates a route on the active check.
func RequireActive() fiber.Handler {
	return gate(CheckActive)
}

// RequireVerified gates a route on active + verified.
func RequireVerified() fiber.Handler {
	return gate(CheckVerified)
}

// RequirePlan gates a route on active + verified + plan tier.
func RequirePlan(required domain.Plan) fiber.Handler {
	return gate(func(user *domain.User) error {
		return CheckPlan(user, required)
	})
}

// RequireSuperuser gates a route on active + superuser.
func RequireSuperuser() fiber.Handler {
	return gate(CheckSuperuser)
}

func gate(check func(*domain.User) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := UserFromContext(c)
		if err := check(user); err != nil {
			return err
		}
		return c.Next()
	}
}
