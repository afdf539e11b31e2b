package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/image-platform/internal/domain"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

func activeUser() *domain.User {
	return &domain.User{
		ID:         "u1",
		Plan:       domain.PlanFree,
		IsActive:   true,
		IsVerified: true,
	}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Code
}

func TestCheckActive(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckActive(activeUser()))

	disabled := activeUser()
	disabled.IsActive = false
	assert.Equal(t, "ACCOUNT_DISABLED", codeOf(t, CheckActive(disabled)))

	assert.Equal(t, "AUTHENTICATION_FAILED", codeOf(t, CheckActive(nil)))
}

func TestCheckVerified(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckVerified(activeUser()))

	unverified := activeUser()
	unverified.IsVerified = false
	assert.Equal(t, "EMAIL_NOT_VERIFIED", codeOf(t, CheckVerified(unverified)))
}

func TestCheckPlan(t *testing.T) {
	t.Parallel()

	free := activeUser()
	assert.Equal(t, "INSUFFICIENT_PLAN", codeOf(t, CheckPlan(free, domain.PlanPro)))
	require.NoError(t, CheckPlan(free, domain.PlanFree))

	pro := activeUser()
	pro.Plan = domain.PlanPro
	require.NoError(t, CheckPlan(pro, domain.PlanPro))
	assert.Equal(t, "INSUFFICIENT_PLAN", codeOf(t, CheckPlan(pro, domain.PlanEnterprise)))

	enterprise := activeUser()
	enterprise.Plan = domain.PlanEnterprise
	require.NoError(t, CheckPlan(enterprise, domain.PlanEnterprise))
}

// A higher plan is never stricter than a lower one at the same requirement.
func TestCheckPlan_Monotonic(t *testing.T) {
	t.Parallel()

	plans := []domain.Plan{domain.PlanFree, domain.PlanPro, domain.PlanEnterprise}
	for _, required := range plans {
		for i := 1; i < len(plans); i++ {
			lower := activeUser()
			lower.Plan = plans[i-1]
			higher := activeUser()
			higher.Plan = plans[i]

			if CheckPlan(lower, required) == nil {
				assert.NoError(t, CheckPlan(higher, required),
					"plan %s passed requirement %s but %s failed", plans[i-1], required, plans[i])
			}
		}
	}
}

func TestCheckSuperuser(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INSUFFICIENT_PRIVILEGE", codeOf(t, CheckSuperuser(activeUser())))

	root := activeUser()
	root.IsSuperuser = true
	require.NoError(t, CheckSuperuser(root))
}

// Earlier ladder stages win: a disabled user asking for an enterprise-only
// resource is reported as disabled, not underplanned.
func TestLadder_ShortCircuitOrder(t *testing.T) {
	t.Parallel()

	disabled := activeUser()
	disabled.IsActive = false
	disabled.IsVerified = false
	assert.Equal(t, "ACCOUNT_DISABLED", codeOf(t, CheckPlan(disabled, domain.PlanEnterprise)))
	assert.Equal(t, "ACCOUNT_DISABLED", codeOf(t, CheckSuperuser(disabled)))

	unverified := activeUser()
	unverified.IsVerified = false
	assert.Equal(t, "EMAIL_NOT_VERIFIED", codeOf(t, CheckPlan(unverified, domain.PlanEnterprise)))
}
