package domain

import "testing"

func TestPlanFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]Plan{
		"free":       PlanFree,
		"pro":        PlanPro,
		"enterprise": PlanEnterprise,
		"":           PlanFree,
		"platinum":   PlanFree,
	}
	for input, want := range cases {
		if got := PlanFromString(input); got != want {
			t.Errorf("PlanFromString(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPlanRankOrdering(t *testing.T) {
	t.Parallel()

	if !(PlanFree.Rank() < PlanPro.Rank() && PlanPro.Rank() < PlanEnterprise.Rank()) {
		t.Fatalf("plan ranks out of order: free=%d pro=%d enterprise=%d",
			PlanFree.Rank(), PlanPro.Rank(), PlanEnterprise.Rank())
	}

	if !PlanEnterprise.AtLeast(PlanFree) || !PlanEnterprise.AtLeast(PlanEnterprise) {
		t.Fatalf("enterprise should satisfy all tiers")
	}
	if PlanFree.AtLeast(PlanPro) {
		t.Fatalf("free should not satisfy pro")
	}
}

func TestGeneratedToday(t *testing.T) {
	t.Parallel()

	today := "2026-03-09"
	yesterday := "2026-03-08"

	u := &User{}
	if u.GeneratedToday(today) {
		t.Fatalf("nil last generation date should not count as today")
	}

	u.LastGenerationAt = &yesterday
	if u.GeneratedToday(today) {
		t.Fatalf("yesterday should not count as today")
	}

	u.LastGenerationAt = &today
	if !u.GeneratedToday(today) {
		t.Fatalf("matching date should count as today")
	}
}
