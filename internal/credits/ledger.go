package credits

import (
	"context"
	"time"

	"github.com/spec-kit/image-platform/internal/domain"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// Allowances holds the daily credit budget per plan.
type Allowances struct {
	Free       int
	Pro        int
	Enterprise int
}

// For returns the daily allowance for a plan. The plan enumeration is closed;
// PlanFromString already folds unknown values into free.
func (a Allowances) For(plan domain.Plan) int {
	switch plan {
	case domain.PlanPro:
		return a.Pro
	case domain.PlanEnterprise:
		return a.Enterprise
	case domain.PlanFree:
		return a.Free
	}
	return a.Free
}

// Debiter is the single transactional persistence operation the ledger needs:
// an atomic conditional debit that re-checks the remaining budget at write
// time. It returns false without mutating when the budget would overdraw.
type Debiter interface {
	DebitCredits(ctx context.Context, userID string, amount int, today string, allowance int) (bool, error)
}

// Usage is a point-in-time view of a user's credit state.
type Usage struct {
	CreditsUsed      int         `json:"credits_used"`
	CreditsRemaining int         `json:"credits_remaining"`
	GenerationsToday int         `json:"generations_today"`
	TotalGenerations int         `json:"total_generations"`
	Plan             domain.Plan `json:"plan"`
}

// Ledger enforces per-user daily credit budgets. All daily state is keyed on
// whether last_generation_at equals the current UTC date; stale counters read
// as zero and a fresh day starts with the full allowance.
type Ledger struct {
	repo       Debiter
	allowances Allowances
	now        func() time.Time
}

// NewLedger builds a ledger over the given debiter.
func NewLedger(repo Debiter, allowances Allowances) *Ledger {
	return &Ledger{repo: repo, allowances: allowances, now: time.Now}
}

// WithClock overrides the time source; used by tests to exercise rollover.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Today returns the current UTC calendar date.
func (l *Ledger) Today() string {
	return l.now().UTC().Format(domain.DateLayout)
}

// Usage computes the user's current credit state. Pure read, never mutates.
func (l *Ledger) Usage(user *domain.User) Usage {
	allowance := l.allowances.For(user.Plan)
	usage := Usage{
		CreditsUsed: user.TotalCreditsUsed,
		// lifetime generations are approximated as lifetime credits
		TotalGenerations: user.TotalCreditsUsed,
		Plan:             user.Plan,
	}

	if user.GeneratedToday(l.Today()) {
		usage.GenerationsToday = user.GenerationsToday
		remaining := allowance - user.CreditsUsedToday
		if remaining < 0 {
			remaining = 0
		}
		usage.CreditsRemaining = remaining
	} else {
		usage.GenerationsToday = 0
		usage.CreditsRemaining = allowance
	}
	return usage
}

// Remaining returns the user's remaining budget for today.
func (l *Ledger) Remaining(user *domain.User) int {
	return l.Usage(user).CreditsRemaining
}

// Consume debits amount from the user's daily budget. It fails closed with
// InsufficientCredits and no mutation when the budget is short; the actual
// check-and-debit happens in one conditional update so concurrent consumers
// cannot overdraw between read and write.
func (l *Ledger) Consume(ctx context.Context, user *domain.User, amount int) error {
	if amount <= 0 {
		return apperrors.NewValidationError("credit amount must be positive", nil)
	}

	allowance := l.allowances.For(user.Plan)
	ok, err := l.repo.DebitCredits(ctx, user.ID, amount, l.Today(), allowance)
	if err != nil {
		return apperrors.NewStorageUnavailable(err)
	}
	if !ok {
		return apperrors.NewInsufficientCredits(amount, l.Remaining(user))
	}
	return nil
}
