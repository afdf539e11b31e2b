package credits

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/image-platform/internal/domain"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// fakeDebiter mirrors the conditional-update semantics of the SQL debit: the
// budget condition is re-checked under the lock at write time.
type fakeDebiter struct {
	mu    sync.Mutex
	users map[string]*domain.User
	err   error
}

func newFakeDebiter(users ...*domain.User) *fakeDebiter {
	m := make(map[string]*domain.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeDebiter{users: m}
}

func (f *fakeDebiter) DebitCredits(_ context.Context, userID string, amount int, today string, allowance int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[userID]
	if !ok {
		return false, nil
	}

	usedToday := 0
	if user.GeneratedToday(today) {
		usedToday = user.CreditsUsedToday
	}
	if usedToday+amount > allowance {
		return false, nil
	}

	if user.GeneratedToday(today) {
		user.CreditsUsedToday += amount
		user.GenerationsToday++
	} else {
		user.CreditsUsedToday = amount
		user.GenerationsToday = 1
	}
	user.TotalCreditsUsed += amount
	user.LastGenerationAt = &today
	return true, nil
}

var testAllowances = Allowances{Free: 10, Pro: 100, Enterprise: 1000}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func freshFreeUser() *domain.User {
	return &domain.User{ID: "u1", Plan: domain.PlanFree, IsActive: true, IsVerified: true}
}

func TestAllowances_For(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, testAllowances.For(domain.PlanFree))
	assert.Equal(t, 100, testAllowances.For(domain.PlanPro))
	assert.Equal(t, 1000, testAllowances.For(domain.PlanEnterprise))
	assert.Equal(t, 10, testAllowances.For(domain.PlanFromString("mystery")))
}

func TestUsage_FreshUser(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(newFakeDebiter(), testAllowances)
	usage := ledger.Usage(freshFreeUser())

	assert.Equal(t, 0, usage.CreditsUsed)
	assert.Equal(t, 10, usage.CreditsRemaining)
	assert.Equal(t, 0, usage.GenerationsToday)
	assert.Equal(t, domain.PlanFree, usage.Plan)
}

// Counters from a previous day read as zero and the full allowance returns.
func TestUsage_DayRollover(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	yesterday := "2026-03-08"

	user := freshFreeUser()
	user.TotalCreditsUsed = 25
	user.CreditsUsedToday = 7
	user.GenerationsToday = 5
	user.LastGenerationAt = &yesterday

	ledger := NewLedger(newFakeDebiter(user), testAllowances).WithClock(fixedClock(now))
	usage := ledger.Usage(user)

	assert.Equal(t, 0, usage.GenerationsToday)
	assert.Equal(t, 10, usage.CreditsRemaining)
	assert.Equal(t, 25, usage.CreditsUsed, "lifetime counter is untouched by rollover")
}

func TestUsage_SameDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	today := "2026-03-09"

	user := freshFreeUser()
	user.TotalCreditsUsed = 25
	user.CreditsUsedToday = 7
	user.GenerationsToday = 3
	user.LastGenerationAt = &today

	ledger := NewLedger(newFakeDebiter(user), testAllowances).WithClock(fixedClock(now))
	usage := ledger.Usage(user)

	assert.Equal(t, 3, usage.GenerationsToday)
	assert.Equal(t, 3, usage.CreditsRemaining)
}

func TestConsume_DebitsAndRefuses(t *testing.T) {
	t.Parallel()

	user := freshFreeUser()
	repo := newFakeDebiter(user)
	ledger := NewLedger(repo, testAllowances)

	require.NoError(t, ledger.Consume(context.Background(), user, 3))
	assert.Equal(t, 7, ledger.Remaining(user))
	assert.Equal(t, 3, user.TotalCreditsUsed)
	assert.Equal(t, 1, user.GenerationsToday)

	err := ledger.Consume(context.Background(), user, 8)
	require.Error(t, err)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "INSUFFICIENT_CREDITS", de.Code)
	assert.Equal(t, 8, de.Details["required"])
	assert.Equal(t, 7, de.Details["available"])

	// refused debit leaves state untouched
	assert.Equal(t, 3, user.TotalCreditsUsed)
	assert.Equal(t, 7, ledger.Remaining(user))
	assert.Equal(t, 1, user.GenerationsToday)
}

func TestConsume_RejectsNonPositive(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(newFakeDebiter(freshFreeUser()), testAllowances)
	require.Error(t, ledger.Consume(context.Background(), freshFreeUser(), 0))
	require.Error(t, ledger.Consume(context.Background(), freshFreeUser(), -1))
}

func TestConsume_StorageFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeDebiter(freshFreeUser())
	repo.err = errors.New("connection refused")
	ledger := NewLedger(repo, testAllowances)

	err := ledger.Consume(context.Background(), freshFreeUser(), 1)
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "STORAGE_UNAVAILABLE", de.Code)
}

// Two concurrent consumers must never overdraw: with N remaining and K
// callers each asking for N, exactly one wins.
func TestConsume_ConcurrentDebitAtomicity(t *testing.T) {
	t.Parallel()

	const k = 16

	user := freshFreeUser() // allowance 10
	repo := newFakeDebiter(user)
	ledger := NewLedger(repo, testAllowances)

	var wg sync.WaitGroup
	successes := make(chan struct{}, k)
	failures := make(chan struct{}, k)

	for i := 0; i < k; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Consume(context.Background(), user, 10); err == nil {
				successes <- struct{}{}
			} else {
				failures <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)
	close(failures)

	assert.Equal(t, 1, len(successes))
	assert.Equal(t, k-1, len(failures))
	assert.Equal(t, 10, user.TotalCreditsUsed)
	assert.Equal(t, 0, ledger.Remaining(user), "balance must end at exactly zero, never negative")
}

// Consuming on a new day resets the daily counters before debiting.
func TestConsume_DayRolloverResetsCounters(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	yesterday := "2026-03-08"

	user := freshFreeUser()
	user.TotalCreditsUsed = 10
	user.CreditsUsedToday = 10
	user.GenerationsToday = 10
	user.LastGenerationAt = &yesterday

	ledger := NewLedger(newFakeDebiter(user), testAllowances).WithClock(fixedClock(now))

	require.NoError(t, ledger.Consume(context.Background(), user, 4))
	assert.Equal(t, 4, user.CreditsUsedToday)
	assert.Equal(t, 1, user.GenerationsToday)
	assert.Equal(t, 14, user.TotalCreditsUsed)
	assert.Equal(t, "2026-03-09", *user.LastGenerationAt)
	assert.Equal(t, 6, ledger.Remaining(user))
}
