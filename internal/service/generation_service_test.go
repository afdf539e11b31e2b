package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/image-platform/internal/config"
	"github.com/spec-kit/image-platform/internal/credits"
	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/events"
)

type fakeGenerationRepo struct {
	mu      sync.Mutex
	records map[string]*domain.GenerationRecord
	nextID  int
}

func newFakeGenerationRepo() *fakeGenerationRepo {
	return &fakeGenerationRepo{records: make(map[string]*domain.GenerationRecord)}
}

func (f *fakeGenerationRepo) Create(_ context.Context, rec *domain.GenerationRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec.ID = "gen-" + strconv.Itoa(f.nextID)
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeGenerationRepo) GetByID(_ context.Context, id string) (*domain.GenerationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[id]; ok {
		return rec, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeGenerationRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*domain.GenerationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.GenerationRecord
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeGenerationRepo) UpdateStatus(_ context.Context, id string, status domain.GenerationStatus, errorMessage *string, imageID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return pgx.ErrNoRows
	}
	rec.Status = status
	rec.ErrorMessage = errorMessage
	rec.ImageID = imageID
	return nil
}

func (f *fakeGenerationRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeStyleTagRepo struct {
	mu     sync.Mutex
	bumped []string
}

func (f *fakeStyleTagRepo) Create(_ context.Context, tag *domain.StyleTag) error { return nil }
func (f *fakeStyleTagRepo) Delete(_ context.Context, id string) error            { return nil }
func (f *fakeStyleTagRepo) GetByName(_ context.Context, name string) (*domain.StyleTag, error) {
	return nil, pgx.ErrNoRows
}
func (f *fakeStyleTagRepo) List(_ context.Context, category string) ([]*domain.StyleTag, error) {
	return nil, nil
}
func (f *fakeStyleTagRepo) ListPopular(_ context.Context, limit int) ([]*domain.StyleTag, error) {
	return nil, nil
}
func (f *fakeStyleTagRepo) BumpPopularity(_ context.Context, names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bumped = append(f.bumped, names...)
	return nil
}

func testCreditsConfig() config.CreditsConfig {
	return config.CreditsConfig{
		FreeDaily:       10,
		ProDaily:        100,
		EnterpriseDaily: 1000,
		CostNormal:      1,
		Cost2K:          2,
		Cost4K:          4,
	}
}

func newTestGenerationService(users *fakeUserRepo, gens *fakeGenerationRepo, tags *fakeStyleTagRepo, dispatcher events.Dispatcher) *GenerationService {
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	cfg := testCreditsConfig()
	ledger := credits.NewLedger(users, credits.Allowances{
		Free:       cfg.FreeDaily,
		Pro:        cfg.ProDaily,
		Enterprise: cfg.EnterpriseDaily,
	})
	return NewGenerationService(gens, tags, ledger, dispatcher, zap.NewNop(), cfg)
}

func TestGenerationService_CostFor(t *testing.T) {
	t.Parallel()

	svc := newTestGenerationService(newFakeUserRepo(), newFakeGenerationRepo(), &fakeStyleTagRepo{}, nil)

	cost, err := svc.CostFor(domain.QualityNormal)
	require.NoError(t, err)
	assert.Equal(t, 1, cost)

	cost, err = svc.CostFor(domain.Quality2K)
	require.NoError(t, err)
	assert.Equal(t, 2, cost)

	cost, err = svc.CostFor(domain.Quality4K)
	require.NoError(t, err)
	assert.Equal(t, 4, cost)

	_, err = svc.CostFor(domain.ImageQuality("8K"))
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}

func TestGenerationService_Create(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: "u1", Plan: domain.PlanFree, IsActive: true, IsVerified: true}
	users := newFakeUserRepo(user)
	gens := newFakeGenerationRepo()
	tags := &fakeStyleTagRepo{}
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	dispatcher.Subscribe(events.EventGenerationRequested, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := newTestGenerationService(users, gens, tags, dispatcher)

	rec, err := svc.Create(context.Background(), user, GenerationRequest{
		Prompt:    "a watercolor fox",
		StyleTags: []string{"watercolor"},
		Ratio:     "1:1",
		Quality:   domain.Quality2K,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationPending, rec.Status)
	assert.Equal(t, 2, rec.CreditsUsed)
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, 2, user.CreditsUsedToday)
	assert.Equal(t, []string{"watercolor"}, tags.bumped)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.GenerationRequestedPayload)
	require.True(t, ok)
	assert.Equal(t, rec.ID, payload.GenerationID)
	assert.Equal(t, 2, payload.CreditsUsed)
}

func TestGenerationService_Create_InsufficientCredits(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: "u1", Plan: domain.PlanFree, IsActive: true, IsVerified: true}
	users := newFakeUserRepo(user)
	gens := newFakeGenerationRepo()
	svc := newTestGenerationService(users, gens, &fakeStyleTagRepo{}, nil)

	// burn the free allowance of 10 at 4K cost (4 credits each)
	for i := 0; i < 2; i++ {
		_, err := svc.Create(context.Background(), user, GenerationRequest{
			Prompt: "p", Ratio: "1:1", Quality: domain.Quality4K,
		})
		require.NoError(t, err)
	}

	_, err := svc.Create(context.Background(), user, GenerationRequest{
		Prompt: "p", Ratio: "1:1", Quality: domain.Quality4K,
	})
	assert.Equal(t, "INSUFFICIENT_CREDITS", domainCode(t, err))

	// a refused debit records nothing
	assert.Equal(t, 2, gens.count())
	assert.Equal(t, 8, user.CreditsUsedToday)
}

func TestGenerationService_Create_EmptyPrompt(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: "u1", Plan: domain.PlanFree}
	svc := newTestGenerationService(newFakeUserRepo(user), newFakeGenerationRepo(), &fakeStyleTagRepo{}, nil)

	_, err := svc.Create(context.Background(), user, GenerationRequest{Quality: domain.QualityNormal})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	assert.Equal(t, 0, user.CreditsUsedToday)
}

func TestGenerationService_Get_Ownership(t *testing.T) {
	t.Parallel()

	owner := &domain.User{ID: "u1", Plan: domain.PlanFree}
	other := &domain.User{ID: "u2", Plan: domain.PlanFree}
	admin := &domain.User{ID: "u3", Plan: domain.PlanFree, IsSuperuser: true}

	gens := newFakeGenerationRepo()
	svc := newTestGenerationService(newFakeUserRepo(owner, other, admin), gens, &fakeStyleTagRepo{}, nil)

	rec, err := svc.Create(context.Background(), owner, GenerationRequest{
		Prompt: "p", Ratio: "1:1", Quality: domain.QualityNormal,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), owner, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	// other users cannot see the record, and cannot learn it exists
	_, err = svc.Get(context.Background(), other, rec.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))

	_, err = svc.Get(context.Background(), admin, rec.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), owner, "missing")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}
