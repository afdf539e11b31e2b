package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/image-platform/internal/auth"
	"github.com/spec-kit/image-platform/internal/config"
	"github.com/spec-kit/image-platform/internal/domain"
	"github.com/spec-kit/image-platform/internal/events"
	apperrors "github.com/spec-kit/image-platform/pkg/util"
)

// -------- test fakes --------

type fakeUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	nextID int
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		repo.byID[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = "user-" + strconv.Itoa(f.nextID)
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) DebitCredits(_ context.Context, userID string, amount int, today string, allowance int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byID[userID]
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

func newTestAuthService(repo *fakeUserRepo, dispatcher events.Dispatcher) *AuthService {
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	cfg := config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4}
	return NewAuthService(cfg, repo, auth.NewRevocationList(nil), dispatcher, zap.NewNop())
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Code
}

// -------- tests --------

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := newTestAuthService(repo, dispatcher)

	user, pair, err := svc.Register(context.Background(), "a@example.com", "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanFree, user.Plan)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "password1", user.PasswordHash)

	subject, err := svc.TokenManager().VerifySubject(pair.AccessToken, domain.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	subject, err = svc.TokenManager().VerifySubject(pair.RefreshToken, domain.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.UserRegisteredPayload)
	require.True(t, ok)
	assert.NotEmpty(t, payload.VerificationToken)
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, nil)

	_, _, err := svc.Register(context.Background(), "a@example.com", "alice", "password1")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "a@example.com", "other", "password1")
	assert.Equal(t, "CONFLICT", domainCode(t, err))

	_, _, err = svc.Register(context.Background(), "b@example.com", "alice", "password1")
	assert.Equal(t, "CONFLICT", domainCode(t, err))
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, nil)

	registered, _, err := svc.Register(context.Background(), "a@example.com", "alice", "password1")
	require.NoError(t, err)

	user, pair, err := svc.Login(context.Background(), "a@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)

	_, _, err = svc.Login(context.Background(), "a@example.com", "wrong")
	assert.Equal(t, "AUTHENTICATION_FAILED", domainCode(t, err))

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "password1")
	assert.Equal(t, "AUTHENTICATION_FAILED", domainCode(t, err))

	registered.IsActive = false
	_, _, err = svc.Login(context.Background(), "a@example.com", "password1")
	assert.Equal(t, "ACCOUNT_DISABLED", domainCode(t, err))
}

func TestAuthService_Refresh(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, nil)

	user, pair, err := svc.Register(context.Background(), "a@example.com", "alice", "password1")
	require.NoError(t, err)

	refreshed, newPair, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEmpty(t, newPair.AccessToken)

	// an access token is not accepted as a refresh token
	_, _, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
}

func TestAuthService_VerifyEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, nil)

	user, _, err := svc.Register(context.Background(), "a@example.com", "alice", "password1")
	require.NoError(t, err)
	require.False(t, user.IsVerified)

	token, _, err := svc.TokenManager().Issue(user.Email, domain.TokenTypeEmailVerify)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(context.Background(), token))
	assert.True(t, user.IsVerified)

	// garbage and wrong-type tokens are soft failures surfaced as InvalidToken
	err = svc.VerifyEmail(context.Background(), "garbage")
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))

	resetTok, _, err := svc.TokenManager().Issue(user.Email, domain.TokenTypePasswordReset)
	require.NoError(t, err)
	err = svc.VerifyEmail(context.Background(), resetTok)
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
}

func TestAuthService_PasswordReset(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newTestAuthService(repo, nil)

	_, _, err := svc.Register(context.Background(), "a@example.com", "alice", "old-password")
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// unknown emails yield no token and no error
	none, err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password"))

	_, _, err = svc.Login(context.Background(), "a@example.com", "old-password")
	assert.Equal(t, "AUTHENTICATION_FAILED", domainCode(t, err))

	_, _, err = svc.Login(context.Background(), "a@example.com", "new-password")
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "garbage", "whatever")
	assert.Equal(t, "INVALID_TOKEN", domainCode(t, err))
}
