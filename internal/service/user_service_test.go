package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/authz"
	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	users  map[uuid.UUID]*model.User
	tokens map[string]*model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uuid.UUID]*model.User),
		tokens: make(map[string]*model.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	if u, ok := f.users[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) ListIDsByRole(ctx context.Context, roles ...authz.Role) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, u := range f.users {
		if !u.Active {
			continue
		}
		for _, role := range roles {
			if u.Role == string(role) {
				ids = append(ids, u.ID)
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return err
	}
	delete(f.users, uid)
	return nil
}

func (f *fakeUserRepo) CreateRefreshToken(ctx context.Context, rt *model.RefreshToken) error {
	f.tokens[rt.Token] = rt
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	if rt, ok := f.tokens[token]; ok {
		return rt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// passthroughTxm runs the function without a real transaction
type passthroughTxm struct{}

func (passthroughTxm) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func seedUser(repo *fakeUserRepo, role string, active bool) *model.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	u := &model.User{
		ID:       uuid.New(),
		Username: "user-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: string(hashed),
		Role:     role,
		Active:   active,
	}
	repo.users[u.ID] = u
	return u
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), passthroughTxm{})

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "ghost",
		Email:    "ghost@example.com",
		Password: "secret123",
		Role:     "SUPERUSER",
	})
	require.Error(t, err)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(repo, "OPERADOR", false)
	svc := NewUserService(repo, passthroughTxm{})

	_, err := svc.Login(context.Background(), LoginUserRequest{Email: user.Email, Password: "secret123"})
	require.Error(t, err)
}

func TestLoginIssuesTokens(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(repo, "SUPERVISOR", true)
	svc := NewUserService(repo, passthroughTxm{})

	tokens, err := svc.Login(context.Background(), LoginUserRequest{Email: user.Email, Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.Token)
	require.NotEmpty(t, tokens.RefreshToken)

	// Refresh token round-trips through storage
	refreshed, err := svc.RefreshToken(context.Background(), RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.Token)
}

// TestSelfDeactivationBlocked: a principal can never deactivate or delete
// their own account, regardless of role.
func TestSelfDeactivationBlocked(t *testing.T) {
	repo := newFakeUserRepo()
	admin := seedUser(repo, "ADMIN", true)
	other := seedUser(repo, "OPERADOR", true)
	svc := NewUserService(repo, passthroughTxm{})

	actor := authz.Principal{ID: admin.ID, Role: authz.RoleAdmin}

	err := svc.DeactivateUser(context.Background(), actor, admin.ID.String())
	require.Error(t, err)
	require.True(t, repo.users[admin.ID].Active, "Account must stay active after blocked self-deactivation")

	err = svc.DeleteUser(context.Background(), actor, admin.ID.String())
	require.Error(t, err)

	// Deactivating someone else works and keeps the row
	require.NoError(t, svc.DeactivateUser(context.Background(), actor, other.ID.String()))
	require.False(t, repo.users[other.ID].Active)
	require.NotNil(t, repo.users[other.ID], "Deactivation must not remove the account")
}

func TestDeactivateUnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	admin := seedUser(repo, "ADMIN", true)
	svc := NewUserService(repo, passthroughTxm{})

	err := svc.DeactivateUser(context.Background(), authz.Principal{ID: admin.ID, Role: authz.RoleAdmin}, uuid.NewString())
	require.True(t, errors.Is(err, ErrNotFound))
}
