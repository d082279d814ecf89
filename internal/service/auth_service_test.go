package service

import (
	"testing"

	"go-jalin-ops/internal/apperr"
	"go-jalin-ops/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// --- Mock Repository ---

type MockUserRepo struct {
	ByEmail map[string]*model.User
	ByID    map[uuid.UUID]*model.User
	Created *model.User
	Updated *model.User
	RoleSet string
	Rows    int64
	Err     error
}

func (m *MockUserRepo) FindByEmail(email string) (*model.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepo) FindAll() ([]model.User, error) {
	users := make([]model.User, 0, len(m.ByEmail))
	for _, u := range m.ByEmail {
		users = append(users, *u)
	}
	return users, m.Err
}

func (m *MockUserRepo) Create(user *model.User) error {
	m.Created = user
	return m.Err
}

func (m *MockUserRepo) Update(user *model.User) error {
	m.Updated = user
	return m.Err
}

func (m *MockUserRepo) UpdateRole(id uuid.UUID, role string) (int64, error) {
	m.RoleSet = role
	return m.Rows, m.Err
}

// --- Tests: OAuth callback upsert ---

func TestOAuthCallbackCreatesUserWithDefaultRole(t *testing.T) {
	repo := &MockUserRepo{ByEmail: map[string]*model.User{}}
	svc := NewAuthService(repo)

	resp, err := svc.OAuthCallback("new@example.com", "New User", "https://img.example/p.png")
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	assert.NotNil(t, repo.Created)
	assert.Equal(t, model.RoleUser, repo.Created.Role)
	assert.Equal(t, "new@example.com", repo.Created.Email)
}

func TestOAuthCallbackKeepsExistingRole(t *testing.T) {
	existing := &model.User{Email: "boss@example.com", FullName: "Old Name", Role: model.RoleDirektur}
	existing.ID = uuid.New()
	repo := &MockUserRepo{ByEmail: map[string]*model.User{"boss@example.com": existing}}
	svc := NewAuthService(repo)

	resp, err := svc.OAuthCallback("boss@example.com", "Fresh Name", "")
	assert.NoError(t, err)
	assert.Equal(t, model.RoleDirektur, resp.User.Role, "role must never be downgraded on sign-in")
	assert.Equal(t, "Fresh Name", repo.Updated.FullName, "profile fields refresh from the provider")
	assert.Nil(t, repo.Created)
}

func TestOAuthCallbackRequiresEmail(t *testing.T) {
	svc := NewAuthService(&MockUserRepo{ByEmail: map[string]*model.User{}})

	_, err := svc.OAuthCallback("", "No Email", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

// --- Tests: local fallback login ---

func TestLogin(t *testing.T) {
	user := &model.User{Email: "ops@example.com", Role: model.RoleAdmin}
	user.ID = uuid.New()
	assert.NoError(t, user.SetPassword("rahasia1"))
	repo := &MockUserRepo{ByEmail: map[string]*model.User{"ops@example.com": user}}
	svc := NewAuthService(repo)

	t.Run("Success", func(t *testing.T) {
		resp, err := svc.Login("ops@example.com", "rahasia1")
		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, model.RoleAdmin, resp.User.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := svc.Login("ops@example.com", "salah")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := svc.Login("ghost@example.com", "rahasia1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("OAuth-only account has no password", func(t *testing.T) {
		oauthOnly := &model.User{Email: "oauth@example.com", Role: model.RoleUser}
		oauthOnly.ID = uuid.New()
		repo := &MockUserRepo{ByEmail: map[string]*model.User{"oauth@example.com": oauthOnly}}
		_, err := NewAuthService(repo).Login("oauth@example.com", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

// --- Tests: role change ---

func TestChangeRole(t *testing.T) {
	t.Run("Rejects unknown role", func(t *testing.T) {
		svc := NewUserService(&MockUserRepo{})
		_, err := svc.ChangeRole(uuid.New(), "superuser")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Not found", func(t *testing.T) {
		svc := NewUserService(&MockUserRepo{Rows: 0})
		_, err := svc.ChangeRole(uuid.New(), model.RoleAdmin)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Success", func(t *testing.T) {
		user := &model.User{Email: "ops@example.com", Role: model.RoleAdmin}
		user.ID = uuid.New()
		repo := &MockUserRepo{Rows: 1, ByID: map[uuid.UUID]*model.User{user.ID: user}}
		svc := NewUserService(repo)

		resp, err := svc.ChangeRole(user.ID, model.RoleAdmin)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, repo.RoleSet)
		assert.Equal(t, user.Email, resp.Email)
	})
}
