package services

import (
	"testing"
	"time"

	"conduit-api/helper"
	"conduit-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	store := newMemStore()
	secret := []byte("test-secret")
	service := NewAuthService(memUserRepo{store}, secret, time.Hour, nil)

	register := models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"}

	resp, err := service.Register(nil, register)
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEqual(t, "password123", store.users[0].Password)

	identity, err := helper.ParseToken(resp.Token, secret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.ID)
	assert.Equal(t, "alice@example.com", identity.Email)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.Register(nil, models.RegisterRequest{Username: "other", Email: "alice@example.com", Password: "password123"})
		assert.ErrorIs(t, err, models.ErrEmailAlreadyTaken)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := service.Register(nil, models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "password123"})
		assert.ErrorIs(t, err, models.ErrUsernameAlreadyTaken)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := service.Login(nil, models.LoginRequest{Email: "alice@example.com", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)

		_, err = service.Login(nil, models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, models.ErrIncorrectLoginInput)

		_, err = service.Login(nil, models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
		assert.ErrorIs(t, err, models.ErrIncorrectLoginInput)
	})

	t.Run("current user", func(t *testing.T) {
		user, err := service.GetCurrentUser(nil, identity)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		_, err = service.GetCurrentUser(nil, &models.UserDTO{ID: 404})
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestUpdateCurrentUser(t *testing.T) {
	store := newMemStore()
	secret := []byte("test-secret")
	service := NewAuthService(memUserRepo{store}, secret, time.Hour, nil)

	resp, err := service.Register(nil, models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = service.Register(nil, models.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	alice, err := helper.ParseToken(resp.Token, secret)
	require.NoError(t, err)

	t.Run("partial update", func(t *testing.T) {
		bio := "writes about go"
		updated, err := service.UpdateCurrentUser(nil, alice, models.UpdateUserRequest{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "writes about go", updated.User.Bio)
		assert.Equal(t, "alice", updated.User.Username)
		assert.Equal(t, "alice@example.com", updated.User.Email)
	})

	t.Run("taken username and email", func(t *testing.T) {
		username := "bob"
		_, err := service.UpdateCurrentUser(nil, alice, models.UpdateUserRequest{Username: &username})
		assert.ErrorIs(t, err, models.ErrUsernameAlreadyTaken)

		email := "bob@example.com"
		_, err = service.UpdateCurrentUser(nil, alice, models.UpdateUserRequest{Email: &email})
		assert.ErrorIs(t, err, models.ErrEmailAlreadyTaken)
	})

	t.Run("unchanged username is not a conflict", func(t *testing.T) {
		username := "alice"
		_, err := service.UpdateCurrentUser(nil, alice, models.UpdateUserRequest{Username: &username})
		assert.NoError(t, err)
	})

	t.Run("rename reissues the token", func(t *testing.T) {
		username := "alicia"
		updated, err := service.UpdateCurrentUser(nil, alice, models.UpdateUserRequest{Username: &username})
		require.NoError(t, err)

		identity, err := helper.ParseToken(updated.Token, secret)
		require.NoError(t, err)
		assert.Equal(t, "alicia", identity.Username)
		assert.Equal(t, alice.ID, identity.ID)
	})

	t.Run("password change", func(t *testing.T) {
		password := "newpassword"
		_, err := service.UpdateCurrentUser(nil, alice, models.UpdateUserRequest{Password: &password})
		require.NoError(t, err)

		_, err = service.Login(nil, models.LoginRequest{Email: "alice@example.com", Password: "password123"})
		assert.ErrorIs(t, err, models.ErrIncorrectLoginInput)
		_, err = service.Login(nil, models.LoginRequest{Email: "alice@example.com", Password: "newpassword"})
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.UpdateCurrentUser(nil, &models.UserDTO{ID: 404}, models.UpdateUserRequest{})
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}
