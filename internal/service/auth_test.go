package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caloriemate/backend/internal/models"
)

const testJWTSecret = "test-secret"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(setupTestDB(t), testJWTSecret)
}

func registerInput() *RegisterInput {
	return &RegisterInput{
		Fullname:  "Jane Doe",
		Username:  "janedoe",
		Email:     "jane@example.com",
		Gender:    models.GenderFemale,
		BirthDate: time.Date(1998, 7, 2, 0, 0, 0, 0, time.UTC),
		Password:  "Secret1",
	}
}

func TestRegister(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.False(t, user.IsActive, "accounts start inactive")
	assert.NotEmpty(t, user.ActivationCode)
	assert.Equal(t, models.RoleMember, user.Role)
	assert.NotEqual(t, "Secret1", user.PasswordHash)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newTestAuthService(t)

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1"},
		{"no uppercase", "secret1"},
		{"no digit", "Secrets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := registerInput()
			input.Password = tt.password
			_, err := svc.Register(context.Background(), input)
			assert.ErrorIs(t, err, ErrWeakPassword)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("same email", func(t *testing.T) {
		input := registerInput()
		input.Username = "someoneelse"
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("same username", func(t *testing.T) {
		input := registerInput()
		input.Email = "other@example.com"
		_, err := svc.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrUserExists)
	})
}

func TestActivate(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	activated, err := svc.Activate(context.Background(), user.ActivationCode)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	_, err = svc.Activate(context.Background(), "not-a-real-code")
	assert.ErrorIs(t, err, ErrInvalidActivation)
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	t.Run("before activation", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "jane@example.com", "Secret1")
		assert.ErrorIs(t, err, ErrAccountNotActive)
	})

	_, err = svc.Activate(context.Background(), user.ActivationCode)
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		token, err := svc.Login(context.Background(), "jane@example.com", "Secret1")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, models.RoleMember, claims.Role)
	})

	t.Run("by username", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "janedoe", "Secret1")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "jane@example.com", "Wrong1x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ghost@example.com", "Secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	svc := newTestAuthService(t)
	other := NewAuthService(svc.db, "different-secret")

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	_, err = svc.Activate(context.Background(), user.ActivationCode)
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "janedoe", "Secret1")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	fullname := "Jane Q. Doe"
	picture := "https://cdn.example.com/jane.png"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, &UpdateProfileInput{
		Fullname:       &fullname,
		ProfilePicture: &picture,
	})
	require.NoError(t, err)
	assert.Equal(t, fullname, updated.Fullname)
	assert.Equal(t, picture, updated.ProfilePicture)
	assert.Equal(t, "janedoe", updated.Username, "username is immutable")
}

func TestUpdatePassword(t *testing.T) {
	svc := newTestAuthService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	_, err = svc.Activate(context.Background(), user.ActivationCode)
	require.NoError(t, err)

	t.Run("wrong old password", func(t *testing.T) {
		err := svc.UpdatePassword(context.Background(), user.ID, "Wrong1x", "Newpass2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("weak new password", func(t *testing.T) {
		err := svc.UpdatePassword(context.Background(), user.ID, "Secret1", "weak")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, svc.UpdatePassword(context.Background(), user.ID, "Secret1", "Newpass2"))

		_, err := svc.Login(context.Background(), "janedoe", "Secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Login(context.Background(), "janedoe", "Newpass2")
		assert.NoError(t, err)
	})
}
