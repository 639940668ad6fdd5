package service

import (
	"context"
	"testing"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	users := newFakeUserStore()
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
	})
	return NewAuthService(users, jwt, zap.NewNop()), users
}

func validRegistration() Registration {
	return Registration{
		Name:     "Ada",
		Surname:  "Yilmaz",
		Email:    "ada@example.com",
		Phone:    "5551234",
		Gender:   model.GenderFemale,
		Password: "supersecret",
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	auth, users := newAuthFixture(t)

	user, token, err := auth.Register(context.Background(), validRegistration())

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
	assert.Len(t, users.users, 1)
}

func TestRegisterValidatesForm(t *testing.T) {
	auth, _ := newAuthFixture(t)

	reg := validRegistration()
	reg.Name = ""
	reg.Password = "short"

	_, _, err := auth.Register(context.Background(), reg)

	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Messages, "Name cannot be empty")
	assert.Contains(t, ve.Messages, "Password must be at least 6 characters")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	auth, _ := newAuthFixture(t)

	_, _, err := auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, err = auth.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRoundTrip(t *testing.T) {
	auth, _ := newAuthFixture(t)
	_, _, err := auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	user, token, err := auth.Login(context.Background(), "ada@example.com", "supersecret")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestLoginHidesWhichCredentialFailed(t *testing.T) {
	auth, _ := newAuthFixture(t)
	_, _, err := auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	// Wrong password and unknown account fail identically.
	_, _, err = auth.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, _, err = auth.Login(context.Background(), "nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestChangePassword(t *testing.T) {
	auth, _ := newAuthFixture(t)
	user, _, err := auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	err = auth.ChangePassword(context.Background(), user.ID, "wrong", "newpassword")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	err = auth.ChangePassword(context.Background(), user.ID, "supersecret", "tiny")
	_, ok := AsValidation(err)
	assert.True(t, ok)

	require.NoError(t, auth.ChangePassword(context.Background(), user.ID, "supersecret", "newpassword"))

	_, _, err = auth.Login(context.Background(), "ada@example.com", "newpassword")
	assert.NoError(t, err)
}
