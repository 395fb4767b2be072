package services

import (
	"testing"
	"time"

	"vaultbank-backend/internal/models"
	"vaultbank-backend/internal/utils"

	"github.com/stretchr/testify/assert"
)

func newTestAuthService(t *testing.T) (*AuthService, func()) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret")
	db := setupTestDB()
	mr, rdb := setupTestRedis()
	return NewAuthService(db, rdb), mr.Close
}

func TestSignup(t *testing.T) {
	svc, closeRedis := newTestAuthService(t)
	defer closeRedis()

	user, err := svc.Signup(SignupInput{
		Email:           "advisor@example.com",
		Password:        "S3curePass!",
		ConfirmPassword: "S3curePass!",
		FirstName:       "Ada",
		LastName:        "Advisor",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.NotEqual(t, "S3curePass!", user.Password)

	// A Manager row with zero float is created alongside
	var manager models.Manager
	err = svc.db.Where("user_id = ?", user.ID).First(&manager).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(0), manager.CreditBalance)
}

func TestSignup_PasswordMismatch(t *testing.T) {
	svc, closeRedis := newTestAuthService(t)
	defer closeRedis()

	_, err := svc.Signup(SignupInput{
		Email:           "advisor@example.com",
		Password:        "one",
		ConfirmPassword: "two",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	var count int64
	svc.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, closeRedis := newTestAuthService(t)
	defer closeRedis()

	input := SignupInput{
		Email:           "advisor@example.com",
		Password:        "S3curePass!",
		ConfirmPassword: "S3curePass!",
	}
	_, err := svc.Signup(input)
	assert.NoError(t, err)

	_, err = svc.Signup(input)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, closeRedis := newTestAuthService(t)
	defer closeRedis()

	_, err := svc.Signup(SignupInput{
		Email:           "advisor@example.com",
		Password:        "S3curePass!",
		ConfirmPassword: "S3curePass!",
	})
	assert.NoError(t, err)

	token, user, err := svc.Login("advisor@example.com", "S3curePass!")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleManager, user.Role)

	claims, err := utils.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, float64(user.ID), claims["user_id"])

	_, _, err = svc.Login("advisor@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, _, err = svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestDenylist(t *testing.T) {
	svc, closeRedis := newTestAuthService(t)
	defer closeRedis()

	listed, err := svc.IsDenylisted("some-token")
	assert.NoError(t, err)
	assert.False(t, listed)

	err = svc.AddToDenylist("some-token", time.Hour)
	assert.NoError(t, err)

	listed, err = svc.IsDenylisted("some-token")
	assert.NoError(t, err)
	assert.True(t, listed)
}
