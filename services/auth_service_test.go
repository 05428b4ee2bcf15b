package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeMailer) {
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := NewAuthService(users, NewTokenService("test-secret"), mailer)
	return svc, users, mailer
}

func TestRegisterCreatesUnverifiedAccount(t *testing.T) {
	svc, users, mailer := newAuthFixture()

	summary, appErr := svc.Register(context.Background(), "Maria", "Maria@Example.com", "senha123")
	require.Nil(t, appErr)
	assert.Equal(t, "maria@example.com", summary.Email)

	user, err := users.FindByEmail(context.Background(), "maria@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.IsVerified)
	assert.Len(t, user.VerificationCode, 7)
	require.NotNil(t, user.CodeExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *user.CodeExpiresAt, time.Minute)

	// password is stored hashed
	assert.NotEqual(t, "senha123", user.Password)

	require.Len(t, mailer.sentTo, 1)
	assert.Equal(t, "maria@example.com", mailer.sentTo[0])
	assert.Equal(t, user.VerificationCode, mailer.sentCode[0])
}

func TestRegisterValidations(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, appErr := svc.Register(context.Background(), "", "a@b.com", "senha")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Por favor preencha todos os campos", appErr.Message)

	_, appErr = svc.Register(context.Background(), "Maria", "maria@example.com", "senha123")
	require.Nil(t, appErr)

	// duplicate registration, case-insensitive on email
	_, appErr = svc.Register(context.Background(), "Maria", "MARIA@example.com", "outra")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, "Usuario ja cadastrado", appErr.Message)
}

func TestVerifyFlow(t *testing.T) {
	svc, users, mailer := newAuthFixture()

	_, appErr := svc.Register(context.Background(), "Maria", "maria@example.com", "senha123")
	require.Nil(t, appErr)
	code := mailer.sentCode[0]

	_, appErr = svc.Verify(context.Background(), "maria@example.com", "0000000")
	require.NotNil(t, appErr)
	assert.Equal(t, "Codigo de verificacao invalido", appErr.Message)

	_, appErr = svc.Verify(context.Background(), "ninguem@example.com", code)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)

	token, appErr := svc.Verify(context.Background(), "maria@example.com", code)
	require.Nil(t, appErr)
	assert.NotEmpty(t, token)

	user, err := users.FindByEmail(context.Background(), "maria@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Empty(t, user.VerificationCode)
	assert.Nil(t, user.CodeExpiresAt)

	_, appErr = svc.Verify(context.Background(), "maria@example.com", code)
	require.NotNil(t, appErr)
	assert.Equal(t, "Usuario ja verificado", appErr.Message)
}

func TestVerifyExpiredCode(t *testing.T) {
	svc, users, mailer := newAuthFixture()

	_, appErr := svc.Register(context.Background(), "Maria", "maria@example.com", "senha123")
	require.Nil(t, appErr)

	stored, err := users.FindByEmail(context.Background(), "maria@example.com")
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	users.users[stored.ID].CodeExpiresAt = &expired

	_, appErr = svc.Verify(context.Background(), "maria@example.com", mailer.sentCode[0])
	require.NotNil(t, appErr)
	assert.Equal(t, "Codigo de verificacao expirado", appErr.Message)
}

func TestLogin(t *testing.T) {
	svc, _, mailer := newAuthFixture()

	_, appErr := svc.Register(context.Background(), "Maria", "maria@example.com", "senha123")
	require.Nil(t, appErr)

	// unverified accounts may not log in
	_, _, appErr = svc.Login(context.Background(), "maria@example.com", "senha123")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Code)
	assert.Equal(t, "Usuario nao verificado", appErr.Message)

	_, appErr = svc.Verify(context.Background(), "maria@example.com", mailer.sentCode[0])
	require.Nil(t, appErr)

	_, _, appErr = svc.Login(context.Background(), "maria@example.com", "errada")
	require.NotNil(t, appErr)
	assert.Equal(t, "Email ou senha incorretos", appErr.Message)

	_, _, appErr = svc.Login(context.Background(), "desconhecida@example.com", "senha123")
	require.NotNil(t, appErr)
	assert.Equal(t, "Email ou senha incorretos", appErr.Message)

	summary, token, appErr := svc.Login(context.Background(), "MARIA@example.com", "senha123")
	require.Nil(t, appErr)
	assert.Equal(t, "maria@example.com", summary.Email)
	assert.NotEmpty(t, token)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	token, err := tokens.GenerateToken("abc123")
	require.NoError(t, err)

	sub, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc123", sub)

	_, err = tokens.ValidateToken("not-a-token")
	assert.Error(t, err)

	// token signed with a different secret is rejected
	other, err := NewTokenService("other-secret").GenerateToken("abc123")
	require.NoError(t, err)
	_, err = tokens.ValidateToken(other)
	assert.Error(t, err)
}

func TestGenerateRandomCodeLength(t *testing.T) {
	code := GenerateRandomCode(7)
	assert.Len(t, code, 7)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}
