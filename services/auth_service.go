package services

import (
	"context"
	"strings"
	"time"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationCodeLength = 7
	verificationCodeTTL    = 15 * time.Minute
)

type AuthService struct {
	users  repository.UserRepository
	tokens *TokenService
	mailer Mailer
}

func NewAuthService(users repository.UserRepository, tokens *TokenService, mailer Mailer) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer}
}

// Register creates an unverified account and mails it a verification code.
// Emails are unique case-insensitively; they are stored lowercased.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.UserSummary, *apperrors.Error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.InvalidArgument("Por favor preencha todos os campos")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal("Erro interno do servidor", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Usuario ja cadastrado")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Erro interno do servidor", err)
	}

	code := GenerateRandomCode(verificationCodeLength)
	expiresAt := time.Now().Add(verificationCodeTTL)

	user, err := s.users.Create(ctx, &models.User{
		Name:             name,
		Email:            email,
		Password:         string(hashed),
		IsVerified:       false,
		VerificationCode: code,
		CodeExpiresAt:    &expiresAt,
	})
	if err != nil {
		return nil, apperrors.Internal("Erro interno do servidor", err)
	}

	if err := s.mailer.SendVerificationCode(email, code); err != nil {
		return nil, apperrors.Internal("Erro ao enviar codigo de verificacao", err)
	}

	return user.Summary(), nil
}

// Verify checks the emailed code, marks the account verified and issues a
// session token.
func (s *AuthService) Verify(ctx context.Context, email, code string) (string, *apperrors.Error) {
	if email == "" || code == "" {
		return "", apperrors.InvalidArgument("Por favor preencha todos os campos")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", apperrors.Internal("Erro interno do servidor", err)
	}
	if user == nil {
		return "", apperrors.NotFound("Usuario nao encontrado")
	}
	if user.IsVerified {
		return "", apperrors.InvalidArgument("Usuario ja verificado")
	}
	if user.VerificationCode != code {
		return "", apperrors.InvalidArgument("Codigo de verificacao invalido")
	}
	if user.CodeExpiresAt == nil || user.CodeExpiresAt.Before(time.Now()) {
		return "", apperrors.InvalidArgument("Codigo de verificacao expirado")
	}

	err = s.users.Update(ctx, user.ID, bson.M{
		"isVerified":       true,
		"verificationCode": nil,
		"codeExpiresAt":    nil,
	})
	if err != nil {
		return "", apperrors.Internal("Erro interno do servidor", err)
	}

	token, err := s.tokens.GenerateToken(user.ID.Hex())
	if err != nil {
		return "", apperrors.Internal("Erro interno do servidor", err)
	}
	return token, nil
}

// Login authenticates a verified user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.UserSummary, string, *apperrors.Error) {
	if email == "" || password == "" {
		return nil, "", apperrors.InvalidArgument("Por favor preencha todos os campos")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", apperrors.Internal("Erro interno do servidor", err)
	}
	if user == nil {
		return nil, "", apperrors.Unauthorized("Email ou senha incorretos")
	}
	if !user.IsVerified {
		return nil, "", apperrors.Unauthorized("Usuario nao verificado")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", apperrors.Unauthorized("Email ou senha incorretos")
	}

	token, err := s.tokens.GenerateToken(user.ID.Hex())
	if err != nil {
		zap.L().Error("Failed to sign session token", zap.Error(err))
		return nil, "", apperrors.Internal("Erro interno do servidor", err)
	}
	return user.Summary(), token, nil
}
