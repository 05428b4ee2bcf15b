package services

import (
	"context"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService struct {
	users repository.UserRepository
	carts repository.CartRepository
}

func NewUserService(users repository.UserRepository, carts repository.CartRepository) *UserService {
	return &UserService{users: users, carts: carts}
}

// ListUsers returns every account, admin only.
func (s *UserService) ListUsers(ctx context.Context, callerIsAdmin bool) ([]models.UserSummary, *apperrors.Error) {
	if !callerIsAdmin {
		return nil, apperrors.Forbidden("Acesso negado")
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar usuarios", err)
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, *users[i].Summary())
	}
	return summaries, nil
}

// GetUser returns one account. The caller must be the account owner or an
// admin.
func (s *UserService) GetUser(ctx context.Context, callerID primitive.ObjectID, callerIsAdmin bool, userID primitive.ObjectID) (*models.UserSummary, *apperrors.Error) {
	if callerID != userID && !callerIsAdmin {
		return nil, apperrors.Forbidden("Acesso negado")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar usuario", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("Usuario nao encontrado")
	}
	return user.Summary(), nil
}

// DeleteUser removes an account and its cart, admin only.
func (s *UserService) DeleteUser(ctx context.Context, callerIsAdmin bool, userID primitive.ObjectID) *apperrors.Error {
	if !callerIsAdmin {
		return apperrors.Forbidden("Acesso negado")
	}

	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return apperrors.Internal("Erro ao remover usuario", err)
	}
	if deleted == 0 {
		return apperrors.NotFound("Usuario nao encontrado")
	}

	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		zap.L().Warn("Failed to delete cart for removed user",
			zap.Error(err), zap.String("user_id", userID.Hex()))
	}
	return nil
}
