package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const currentUserKey = "current_user"

// Protect authenticates the request from the "token" cookie and loads the
// account into the context. Requests without a valid session are rejected
// with 401.
func Protect(tokens *services.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("token")
		if err != nil || tokenStr == "" {
			apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
			c.Abort()
			return
		}

		sub, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token invalido ou expirado"))
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token invalido ou expirado"))
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			apperrors.Respond(c, apperrors.Internal("Erro interno do servidor", err))
			c.Abort()
			return
		}
		if user == nil {
			apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token invalido ou expirado"))
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// AdminOnly rejects requests whose authenticated account is not an admin.
// It must run after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin {
			apperrors.Respond(c, apperrors.Forbidden("Acesso negado"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account loaded by Protect.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
