package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/middleware"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// ListUsers returns every account, admin only.
func (ctl *UserController) ListUsers(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	users, appErr := ctl.users.ListUsers(c.Request.Context(), user.IsAdmin)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns one account, owner or admin.
func (ctl *UserController) GetUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do usuario invalido"))
		return
	}

	summary, appErr := ctl.users.GetUser(c.Request.Context(), user.ID, user.IsAdmin, userID)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DeleteUser removes an account, admin only.
func (ctl *UserController) DeleteUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("ID do usuario invalido"))
		return
	}

	if appErr := ctl.users.DeleteUser(c.Request.Context(), user.IsAdmin, userID); appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuario removido com sucesso"})
}
