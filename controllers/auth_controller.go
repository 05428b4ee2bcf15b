package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/middleware"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
)

const sessionCookieMaxAge = 30 * 24 * 60 * 60

type AuthController struct {
	auth         *services.AuthService
	cookieSecure bool
}

func NewAuthController(auth *services.AuthService, cookieSecure bool) *AuthController {
	return &AuthController{auth: auth, cookieSecure: cookieSecure}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an unverified account and mails the verification code.
func (ctl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Dados invalidos"))
		return
	}

	user, appErr := ctl.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Codigo de verificacao enviado para o email",
		"user":    user,
	})
}

// Verify checks the emailed code and opens a session on success.
func (ctl *AuthController) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Dados invalidos"))
		return
	}

	token, appErr := ctl.auth.Verify(c.Request.Context(), req.Email, req.Code)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}

	ctl.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "Email verificado com sucesso"})
}

// Login authenticates by email and password and opens a session.
func (ctl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Dados invalidos"))
		return
	}

	user, token, appErr := ctl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}

	ctl.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Me returns the authenticated account.
func (ctl *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperrors.Respond(c, apperrors.Unauthorized("Nao autorizado, token nao fornecido"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

// Logout clears the session cookie.
func (ctl *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("token", "", -1, "/", "", ctl.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso"})
}

func (ctl *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("token", token, sessionCookieMaxAge, "/", "", ctl.cookieSecure, true)
}
