package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (ctl *CategoryController) ListCategories(c *gin.Context) {
	categories, appErr := ctl.categories.ListCategories(c.Request.Context())
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (ctl *CategoryController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Dados invalidos"))
		return
	}

	category, appErr := ctl.categories.CreateCategory(c.Request.Context(), req.Name)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (ctl *CategoryController) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Dados invalidos"))
		return
	}

	category, appErr := ctl.categories.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (ctl *CategoryController) DeleteCategory(c *gin.Context) {
	if appErr := ctl.categories.DeleteCategory(c.Request.Context(), c.Param("id")); appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoria removida com sucesso"})
}
