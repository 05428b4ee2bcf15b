package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
}

func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository) *CategoryService {
	return &CategoryService{categories: categories, products: products}
}

// CreateCategory creates a category. Names are unique case-insensitively.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*models.Category, *apperrors.Error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidArgument("Nome da categoria obrigatorio")
	}

	existing, err := s.categories.FindByName(ctx, name, primitive.NilObjectID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao criar categoria", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Ja existe uma categoria com este nome")
	}

	category, err := s.categories.Create(ctx, &models.Category{Name: name})
	if err != nil {
		return nil, apperrors.Internal("Erro ao criar categoria", err)
	}
	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, *apperrors.Error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar categorias", err)
	}
	return categories, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id, name string) (*models.Category, *apperrors.Error) {
	categoryID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidArgument("ID da categoria invalido")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidArgument("Nome da categoria obrigatorio")
	}

	existing, err := s.categories.FindByName(ctx, name, categoryID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao atualizar categoria", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("Ja existe outra categoria com este nome")
	}

	category, err := s.categories.Update(ctx, categoryID, name)
	if err != nil {
		return nil, apperrors.Internal("Erro ao atualizar categoria", err)
	}
	if category == nil {
		return nil, apperrors.NotFound("Categoria nao encontrada")
	}
	return category, nil
}

// DeleteCategory removes a category. Deletion is rejected while any product
// still references it.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) *apperrors.Error {
	categoryID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.InvalidArgument("ID da categoria invalido")
	}

	inUse, err := s.products.Count(ctx, bson.M{"category": categoryID})
	if err != nil {
		return apperrors.Internal("Erro ao remover categoria", err)
	}
	if inUse > 0 {
		return apperrors.InvalidArgument(fmt.Sprintf("Categoria em uso por %d produtos", inUse))
	}

	deleted, err := s.categories.Delete(ctx, categoryID)
	if err != nil {
		return apperrors.Internal("Erro ao remover categoria", err)
	}
	if deleted == 0 {
		return apperrors.NotFound("Categoria nao encontrada")
	}
	return nil
}
