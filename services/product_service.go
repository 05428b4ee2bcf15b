package services

import (
	"context"
	"encoding/json"
	"math"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	defaultProductsPerPage = 6
	maxProductImages       = 5
)

// ListProductsQuery carries the raw query-string filters. Values that fail
// to parse are treated as absent, except a malformed category id under the
// "categoria" display type, which is rejected.
type ListProductsQuery struct {
	DisplayType string
	CategoryID  string
	Search      string
	MinPrice    string
	MaxPrice    string
	Size        string
	Page        string
	Limit       string
}

type ProductListResult struct {
	Products       []models.Product `json:"products"`
	TotalProducts  int64            `json:"totalProducts"`
	ProductPerPage int64            `json:"productPerPage"`
}

type CreateProductCommand struct {
	Name        string
	Description string
	Price       float64
	Sizes       []string
	CategoryID  string
	InStock     bool
}

// UpdateProductCommand applies partial updates; nil pointers and empty
// CategoryID leave the field untouched. KeepImageURLs lists the existing
// images to retain; every other stored image is destroyed.
type UpdateProductCommand struct {
	Name          *string
	Description   *string
	Price         *float64
	Sizes         []string
	CategoryID    string
	InStock       *bool
	KeepImageURLs []string
}

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	uploader   ImageUploader
	cache      *ProductCache
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, uploader ImageUploader, cache *ProductCache) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		uploader:   uploader,
		cache:      cache,
	}
}

// ListProducts runs the public catalog listing. Only in-stock products are
// ever returned here.
func (s *ProductService) ListProducts(ctx context.Context, query ListProductsQuery) (*ProductListResult, *apperrors.Error) {
	if cached, ok := s.cache.GetList(ctx, query); ok {
		return cached, nil
	}

	filter := bson.M{}
	sort := bson.M{}

	switch query.DisplayType {
	case "novidade", "destaque":
		sort = bson.M{"createdAt": -1}
	case "promocao":
		sort = bson.M{"price": 1}
	case "categoria":
		if query.CategoryID != "" {
			categoryID, err := primitive.ObjectIDFromHex(query.CategoryID)
			if err != nil {
				return nil, apperrors.InvalidArgument("Categoria invalida")
			}
			filter["category"] = categoryID
		}
	}

	if query.Search != "" {
		pattern := regexp.QuoteMeta(query.Search)
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}

	if query.DisplayType == "" && query.CategoryID != "" {
		if categoryID, err := primitive.ObjectIDFromHex(query.CategoryID); err == nil {
			filter["category"] = categoryID
		}
	}

	price := bson.M{}
	if min, err := strconv.ParseFloat(query.MinPrice, 64); err == nil {
		price["$gte"] = min
	}
	if max, err := strconv.ParseFloat(query.MaxPrice, 64); err == nil {
		price["$lte"] = max
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if query.Size != "" {
		sizes := []string{}
		for _, s := range strings.Split(query.Size, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sizes = append(sizes, s)
			}
		}
		if len(sizes) > 0 {
			filter["size"] = bson.M{"$in": sizes}
		}
	}

	filter["inStock"] = true

	limit := int64(defaultProductsPerPage)
	if parsed, err := strconv.ParseInt(query.Limit, 10, 64); err == nil && parsed > 0 {
		limit = parsed
	}
	var skip int64
	if page, err := strconv.ParseInt(query.Page, 10, 64); err == nil && page > 1 {
		skip = (page - 1) * limit
	}

	if len(sort) == 0 {
		sort = bson.M{"createdAt": -1}
	}
	findOptions := options.Find().SetSort(sort).SetSkip(skip).SetLimit(limit)

	products, err := s.products.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar produtos", err)
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar produtos", err)
	}

	result := &ProductListResult{
		Products:       products,
		TotalProducts:  total,
		ProductPerPage: limit,
	}
	s.cache.SetListAsync(query, result)
	return result, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, *apperrors.Error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidArgument("ID do produto invalido")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar produto", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("Produto nao encontrado")
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, cmd CreateProductCommand, images []*multipart.FileHeader) (*models.Product, *apperrors.Error) {
	if cmd.Name == "" || cmd.Description == "" {
		return nil, apperrors.InvalidArgument("Por favor preencha todos os campos")
	}
	if cmd.Price <= 0 || math.IsInf(cmd.Price, 0) || math.IsNaN(cmd.Price) {
		return nil, apperrors.InvalidArgument("Preco deve ser um numero positivo")
	}
	sizes := NormalizeSizes(cmd.Sizes)
	if len(sizes) == 0 {
		return nil, apperrors.InvalidArgument("Informe ao menos um tamanho")
	}
	if len(images) == 0 {
		return nil, apperrors.InvalidArgument("Imagem obrigatoria")
	}
	if len(images) > maxProductImages {
		return nil, apperrors.InvalidArgument("Maximo de 5 imagens")
	}

	category, appErr := s.requireCategory(ctx, cmd.CategoryID)
	if appErr != nil {
		return nil, appErr
	}

	imageURLs, appErr := s.uploadImages(ctx, images)
	if appErr != nil {
		return nil, appErr
	}

	product, err := s.products.Create(ctx, &models.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
		Sizes:       sizes,
		Category:    category.ID,
		ImageURLs:   imageURLs,
		InStock:     cmd.InStock,
	})
	if err != nil {
		return nil, apperrors.Internal("Erro ao criar produto", err)
	}

	s.cache.Invalidate(ctx)
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, cmd UpdateProductCommand, newImages []*multipart.FileHeader) (*models.Product, *apperrors.Error) {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidArgument("ID do produto invalido")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao atualizar produto", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("Produto nao encontrado")
	}

	updates := bson.M{}

	if cmd.CategoryID != "" {
		category, appErr := s.requireCategory(ctx, cmd.CategoryID)
		if appErr != nil {
			return nil, appErr
		}
		updates["category"] = category.ID
	}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Description != nil {
		updates["description"] = *cmd.Description
	}
	if cmd.Price != nil {
		if *cmd.Price <= 0 || math.IsInf(*cmd.Price, 0) || math.IsNaN(*cmd.Price) {
			return nil, apperrors.InvalidArgument("Preco deve ser um numero positivo")
		}
		updates["price"] = *cmd.Price
	}
	if cmd.Sizes != nil {
		sizes := NormalizeSizes(cmd.Sizes)
		if len(sizes) == 0 {
			return nil, apperrors.InvalidArgument("Informe ao menos um tamanho")
		}
		updates["size"] = sizes
	}
	if cmd.InStock != nil {
		updates["inStock"] = *cmd.InStock
	}

	newURLs, appErr := s.uploadImages(ctx, newImages)
	if appErr != nil {
		return nil, appErr
	}
	finalURLs := append(append([]string{}, cmd.KeepImageURLs...), newURLs...)
	if len(finalURLs) == 0 {
		finalURLs = product.ImageURLs
	}
	if len(finalURLs) > maxProductImages {
		return nil, apperrors.InvalidArgument("Maximo de 5 imagens")
	}
	s.destroyRemovedImages(ctx, product.ImageURLs, finalURLs)
	updates["imageUrl"] = finalURLs

	if _, err := s.products.Update(ctx, productID, updates); err != nil {
		return nil, apperrors.Internal("Erro ao atualizar produto", err)
	}

	updated, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao atualizar produto", err)
	}

	s.cache.Invalidate(ctx)
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) *apperrors.Error {
	productID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.InvalidArgument("ID do produto invalido")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return apperrors.Internal("Erro ao remover produto", err)
	}
	if product == nil {
		return apperrors.NotFound("Produto nao encontrado")
	}

	s.destroyRemovedImages(ctx, product.ImageURLs, nil)

	if _, err := s.products.Delete(ctx, productID); err != nil {
		return apperrors.Internal("Erro ao remover produto", err)
	}

	s.cache.Invalidate(ctx)
	return nil
}

func (s *ProductService) requireCategory(ctx context.Context, id string) (*models.Category, *apperrors.Error) {
	categoryID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.InvalidArgument("Categoria invalida")
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar categoria", err)
	}
	if category == nil {
		return nil, apperrors.InvalidArgument("Categoria nao encontrada")
	}
	return category, nil
}

func (s *ProductService) uploadImages(ctx context.Context, images []*multipart.FileHeader) ([]string, *apperrors.Error) {
	urls := []string{}
	for _, header := range images {
		file, err := header.Open()
		if err != nil {
			return nil, apperrors.Internal("Erro ao enviar imagem", err)
		}
		url, err := s.uploader.Upload(ctx, file, "")
		file.Close()
		if err != nil {
			return nil, apperrors.Internal("Erro ao enviar imagem", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// destroyRemovedImages deletes stored images that are not in the kept set.
// Failures are logged and ignored; a dangling image is preferable to a
// failed catalog write.
func (s *ProductService) destroyRemovedImages(ctx context.Context, stored, kept []string) {
	keep := map[string]bool{}
	for _, url := range kept {
		keep[url] = true
	}
	for _, url := range stored {
		if keep[url] {
			continue
		}
		if err := s.uploader.Destroy(ctx, url); err != nil {
			zap.L().Warn("Failed to delete product image", zap.Error(err), zap.String("url", url))
		}
	}
}

// NormalizeSizes accepts sizes as repeated form values, a JSON-encoded array
// or a comma-joined string, and flattens them into a trimmed list.
func NormalizeSizes(values []string) []string {
	sizes := []string{}
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if strings.HasPrefix(value, "[") {
			var parsed []string
			if err := json.Unmarshal([]byte(value), &parsed); err == nil {
				for _, s := range parsed {
					if s = strings.TrimSpace(s); s != "" {
						sizes = append(sizes, s)
					}
				}
				continue
			}
		}
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sizes = append(sizes, s)
			}
		}
	}
	return sizes
}
