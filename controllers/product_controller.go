package controllers

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/services"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// ListProducts returns the public catalog page for the given filters.
func (ctl *ProductController) ListProducts(c *gin.Context) {
	query := services.ListProductsQuery{
		DisplayType: c.Query("displayType"),
		CategoryID:  c.Query("category"),
		Search:      c.Query("search"),
		MinPrice:    c.Query("minPrice"),
		MaxPrice:    c.Query("maxPrice"),
		Size:        c.Query("size"),
		Page:        c.Query("page"),
		Limit:       c.Query("limit"),
	}

	result, appErr := ctl.products.ListProducts(c.Request.Context(), query)
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProduct returns one product by id.
func (ctl *ProductController) GetProduct(c *gin.Context) {
	product, appErr := ctl.products.GetProductByID(c.Request.Context(), c.Param("id"))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct creates a product from a multipart form, uploading up to
// five images.
func (ctl *ProductController) CreateProduct(c *gin.Context) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		apperrors.Respond(c, apperrors.InvalidArgument("Preco invalido"))
		return
	}

	cmd := services.CreateProductCommand{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Price:       price,
		Sizes:       services.NormalizeSizes(c.PostFormArray("size")),
		CategoryID:  c.PostForm("category"),
		InStock:     parseBoolDefault(c.PostForm("inStock"), true),
	}

	product, appErr := ctl.products.CreateProduct(c.Request.Context(), cmd, formImages(c))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update from a multipart form. Absent
// fields are left untouched; currentImageUrls lists the stored images to
// keep.
func (ctl *ProductController) UpdateProduct(c *gin.Context) {
	cmd := services.UpdateProductCommand{
		CategoryID: c.PostForm("category"),
	}

	if name, ok := c.GetPostForm("name"); ok {
		trimmed := strings.TrimSpace(name)
		cmd.Name = &trimmed
	}
	if description, ok := c.GetPostForm("description"); ok {
		trimmed := strings.TrimSpace(description)
		cmd.Description = &trimmed
	}
	if raw, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			apperrors.Respond(c, apperrors.InvalidArgument("Preco invalido"))
			return
		}
		cmd.Price = &price
	}
	if raw, ok := c.GetPostForm("inStock"); ok {
		inStock := parseBoolDefault(raw, true)
		cmd.InStock = &inStock
	}
	if sizes := c.PostFormArray("size"); len(sizes) > 0 {
		cmd.Sizes = services.NormalizeSizes(sizes)
	}
	if raw, ok := c.GetPostForm("currentImageUrls"); ok {
		cmd.KeepImageURLs = parseImageURLList(raw)
	}

	product, appErr := ctl.products.UpdateProduct(c.Request.Context(), c.Param("id"), cmd, formImages(c))
	if appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product and its stored images.
func (ctl *ProductController) DeleteProduct(c *gin.Context) {
	if appErr := ctl.products.DeleteProduct(c.Request.Context(), c.Param("id")); appErr != nil {
		apperrors.Respond(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produto removido com sucesso"})
}

func formImages(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["images"]
}

// parseImageURLList accepts either a JSON array or a single URL, matching
// what the frontend sends for currentImageUrls.
func parseImageURLList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			return urls
		}
	}
	return []string{raw}
}

func parseBoolDefault(raw string, fallback bool) bool {
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
