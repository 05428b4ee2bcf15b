package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUploader struct {
	uploads   int
	destroyed []string
}

func (u *fakeUploader) Upload(ctx context.Context, file multipart.File, publicIDHint string) (string, error) {
	u.uploads++
	return fmt.Sprintf("https://images.test/%d.jpg", u.uploads), nil
}

func (u *fakeUploader) Destroy(ctx context.Context, imageURL string) error {
	u.destroyed = append(u.destroyed, imageURL)
	return nil
}

func makeImageHeaders(t *testing.T, count int) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for i := 0; i < count; i++ {
		fw, err := writer.CreateFormFile("images", fmt.Sprintf("photo-%d.jpg", i))
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["images"]
}

func newProductFixture(categories ...*models.Category) (*ProductService, *fakeProductRepo, *fakeUploader) {
	products := newFakeProductRepo()
	uploader := &fakeUploader{}
	svc := NewProductService(products, newFakeCategoryRepo(categories...), uploader, NewProductCache(nil))
	return svc, products, uploader
}

func TestListProductsDisplayTypeSorts(t *testing.T) {
	svc, products, _ := newProductFixture()

	for _, displayType := range []string{"novidade", "destaque"} {
		_, appErr := svc.ListProducts(context.Background(), ListProductsQuery{DisplayType: displayType})
		require.Nil(t, appErr)
		assert.Equal(t, bson.M{"createdAt": -1}, products.lastOptions.Sort)
	}

	_, appErr := svc.ListProducts(context.Background(), ListProductsQuery{DisplayType: "promocao"})
	require.Nil(t, appErr)
	assert.Equal(t, bson.M{"price": 1}, products.lastOptions.Sort)

	// unknown display types fall back to newest first
	_, appErr = svc.ListProducts(context.Background(), ListProductsQuery{DisplayType: "qualquer"})
	require.Nil(t, appErr)
	assert.Equal(t, bson.M{"createdAt": -1}, products.lastOptions.Sort)
}

func TestListProductsCategoriaRequiresValidID(t *testing.T) {
	svc, products, _ := newProductFixture()

	_, appErr := svc.ListProducts(context.Background(), ListProductsQuery{DisplayType: "categoria", CategoryID: "not-an-id"})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Categoria invalida", appErr.Message)

	categoryID := primitive.NewObjectID()
	_, appErr = svc.ListProducts(context.Background(), ListProductsQuery{DisplayType: "categoria", CategoryID: categoryID.Hex()})
	require.Nil(t, appErr)
	assert.Equal(t, categoryID, products.lastFilter["category"])
}

func TestListProductsLenientFilters(t *testing.T) {
	svc, products, _ := newProductFixture()

	// malformed category without a display type is ignored, not an error
	_, appErr := svc.ListProducts(context.Background(), ListProductsQuery{CategoryID: "garbage", MinPrice: "abc", MaxPrice: "xyz"})
	require.Nil(t, appErr)
	assert.NotContains(t, products.lastFilter, "category")
	assert.NotContains(t, products.lastFilter, "price")

	_, appErr = svc.ListProducts(context.Background(), ListProductsQuery{MinPrice: "10", MaxPrice: "50"})
	require.Nil(t, appErr)
	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 50.0}, products.lastFilter["price"])

	_, appErr = svc.ListProducts(context.Background(), ListProductsQuery{Size: "P, M"})
	require.Nil(t, appErr)
	assert.Equal(t, bson.M{"$in": []string{"P", "M"}}, products.lastFilter["size"])
}

func TestListProductsAlwaysFiltersInStock(t *testing.T) {
	svc, products, _ := newProductFixture()

	_, appErr := svc.ListProducts(context.Background(), ListProductsQuery{})
	require.Nil(t, appErr)
	assert.Equal(t, true, products.lastFilter["inStock"])
}

func TestListProductsPagination(t *testing.T) {
	svc, products, _ := newProductFixture()

	result, appErr := svc.ListProducts(context.Background(), ListProductsQuery{})
	require.Nil(t, appErr)
	assert.Equal(t, int64(6), result.ProductPerPage)
	assert.Equal(t, int64(6), *products.lastOptions.Limit)
	assert.Equal(t, int64(0), *products.lastOptions.Skip)

	_, appErr = svc.ListProducts(context.Background(), ListProductsQuery{Page: "3", Limit: "12"})
	require.Nil(t, appErr)
	assert.Equal(t, int64(12), *products.lastOptions.Limit)
	assert.Equal(t, int64(24), *products.lastOptions.Skip)
}

func TestListProductsSearchMatchesNameOrDescription(t *testing.T) {
	svc, products, _ := newProductFixture()

	_, appErr := svc.ListProducts(context.Background(), ListProductsQuery{Search: "vestido (azul)"})
	require.Nil(t, appErr)

	or, ok := products.lastFilter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)
	// regex metacharacters in the search term are escaped
	assert.Equal(t, bson.M{"$regex": `vestido \(azul\)`, "$options": "i"}, or[0]["name"])
}

func TestCreateProductValidations(t *testing.T) {
	category := &models.Category{ID: primitive.NewObjectID(), Name: "Vestidos"}
	svc, _, _ := newProductFixture(category)
	images := makeImageHeaders(t, 1)

	cases := []struct {
		name    string
		cmd     CreateProductCommand
		images  []*multipart.FileHeader
		message string
	}{
		{
			name:    "missing fields",
			cmd:     CreateProductCommand{Name: "Vestido", Price: 10, Sizes: []string{"M"}, CategoryID: category.ID.Hex()},
			images:  images,
			message: "Por favor preencha todos os campos",
		},
		{
			name:    "non positive price",
			cmd:     CreateProductCommand{Name: "Vestido", Description: "desc", Price: 0, Sizes: []string{"M"}, CategoryID: category.ID.Hex()},
			images:  images,
			message: "Preco deve ser um numero positivo",
		},
		{
			name:    "no sizes",
			cmd:     CreateProductCommand{Name: "Vestido", Description: "desc", Price: 10, CategoryID: category.ID.Hex()},
			images:  images,
			message: "Informe ao menos um tamanho",
		},
		{
			name:    "no images",
			cmd:     CreateProductCommand{Name: "Vestido", Description: "desc", Price: 10, Sizes: []string{"M"}, CategoryID: category.ID.Hex()},
			images:  nil,
			message: "Imagem obrigatoria",
		},
		{
			name:    "too many images",
			cmd:     CreateProductCommand{Name: "Vestido", Description: "desc", Price: 10, Sizes: []string{"M"}, CategoryID: category.ID.Hex()},
			images:  makeImageHeaders(t, 6),
			message: "Maximo de 5 imagens",
		},
		{
			name:    "unknown category",
			cmd:     CreateProductCommand{Name: "Vestido", Description: "desc", Price: 10, Sizes: []string{"M"}, CategoryID: primitive.NewObjectID().Hex()},
			images:  images,
			message: "Categoria nao encontrada",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, appErr := svc.CreateProduct(context.Background(), tc.cmd, tc.images)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestCreateProductUploadsImages(t *testing.T) {
	category := &models.Category{ID: primitive.NewObjectID(), Name: "Vestidos"}
	svc, _, uploader := newProductFixture(category)

	product, appErr := svc.CreateProduct(context.Background(), CreateProductCommand{
		Name:        "Vestido Midi",
		Description: "Vestido midi em crepe",
		Price:       89.90,
		Sizes:       []string{"P", "M"},
		CategoryID:  category.ID.Hex(),
		InStock:     true,
	}, makeImageHeaders(t, 2))
	require.Nil(t, appErr)

	assert.Equal(t, 2, uploader.uploads)
	assert.Len(t, product.ImageURLs, 2)
	assert.Equal(t, category.ID, product.Category)
	assert.False(t, product.ID.IsZero())
}

func TestUpdateProductPartialUpdate(t *testing.T) {
	category := &models.Category{ID: primitive.NewObjectID(), Name: "Vestidos"}
	svc, products, uploader := newProductFixture(category)

	created, appErr := svc.CreateProduct(context.Background(), CreateProductCommand{
		Name:        "Vestido",
		Description: "desc",
		Price:       100,
		Sizes:       []string{"M"},
		CategoryID:  category.ID.Hex(),
		InStock:     true,
	}, makeImageHeaders(t, 2))
	require.Nil(t, appErr)
	originalURLs := append([]string{}, created.ImageURLs...)

	newPrice := 120.0
	updated, appErr := svc.UpdateProduct(context.Background(), created.ID.Hex(), UpdateProductCommand{
		Price:         &newPrice,
		KeepImageURLs: originalURLs[:1],
	}, nil)
	require.Nil(t, appErr)

	assert.Equal(t, "Vestido", updated.Name)
	assert.InDelta(t, 120.0, updated.Price, 0.001)
	assert.Equal(t, originalURLs[:1], updated.ImageURLs)
	// the dropped image was destroyed in storage
	assert.Equal(t, []string{originalURLs[1]}, uploader.destroyed)

	_, ok := products.products[created.ID]
	assert.True(t, ok)
}

func TestDeleteProductDestroysImages(t *testing.T) {
	category := &models.Category{ID: primitive.NewObjectID(), Name: "Vestidos"}
	svc, products, uploader := newProductFixture(category)

	created, appErr := svc.CreateProduct(context.Background(), CreateProductCommand{
		Name:        "Vestido",
		Description: "desc",
		Price:       100,
		Sizes:       []string{"M"},
		CategoryID:  category.ID.Hex(),
		InStock:     true,
	}, makeImageHeaders(t, 2))
	require.Nil(t, appErr)

	appErr = svc.DeleteProduct(context.Background(), created.ID.Hex())
	require.Nil(t, appErr)
	assert.Len(t, uploader.destroyed, 2)
	assert.Empty(t, products.products)

	appErr = svc.DeleteProduct(context.Background(), created.ID.Hex())
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestGetProductByID(t *testing.T) {
	svc, _, _ := newProductFixture()

	_, appErr := svc.GetProductByID(context.Background(), "garbage")
	require.NotNil(t, appErr)
	assert.Equal(t, "ID do produto invalido", appErr.Message)

	_, appErr = svc.GetProductByID(context.Background(), primitive.NewObjectID().Hex())
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestNormalizeSizes(t *testing.T) {
	assert.Equal(t, []string{"P", "M", "G"}, NormalizeSizes([]string{"P", "M", "G"}))
	assert.Equal(t, []string{"P", "M"}, NormalizeSizes([]string{`["P","M"]`}))
	assert.Equal(t, []string{"P", "M"}, NormalizeSizes([]string{"P, M"}))
	assert.Equal(t, []string{"M"}, NormalizeSizes([]string{"  M  ", ""}))
	assert.Empty(t, NormalizeSizes(nil))
}
