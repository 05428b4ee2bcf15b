package services

import (
	"context"
	"strings"
	"time"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// In-memory repository fakes shared by the service tests.

type fakeProductRepo struct {
	products map[primitive.ObjectID]*models.Product

	// recorded by Find/Count so tests can assert the built filter
	lastFilter  bson.M
	lastOptions *options.FindOptions
	findResult  []models.Product
	countResult int64
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: map[primitive.ObjectID]*models.Product{}}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) Find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]models.Product, error) {
	r.lastFilter = filter
	r.lastOptions = findOptions
	return r.findResult, nil
}

func (r *fakeProductRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	r.lastFilter = filter
	return r.countResult, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.products[product.ID] = product
	return product, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) (int64, error) {
	product, ok := r.products[id]
	if !ok {
		return 0, nil
	}
	if name, ok := updates["name"].(string); ok {
		product.Name = name
	}
	if description, ok := updates["description"].(string); ok {
		product.Description = description
	}
	if price, ok := updates["price"].(float64); ok {
		product.Price = price
	}
	if sizes, ok := updates["size"].([]string); ok {
		product.Sizes = sizes
	}
	if category, ok := updates["category"].(primitive.ObjectID); ok {
		product.Category = category
	}
	if inStock, ok := updates["inStock"].(bool); ok {
		product.InStock = inStock
	}
	if urls, ok := updates["imageUrl"].([]string); ok {
		product.ImageURLs = urls
	}
	return 1, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := r.products[id]; !ok {
		return 0, nil
	}
	delete(r.products, id)
	return 1, nil
}

type fakeCategoryRepo struct {
	categories map[primitive.ObjectID]*models.Category
}

func newFakeCategoryRepo(categories ...*models.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: map[primitive.ObjectID]*models.Category{}}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (r *fakeCategoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) FindByName(ctx context.Context, name string, exclude primitive.ObjectID) (*models.Category, error) {
	for _, category := range r.categories {
		if category.ID == exclude {
			continue
		}
		if strings.EqualFold(category.Name, name) {
			copied := *category
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	all := make([]models.Category, 0, len(r.categories))
	for _, category := range r.categories {
		all = append(all, *category)
	}
	return all, nil
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	r.categories[category.ID] = category
	return category, nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, id primitive.ObjectID, name string) (*models.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	category.Name = name
	category.UpdatedAt = time.Now()
	copied := *category
	return &copied, nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := r.categories[id]; !ok {
		return 0, nil
	}
	delete(r.categories, id)
	return 1, nil
}

func (r *fakeCategoryRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(r.categories)), nil
}

type fakeCartRepo struct {
	carts map[primitive.ObjectID]*models.Cart // keyed by user id

	saveErr error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[primitive.ObjectID]*models.Cart{}}
}

func (r *fakeCartRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Items = append([]models.CartItem{}, cart.Items...)
	return &copied, nil
}

func (r *fakeCartRepo) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.ID = primitive.NewObjectID()
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.CreatedAt = time.Now()
	cart.UpdatedAt = cart.CreatedAt
	r.carts[cart.UserID] = cart
	return cart, nil
}

func (r *fakeCartRepo) SaveItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, cart := range r.carts {
		if cart.ID == cartID {
			cart.Items = append([]models.CartItem{}, items...)
			cart.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (r *fakeCartRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	delete(r.carts, userID)
	return nil
}

type fakeOrderRepo struct {
	orders []*models.Order

	popular []models.PopularProduct
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	r.orders = append(r.orders, order)
	return order, nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var found []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			found = append(found, *order)
		}
	}
	return found, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context) ([]models.Order, error) {
	all := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		all = append(all, *order)
	}
	return all, nil
}

func (r *fakeOrderRepo) FindRecent(ctx context.Context, limit int64) ([]models.Order, error) {
	all, _ := r.FindAll(ctx)
	if int64(len(all)) > limit {
		all = all[int64(len(all))-limit:]
	}
	return all, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			order.Status = status
			order.UpdatedAt = time.Now()
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	for i, order := range r.orders {
		if order.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) PopularProducts(ctx context.Context, start, end time.Time, limit int64) ([]models.PopularProduct, error) {
	return r.popular, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	all := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		all = append(all, *user)
	}
	return all, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	if verified, ok := updates["isVerified"].(bool); ok {
		user.IsVerified = verified
	}
	if code, hasKey := updates["verificationCode"]; hasKey {
		if code == nil {
			user.VerificationCode = ""
		} else if s, ok := code.(string); ok {
			user.VerificationCode = s
		}
	}
	if expires, hasKey := updates["codeExpiresAt"]; hasKey {
		if expires == nil {
			user.CodeExpiresAt = nil
		} else if t, ok := expires.(*time.Time); ok {
			user.CodeExpiresAt = t
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter bson.M) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeMailer struct {
	sentTo   []string
	sentCode []string
	err      error
}

func (m *fakeMailer) SendVerificationCode(to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sentTo = append(m.sentTo, to)
	m.sentCode = append(m.sentCode, code)
	return nil
}
