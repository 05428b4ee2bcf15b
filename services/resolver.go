package services

import (
	"context"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// productResolver joins product display fields (name, price, image, category
// name) into cart and order lines. Documents store only the product id.
type productResolver struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

// summary resolves one product into its display shape. Returns (nil, nil)
// when the product no longer exists in the catalog.
func (r *productResolver) summary(ctx context.Context, productID primitive.ObjectID, categoryNames map[primitive.ObjectID]string) (*models.ProductSummary, error) {
	product, err := r.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}

	name, ok := categoryNames[product.Category]
	if !ok {
		category, err := r.categories.FindByID(ctx, product.Category)
		if err != nil {
			return nil, err
		}
		if category != nil {
			name = category.Name
		}
		categoryNames[product.Category] = name
	}

	return product.Summary(name), nil
}

func (r *productResolver) resolveCart(ctx context.Context, cart *models.Cart) (*models.ResolvedCart, error) {
	names := map[primitive.ObjectID]string{}
	items := make([]models.ResolvedCartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		summary, err := r.summary(ctx, item.ProductID, names)
		if err != nil {
			return nil, err
		}
		items = append(items, models.ResolvedCartItem{
			Product:  summary,
			Quantity: item.Quantity,
			Size:     item.Size,
		})
	}
	return &models.ResolvedCart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     items,
		UpdatedAt: cart.UpdatedAt,
	}, nil
}

func (r *productResolver) resolveOrder(ctx context.Context, order *models.Order) (*models.ResolvedOrder, error) {
	names := map[primitive.ObjectID]string{}
	items := make([]models.ResolvedOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		summary, err := r.summary(ctx, item.ProductID, names)
		if err != nil {
			return nil, err
		}
		items = append(items, models.ResolvedOrderItem{
			Product:  summary,
			Quantity: item.Quantity,
			Price:    item.Price,
			Size:     item.Size,
		})
	}
	return &models.ResolvedOrder{
		ID:         order.ID,
		UserID:     order.UserID,
		Items:      items,
		TotalPrice: order.TotalPrice,
		Status:     order.Status,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}, nil
}
