package services

import (
	"context"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AddItemCommand is the normalized add-to-cart input. Size may be empty, in
// which case the product's first declared size is used.
type AddItemCommand struct {
	ProductID primitive.ObjectID
	Quantity  int
	Size      string
}

// UpdateItemCommand sets a line's quantity (not an increment). Quantity <= 0
// removes the line. Size, when set, selects the (product, size) line.
type UpdateItemCommand struct {
	ProductID primitive.ObjectID
	Quantity  int
	Size      string
}

type CartService struct {
	carts    repository.CartRepository
	resolver productResolver
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, categories repository.CategoryRepository) *CartService {
	return &CartService{
		carts:    carts,
		resolver: productResolver{products: products, categories: categories},
	}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.ResolvedCart, *apperrors.Error) {
	cart, appErr := s.getOrCreate(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	return s.resolve(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID primitive.ObjectID, cmd AddItemCommand) (*models.ResolvedCart, *apperrors.Error) {
	if cmd.Quantity < 1 {
		return nil, apperrors.InvalidArgument("Quantidade deve ser maior que zero")
	}

	product, err := s.resolver.products.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao adicionar ao carrinho", err)
	}
	if product == nil {
		return nil, apperrors.NotFound("Produto nao encontrado")
	}

	size := cmd.Size
	if size == "" {
		if len(product.Sizes) == 0 {
			return nil, apperrors.InvalidArgument("Tamanho obrigatorio")
		}
		size = product.Sizes[0]
	}

	cart, appErr := s.getOrCreate(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	found := false
	for i, item := range cart.Items {
		if item.ProductID == cmd.ProductID && item.Size == size {
			cart.Items[i].Quantity += cmd.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: cmd.ProductID,
			Quantity:  cmd.Quantity,
			Size:      size,
		})
	}

	if err := s.carts.SaveItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, apperrors.Internal("Erro ao adicionar ao carrinho", err)
	}
	return s.resolve(ctx, cart)
}

func (s *CartService) UpdateItem(ctx context.Context, userID primitive.ObjectID, cmd UpdateItemCommand) (*models.ResolvedCart, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao atualizar item do carrinho", err)
	}
	if cart == nil {
		return nil, apperrors.NotFound("Carrinho nao encontrado")
	}

	index := -1
	for i, item := range cart.Items {
		if item.ProductID != cmd.ProductID {
			continue
		}
		if cmd.Size != "" && item.Size != cmd.Size {
			continue
		}
		index = i
		break
	}
	if index < 0 {
		return nil, apperrors.NotFound("Item nao encontrado no carrinho")
	}

	if cmd.Quantity <= 0 {
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	} else {
		cart.Items[index].Quantity = cmd.Quantity
		if cmd.Size != "" {
			cart.Items[index].Size = cmd.Size
		}
	}

	if err := s.carts.SaveItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, apperrors.Internal("Erro ao atualizar item do carrinho", err)
	}
	return s.resolve(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID, size string) (*models.ResolvedCart, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao remover do carrinho", err)
	}
	if cart == nil {
		return nil, apperrors.NotFound("Carrinho nao encontrado")
	}

	index := -1
	for i, item := range cart.Items {
		if item.ProductID == productID && item.Size == size {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, apperrors.NotFound("Item nao encontrado no carrinho")
	}
	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)

	if err := s.carts.SaveItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, apperrors.Internal("Erro ao remover do carrinho", err)
	}
	return s.resolve(ctx, cart)
}

// ClearCart empties all lines, creating the cart first if it does not exist.
func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (*models.ResolvedCart, *apperrors.Error) {
	cart, appErr := s.getOrCreate(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	cart.Items = []models.CartItem{}
	if err := s.carts.SaveItems(ctx, cart.ID, cart.Items); err != nil {
		return nil, apperrors.Internal("Erro ao limpar carrinho", err)
	}
	return s.resolve(ctx, cart)
}

func (s *CartService) getOrCreate(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar carrinho", err)
	}
	if cart != nil {
		return cart, nil
	}

	cart, err = s.carts.Create(ctx, &models.Cart{UserID: userID, Items: []models.CartItem{}})
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar carrinho", err)
	}
	return cart, nil
}

func (s *CartService) resolve(ctx context.Context, cart *models.Cart) (*models.ResolvedCart, *apperrors.Error) {
	resolved, err := s.resolver.resolveCart(ctx, cart)
	if err != nil {
		zap.L().Error("Failed to resolve cart", zap.Error(err), zap.String("cart_id", cart.ID.Hex()))
		return nil, apperrors.Internal("Erro ao buscar carrinho", err)
	}
	return resolved, nil
}
