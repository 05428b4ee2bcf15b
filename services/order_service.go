package services

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CheckoutResult is the response of a successful checkout: the created order
// and a wa.me deep link pre-filled with the order summary.
type CheckoutResult struct {
	Order        *models.ResolvedOrder `json:"order"`
	WhatsappLink string                `json:"whatsappLink"`
}

type OrderService struct {
	orders         repository.OrderRepository
	carts          repository.CartRepository
	resolver       productResolver
	whatsappNumber string
}

func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, products repository.ProductRepository, categories repository.CategoryRepository, whatsappNumber string) *OrderService {
	return &OrderService{
		orders:         orders,
		carts:          carts,
		resolver:       productResolver{products: products, categories: categories},
		whatsappNumber: whatsappNumber,
	}
}

// Checkout converts the user's cart into an order. The server cart is the
// sole source of truth: every line is re-priced against the current catalog,
// the order snapshot is persisted, and the cart is emptied. Validation is
// all-or-nothing; nothing is mutated when any line fails.
func (s *OrderService) Checkout(ctx context.Context, userID primitive.ObjectID) (*CheckoutResult, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao criar pedido", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apperrors.EmptyCart()
	}

	names := map[primitive.ObjectID]string{}
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	summaryLines := make([]string, 0, len(cart.Items))
	var totalPrice float64

	for _, item := range cart.Items {
		summary, err := s.resolver.summary(ctx, item.ProductID, names)
		if err != nil {
			return nil, apperrors.Internal("Erro ao criar pedido", err)
		}
		if summary == nil {
			return nil, apperrors.InvalidLineItem(item.ProductID.Hex())
		}
		if summary.Price <= 0 || math.IsInf(summary.Price, 0) || math.IsNaN(summary.Price) {
			return nil, apperrors.InvalidLineItem(summary.Name)
		}

		subtotal := summary.Price * float64(item.Quantity)
		totalPrice += subtotal

		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     summary.Price,
			Size:      item.Size,
		})
		summaryLines = append(summaryLines, formatSummaryLine(item.Quantity, summary.Name, item.Size, subtotal))
	}

	order, err := s.orders.Create(ctx, &models.Order{
		UserID:     userID,
		Items:      orderItems,
		TotalPrice: totalPrice,
		Status:     models.OrderStatusPending,
	})
	if err != nil {
		return nil, apperrors.Internal("Erro ao criar pedido", err)
	}

	// Order is persisted before the cart is cleared; a crash in between
	// leaves both, which is the accepted at-least-once gap.
	if err := s.carts.SaveItems(ctx, cart.ID, []models.CartItem{}); err != nil {
		zap.L().Error("Failed to clear cart after checkout",
			zap.Error(err), zap.String("order_id", order.ID.Hex()))
		return nil, apperrors.Internal("Erro ao criar pedido", err)
	}

	resolved, rerr := s.resolver.resolveOrder(ctx, order)
	if rerr != nil {
		return nil, apperrors.Internal("Erro ao criar pedido", rerr)
	}

	return &CheckoutResult{
		Order:        resolved,
		WhatsappLink: s.buildWhatsappLink(summaryLines, totalPrice),
	}, nil
}

func formatSummaryLine(quantity int, name, size string, subtotal float64) string {
	if size != "" {
		return fmt.Sprintf("%dx %s (Tamanho: %s) - R$%.2f", quantity, name, size, subtotal)
	}
	return fmt.Sprintf("%dx %s - R$%.2f", quantity, name, subtotal)
}

func (s *OrderService) buildWhatsappLink(summaryLines []string, total float64) string {
	message := strings.Join(summaryLines, "\n")
	return fmt.Sprintf(
		"https://wa.me/%s?text=Ol%%C3%%A1,%%20quero%%20fazer%%20este%%20pedido:%%0A%s%%0ATotal:%%20R$%.2f",
		s.whatsappNumber, encodeURIComponent(message), total,
	)
}

// encodeURIComponent mirrors the JavaScript function of the same name:
// QueryEscape, but with spaces as %20 instead of '+'.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// GetUserOrders lists a user's orders, newest first. Only the owner or an
// admin may list them.
func (s *OrderService) GetUserOrders(ctx context.Context, callerID primitive.ObjectID, callerIsAdmin bool, userID primitive.ObjectID) ([]models.ResolvedOrder, *apperrors.Error) {
	if callerID != userID && !callerIsAdmin {
		return nil, apperrors.Forbidden("Acesso negado")
	}

	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar pedidos", err)
	}
	return s.resolveAll(ctx, orders)
}

// GetAllOrders lists every order across users, admin only.
func (s *OrderService) GetAllOrders(ctx context.Context, callerIsAdmin bool) ([]models.ResolvedOrder, *apperrors.Error) {
	if !callerIsAdmin {
		return nil, apperrors.Forbidden("Acesso negado")
	}

	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar pedidos", err)
	}
	return s.resolveAll(ctx, orders)
}

// GetOrderByID returns one order. The caller must own it or be an admin.
func (s *OrderService) GetOrderByID(ctx context.Context, callerID primitive.ObjectID, callerIsAdmin bool, orderID primitive.ObjectID) (*models.ResolvedOrder, *apperrors.Error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar pedido", err)
	}
	if order == nil {
		return nil, apperrors.NotFound("Pedido nao encontrado")
	}
	if order.UserID != callerID && !callerIsAdmin {
		return nil, apperrors.Forbidden("Acesso negado")
	}

	resolved, rerr := s.resolver.resolveOrder(ctx, order)
	if rerr != nil {
		return nil, apperrors.Internal("Erro ao buscar pedido", rerr)
	}
	return resolved, nil
}

// UpdateStatus sets an order's status, admin only. Any of the three statuses
// may move to any other; only enum membership is validated.
func (s *OrderService) UpdateStatus(ctx context.Context, callerIsAdmin bool, orderID primitive.ObjectID, status string) (*models.ResolvedOrder, *apperrors.Error) {
	if !callerIsAdmin {
		return nil, apperrors.Forbidden("Acesso negado")
	}
	if !models.IsValidOrderStatus(status) {
		return nil, apperrors.InvalidArgument("Status invalido")
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, apperrors.Internal("Erro ao atualizar pedido", err)
	}
	if order == nil {
		return nil, apperrors.NotFound("Pedido nao encontrado")
	}

	resolved, rerr := s.resolver.resolveOrder(ctx, order)
	if rerr != nil {
		return nil, apperrors.Internal("Erro ao atualizar pedido", rerr)
	}
	return resolved, nil
}

// DeleteOrder removes an order permanently, admin only.
func (s *OrderService) DeleteOrder(ctx context.Context, callerIsAdmin bool, orderID primitive.ObjectID) *apperrors.Error {
	if !callerIsAdmin {
		return apperrors.Forbidden("Acesso negado")
	}

	deleted, err := s.orders.Delete(ctx, orderID)
	if err != nil {
		return apperrors.Internal("Erro ao remover pedido", err)
	}
	if deleted == 0 {
		return apperrors.NotFound("Pedido nao encontrado")
	}
	return nil
}

func (s *OrderService) resolveAll(ctx context.Context, orders []models.Order) ([]models.ResolvedOrder, *apperrors.Error) {
	resolved := make([]models.ResolvedOrder, 0, len(orders))
	for i := range orders {
		r, err := s.resolver.resolveOrder(ctx, &orders[i])
		if err != nil {
			return nil, apperrors.Internal("Erro ao buscar pedidos", err)
		}
		resolved = append(resolved, *r)
	}
	return resolved, nil
}
