package services

import (
	"context"
	"time"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	apperrors "github.com/joelsondeveloper/lizzy-moda-evangelica/pkg/errors"
	"github.com/joelsondeveloper/lizzy-moda-evangelica/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const recentOrdersLimit = 5

type MetricWithChange struct {
	Value  int64   `json:"value"`
	Change float64 `json:"change"`
}

type RecentOrder struct {
	ID          primitive.ObjectID `json:"_id"`
	ClientName  string             `json:"clientName"`
	ClientEmail string             `json:"clientEmail"`
	Total       float64            `json:"total"`
	Status      string             `json:"status"`
	Date        time.Time          `json:"date"`
}

type DashboardMetrics struct {
	TotalProducts      int64                   `json:"totalProducts"`
	TotalCategories    int64                   `json:"totalCategories"`
	TotalUsers         int64                   `json:"totalUsers"`
	OrdersCount        MetricWithChange        `json:"ordersCount"`
	PendingOrdersCount MetricWithChange        `json:"pendingOrdersCount"`
	NewUsersCount      MetricWithChange        `json:"newUsersCount"`
	NewProductsCount   MetricWithChange        `json:"newProductsCount"`
	RecentOrders       []RecentOrder           `json:"recentOrders"`
	PopularProducts    []models.PopularProduct `json:"popularProducts"`
}

type DashboardService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	orders     repository.OrderRepository
}

func NewDashboardService(products repository.ProductRepository, categories repository.CategoryRepository, users repository.UserRepository, orders repository.OrderRepository) *DashboardService {
	return &DashboardService{
		products:   products,
		categories: categories,
		users:      users,
		orders:     orders,
	}
}

type periodMetrics struct {
	totalProducts   int64
	totalCategories int64
	totalUsers      int64
	orders          int64
	pendingOrders   int64
	newUsers        int64
	newProducts     int64
}

// GetMetrics computes the admin dashboard: totals, current-vs-previous
// period counts with percentage change, the five most recent orders and the
// period's best sellers. Dates parse as RFC 3339 or YYYY-MM-DD; when either
// is absent the current period defaults to the last year.
func (s *DashboardService) GetMetrics(ctx context.Context, callerIsAdmin bool, startDate, endDate string) (*DashboardMetrics, *apperrors.Error) {
	if !callerIsAdmin {
		return nil, apperrors.Forbidden("Acesso negado")
	}

	currentEnd := time.Now().UTC()
	currentStart := currentEnd.AddDate(-1, 0, 0)
	if start, ok := parseDate(startDate); ok {
		if end, ok := parseDate(endDate); ok {
			currentStart, currentEnd = start, end
		}
	}

	periodDuration := currentEnd.Sub(currentStart)
	previousEnd := currentStart
	previousStart := previousEnd.Add(-periodDuration)

	current, err := s.periodMetrics(ctx, currentStart, currentEnd)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar metricas", err)
	}
	previous, err := s.periodMetrics(ctx, previousStart, previousEnd)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar metricas", err)
	}

	recent, appErr := s.recentOrders(ctx)
	if appErr != nil {
		return nil, appErr
	}

	popular, err := s.orders.PopularProducts(ctx, currentStart, currentEnd, recentOrdersLimit)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar metricas", err)
	}

	return &DashboardMetrics{
		TotalProducts:      current.totalProducts,
		TotalCategories:    current.totalCategories,
		TotalUsers:         current.totalUsers,
		OrdersCount:        changeMetric(current.orders, previous.orders),
		PendingOrdersCount: changeMetric(current.pendingOrders, previous.pendingOrders),
		NewUsersCount:      changeMetric(current.newUsers, previous.newUsers),
		NewProductsCount:   changeMetric(current.newProducts, previous.newProducts),
		RecentOrders:       recent,
		PopularProducts:    popular,
	}, nil
}

func (s *DashboardService) periodMetrics(ctx context.Context, start, end time.Time) (*periodMetrics, error) {
	upTo := bson.M{"createdAt": bson.M{"$lte": end}}
	inPeriod := bson.M{"createdAt": bson.M{"$gte": start, "$lte": end}}

	m := &periodMetrics{}
	var err error

	if m.totalProducts, err = s.products.Count(ctx, upTo); err != nil {
		return nil, err
	}
	if m.totalCategories, err = s.categories.Count(ctx, upTo); err != nil {
		return nil, err
	}
	if m.totalUsers, err = s.users.Count(ctx, upTo); err != nil {
		return nil, err
	}
	if m.orders, err = s.orders.Count(ctx, inPeriod); err != nil {
		return nil, err
	}
	pendingFilter := bson.M{
		"status":    models.OrderStatusPending,
		"createdAt": bson.M{"$gte": start, "$lte": end},
	}
	if m.pendingOrders, err = s.orders.Count(ctx, pendingFilter); err != nil {
		return nil, err
	}
	if m.newUsers, err = s.users.Count(ctx, inPeriod); err != nil {
		return nil, err
	}
	if m.newProducts, err = s.products.Count(ctx, inPeriod); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *DashboardService) recentOrders(ctx context.Context) ([]RecentOrder, *apperrors.Error) {
	orders, err := s.orders.FindRecent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, apperrors.Internal("Erro ao buscar metricas", err)
	}

	recent := make([]RecentOrder, 0, len(orders))
	for _, order := range orders {
		clientName, clientEmail := "Desconhecido", "Desconhecido"
		user, err := s.users.FindByID(ctx, order.UserID)
		if err != nil {
			return nil, apperrors.Internal("Erro ao buscar metricas", err)
		}
		if user != nil {
			clientName, clientEmail = user.Name, user.Email
		}
		recent = append(recent, RecentOrder{
			ID:          order.ID,
			ClientName:  clientName,
			ClientEmail: clientEmail,
			Total:       order.TotalPrice,
			Status:      order.Status,
			Date:        order.CreatedAt,
		})
	}
	return recent, nil
}

func changeMetric(current, previous int64) MetricWithChange {
	m := MetricWithChange{Value: current}
	if previous == 0 {
		if current > 0 {
			m.Change = 100
		}
		return m
	}
	m.Change = (float64(current) - float64(previous)) / float64(previous) * 100
	return m
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
