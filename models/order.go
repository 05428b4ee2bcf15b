package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pendente"
	OrderStatusConfirmed = "confirmado"
	OrderStatusCancelled = "cancelado"
)

// IsValidOrderStatus reports whether s is one of the three order statuses.
// Transitions are unrestricted; only membership is checked.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem snapshots a cart line at checkout time. Price is the unit price
// frozen at order creation and never tracks later catalog changes.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"product" bson:"product"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"`
	Size      string             `json:"size" bson:"size"`
}

type Order struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user" bson:"user"`
	Items      []OrderItem        `json:"items" bson:"items"`
	TotalPrice float64            `json:"totalPrice" bson:"totalPrice"`
	Status     string             `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ResolvedOrderItem struct {
	Product  *ProductSummary `json:"product"`
	Quantity int             `json:"quantity"`
	Price    float64         `json:"price"`
	Size     string          `json:"size"`
}

type ResolvedOrder struct {
	ID         primitive.ObjectID  `json:"_id"`
	UserID     primitive.ObjectID  `json:"user"`
	Items      []ResolvedOrderItem `json:"items"`
	TotalPrice float64             `json:"totalPrice"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// PopularProduct is one row of the dashboard's best-sellers aggregation.
type PopularProduct struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id"`
	Name              string             `json:"name" bson:"name"`
	ImageURLs         []string           `json:"imageUrl" bson:"imageUrl"`
	TotalQuantitySold int64              `json:"totalQuantitySold" bson:"totalQuantitySold"`
	TotalRevenue      float64            `json:"totalRevenue" bson:"totalRevenue"`
}
