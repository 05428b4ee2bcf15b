package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one (product, size) line. The cart holds at most one line per
// (product, size) pair; adding the same pair again increments the quantity.
type CartItem struct {
	ProductID primitive.ObjectID `json:"product" bson:"product"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Size      string             `json:"size" bson:"size"`
}

type Cart struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user" bson:"user"`
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ResolvedCartItem is a cart line with the referenced product's display
// fields joined in. Product is nil when the catalog entry no longer exists.
type ResolvedCartItem struct {
	Product  *ProductSummary `json:"product"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size"`
}

type ResolvedCart struct {
	ID        primitive.ObjectID `json:"_id"`
	UserID    primitive.ObjectID `json:"user"`
	Items     []ResolvedCartItem `json:"items"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
