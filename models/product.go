package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price"`
	Sizes       []string           `json:"size" bson:"size"`
	Category    primitive.ObjectID `json:"category" bson:"category"`
	ImageURLs   []string           `json:"imageUrl" bson:"imageUrl"`
	InStock     bool               `json:"inStock" bson:"inStock"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductSummary carries the display fields joined into resolved carts and
// orders. The cart and order documents themselves store only the product id.
type ProductSummary struct {
	ID           primitive.ObjectID `json:"_id"`
	Name         string             `json:"name"`
	Price        float64            `json:"price"`
	ImageURL     string             `json:"imageUrl,omitempty"`
	CategoryName string             `json:"categoryName,omitempty"`
}

func (p *Product) Summary(categoryName string) *ProductSummary {
	s := &ProductSummary{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		CategoryName: categoryName,
	}
	if len(p.ImageURLs) > 0 {
		s.ImageURL = p.ImageURLs[0]
	}
	return s
}
