package repository

import (
	"context"
	"time"

	"github.com/joelsondeveloper/lizzy-moda-evangelica/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartRepository persists one cart document per user. FindByUser returns
// (nil, nil) when the user has no cart yet.
type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	SaveItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

func (r *MongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *MongoCartRepository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	now := time.Now().UTC()
	cart.ID = primitive.NewObjectID()
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.CreatedAt = now
	cart.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *MongoCartRepository) SaveItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	update := bson.M{"$set": bson.M{"items": items, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": cartID}, update)
	return err
}

func (r *MongoCartRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user": userID})
	return err
}
