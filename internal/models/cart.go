package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart holds the single active cart of a user. The carts collection carries a
// unique index on userId, so a second cart for the same user fails at the
// store even under concurrent creation.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"user_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}

type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CartID    primitive.ObjectID `bson:"cartId" json:"cart_id"`
	ProductID primitive.ObjectID `bson:"productId" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}
