package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a single line of an order. Price is a snapshot of the product
// price at order time and is never recalculated.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     Price              `bson:"price" json:"price"`
}

// Order defines the persisted order document. Items are embedded; the
// invariant is TotalPrice == sum(item.Price * item.Quantity) at creation.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"user_id"`
	TotalPrice Price              `bson:"totalPrice" json:"total_price"`
	Status     OrderStatus        `bson:"status" json:"status"`
	Items      []OrderItem        `bson:"items" json:"order_items"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updated_at"`
}
