package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice is created together with its order in the same transaction;
// TotalAmount equals the order total at creation.
type Invoice struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID        primitive.ObjectID `bson:"orderId" json:"order_id"`
	BillingAddress string             `bson:"billingAddress" json:"billing_address"`
	TotalAmount    Price              `bson:"totalAmount" json:"total_amount"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
}
