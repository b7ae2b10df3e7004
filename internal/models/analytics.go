package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyticsID keys the single aggregate document. All mutations are atomic
// $inc upserts against this one document, never read-modify-write.
const AnalyticsID = "metrics"

type Analytics struct {
	ID           string `bson:"_id" json:"-"`
	ProductViews int64  `bson:"productViews" json:"product_views"`
	TotalOrders  int64  `bson:"totalOrders" json:"total_orders"`
	Revenue      Price  `bson:"revenue" json:"revenue"`

	// Derived from the product_purchases frequency counters on read, not
	// stored on the singleton.
	MostPurchasedProductID *primitive.ObjectID `bson:"-" json:"most_purchased_product_id"`
}

// ProductPurchase counts how many units of a product were ever ordered.
// The most-purchased product is the document with the highest count.
type ProductPurchase struct {
	ProductID primitive.ObjectID `bson:"_id" json:"product_id"`
	Count     int64              `bson:"count" json:"count"`
}
