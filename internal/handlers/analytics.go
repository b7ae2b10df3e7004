package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"beautyshop/internal/models"
)

// Every mutation below is a single upserted $inc against the analytics
// singleton or a purchase counter, so concurrent writers can never lose an
// update the way a read-modify-write would.

func RecordProductView(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("analytics").UpdateByID(
		ctx,
		models.AnalyticsID,
		bson.M{"$inc": bson.M{"productViews": 1}},
		options.Update().SetUpsert(true),
	)
	return err
}

// RecordOrder counts one more order and adds its total to revenue. The
// amount is converted to Decimal128 so the store-side addition stays exact.
func RecordOrder(ctx context.Context, db *mongo.Database, total models.Price) error {
	amount, err := total.Decimal128()
	if err != nil {
		return err
	}

	_, err = db.Collection("analytics").UpdateByID(
		ctx,
		models.AnalyticsID,
		bson.M{"$inc": bson.M{
			"totalOrders": 1,
			"revenue":     amount,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// RecordPurchases bumps the per-product frequency counters that back the
// most-purchased-product figure.
func RecordPurchases(ctx context.Context, db *mongo.Database, items []models.OrderItem) error {
	for _, item := range items {
		_, err := db.Collection("product_purchases").UpdateByID(
			ctx,
			item.ProductID,
			bson.M{"$inc": bson.M{"count": int64(item.Quantity)}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetAnalytics returns the aggregate snapshot, creating the singleton with
// zero counters on first read. The most-purchased product is the highest
// purchase counter, not a last-write-wins pointer.
func GetAnalytics(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /analytics"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		zeroRevenue, _ := models.ZeroPrice().Decimal128()

		var analytics models.Analytics
		err := db.Collection("analytics").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": models.AnalyticsID},
				bson.M{"$setOnInsert": bson.M{
					"productViews": int64(0),
					"totalOrders":  int64(0),
					"revenue":      zeroRevenue,
				}},
				options.FindOneAndUpdate().
					SetUpsert(true).
					SetReturnDocument(options.After),
			).
			Decode(&analytics)
		if err != nil {
			log.Println("[ANALYTICS] [ERROR] singleton read failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var top models.ProductPurchase
		err = db.Collection("product_purchases").
			FindOne(
				ctx,
				bson.M{},
				options.FindOne().SetSort(bson.D{{Key: "count", Value: -1}}),
			).
			Decode(&top)
		if err == nil {
			productID := top.ProductID
			analytics.MostPurchasedProductID = &productID
		} else if err != mongo.ErrNoDocuments {
			log.Println("[ANALYTICS] [ERROR] purchase counter read failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, analytics)
	}
}
