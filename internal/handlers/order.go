package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"beautyshop/internal/models"
)

type createOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	BillingAddress string                   `json:"billing_address" binding:"required"`
	Items          []createOrderItemRequest `json:"order_items" binding:"required"`
}

// requestedLine is a validated line item before product resolution. RawID is
// kept so a missing product can be named exactly as the client sent it.
type requestedLine struct {
	RawID     string
	ProductID primitive.ObjectID
	Quantity  int
}

// productNotFoundError aborts the order transaction; the message names the
// product id that failed to resolve.
type productNotFoundError struct {
	ProductID string
}

func (e productNotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %s not found", e.ProductID)
}

// CreateOrder runs the whole order workflow in one transaction: resolve every
// product, snapshot unit prices, sum the total with decimal arithmetic, write
// the order and its invoice. A missing product aborts the transaction so no
// partial order or invoice survives. The analytics counters are bumped after
// commit with atomic $inc updates.
func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		lines, err := buildRequestedLines(req.Items)
		if err != nil {
			var notFound productNotFoundError
			if errors.As(err, &notFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var order models.Order
		var invoice models.Invoice

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			items := make([]models.OrderItem, 0, len(lines))

			for _, line := range lines {
				var product models.Product
				err := db.Collection("products").FindOne(sessCtx, bson.M{"_id": line.ProductID}).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: line.RawID}
				}
				if err != nil {
					return nil, err
				}

				items = append(items, models.OrderItem{
					ProductID: product.ID,
					Quantity:  line.Quantity,
					Price:     product.Price,
				})
			}

			now := time.Now()
			order = models.Order{
				UserID:     userID,
				TotalPrice: computeOrderTotal(items),
				Status:     models.OrderStatusPending,
				Items:      items,
				CreatedAt:  now,
				UpdatedAt:  now,
			}

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			order.ID, _ = res.InsertedID.(primitive.ObjectID)

			invoice = models.Invoice{
				OrderID:        order.ID,
				BillingAddress: strings.TrimSpace(req.BillingAddress),
				TotalAmount:    order.TotalPrice,
				CreatedAt:      now,
			}
			invRes, err := db.Collection("invoices").InsertOne(sessCtx, invoice)
			if err != nil {
				return nil, err
			}
			invoice.ID, _ = invRes.InsertedID.(primitive.ObjectID)

			return nil, nil
		})
		if err != nil {
			var notFound productNotFoundError
			if errors.As(err, &notFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
				return
			}
			log.Println("[ORDER] [ERROR] order transaction failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// Post-commit notifications; each is a single atomic $inc so
		// concurrent orders never lose an increment.
		if err := RecordOrder(ctx, db, order.TotalPrice); err != nil {
			log.Println("[ANALYTICS] [ERROR] order counters update failed:", err)
		}
		if err := RecordPurchases(ctx, db, order.Items); err != nil {
			log.Println("[ANALYTICS] [ERROR] purchase counters update failed:", err)
		}

		log.Println("[ORDER] [INFO] order created for user:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Order created and invoice generated",
			"order_id":   order.ID.Hex(),
			"invoice_id": invoice.ID.Hex(),
		})
	}
}

// GetOrders lists the caller's orders; admins see every order.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		filter := bson.M{"userId": userID}
		if currentRole(c) == models.RoleAdmin {
			filter = bson.M{}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d orders", route, len(orders))
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrder returns a single order. Non-admin callers only read their own
// orders; anyone else's order answers 403 whether or not it exists.
func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if currentRole(c) != models.RoleAdmin && order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus sets any of the three statuses on any order. No
// transition graph is enforced.
func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req orderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Order
		err = db.Collection("orders").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": orderID},
				bson.M{"$set": bson.M{
					"status":    status,
					"updatedAt": time.Now(),
				}},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] order %s status set to %s", route, orderID.Hex(), status)
		c.JSON(http.StatusOK, gin.H{
			"message": "Order status updated successfully",
			"order":   updated,
		})
	}
}

// buildRequestedLines validates quantities and id syntax up front. An id that
// is not a well-formed ObjectID can never resolve, so it reports as the same
// not-found failure a missing product would.
func buildRequestedLines(items []createOrderItemRequest) ([]requestedLine, error) {
	if len(items) == 0 {
		return nil, errors.New("at least one order item is required")
	}

	lines := make([]requestedLine, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errors.New("quantity must be greater than zero")
		}

		raw := strings.TrimSpace(item.ProductID)
		productID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, productNotFoundError{ProductID: raw}
		}

		lines = append(lines, requestedLine{
			RawID:     raw,
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	return lines, nil
}

// computeOrderTotal sums price × quantity across items with exact decimal
// arithmetic.
func computeOrderTotal(items []models.OrderItem) models.Price {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return models.PriceFromDecimal(total)
}
