package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"beautyshop/internal/models"
)

// GetInvoice looks up the invoice generated for an order.
func GetInvoice(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /invoices/:order_id"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("order_id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var invoice models.Invoice
		if err := db.Collection("invoices").FindOne(ctx, bson.M{"orderId": orderID}).Decode(&invoice); err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, invoice)
	}
}
