package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"beautyshop/internal/models"
)

type CartItemCreateRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

type CartItemUpdateRequest struct {
	Quantity *int `json:"quantity"`
}

// cartItemResponse is a cart item with its product embedded. Product is nil
// when the referenced product has since been deleted.
type cartItemResponse struct {
	ID       primitive.ObjectID `json:"id"`
	CartID   primitive.ObjectID `json:"cart_id"`
	Product  *models.Product    `json:"product"`
	Quantity int                `json:"quantity"`
}

// CreateCart relies on the unique index on carts.userId: a concurrent second
// create surfaces as a duplicate-key error, never as two carts.
func CreateCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/create"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		cart := models.Cart{
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		res, err := db.Collection("carts").InsertOne(ctx, cart)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart already exists for this user"})
				return
			}
			log.Println("[CART] [ERROR] cart insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		cart.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[CART] [INFO] cart created for user:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message": "Cart created successfully",
			"cart_id": cart.ID.Hex(),
		})
	}
}

func GetCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := findCartByUser(ctx, db, userID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "No cart found for this user"})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		cursor, err := db.Collection("cart_items").Find(ctx, bson.M{"cartId": cart.ID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		items := make([]models.CartItem, 0)
		if err := cursor.All(ctx, &items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		response, err := attachProducts(ctx, db, items)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] returning %d cart items", route, len(response))
		c.JSON(http.StatusOK, response)
	}
}

func AddCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req CartItemCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product_id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := findCartByUser(ctx, db, userID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found for this user, please create a cart first"})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		item := models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  *req.Quantity,
		}

		res, err := db.Collection("cart_items").InsertOne(ctx, item)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		item.ID, _ = res.InsertedID.(primitive.ObjectID)

		log.Println("[CART] [INFO] item added to cart:", item.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message":   "Added to cart",
			"cart_item": item,
		})
	}
}

func UpdateCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /cart/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		itemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req CartItemUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Quantity == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		item, err := findOwnedCartItem(ctx, db, userID, itemID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		item.Quantity = *req.Quantity
		if _, err := db.Collection("cart_items").UpdateByID(ctx, item.ID, bson.M{
			"$set": bson.M{"quantity": item.Quantity},
		}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "Cart item updated",
			"cart_item": item,
		})
	}
}

func DeleteCartItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		itemID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		item, err := findOwnedCartItem(ctx, db, userID, itemID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if _, err := db.Collection("cart_items").DeleteOne(ctx, bson.M{"_id": item.ID}); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[CART] [INFO] item removed from cart:", item.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// ClearCart removes every item in the caller's cart. The cart is resolved
// first so the delete filter is always the cart id, never the user id.
func ClearCart(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cart, err := findCartByUser(ctx, db, userID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "No cart found for this user"})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		result, err := db.Collection("cart_items").DeleteMany(ctx, bson.M{"cartId": cart.ID})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] removed %d items", route, result.DeletedCount)
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}

func findCartByUser(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	return cart, err
}

// findOwnedCartItem resolves a cart item by id and verifies it belongs to the
// caller's cart. Someone else's item reads as not found.
func findOwnedCartItem(ctx context.Context, db *mongo.Database, userID, itemID primitive.ObjectID) (models.CartItem, error) {
	cart, err := findCartByUser(ctx, db, userID)
	if err != nil {
		return models.CartItem{}, err
	}

	var item models.CartItem
	err = db.Collection("cart_items").FindOne(ctx, bson.M{
		"_id":    itemID,
		"cartId": cart.ID,
	}).Decode(&item)
	return item, err
}

func attachProducts(ctx context.Context, db *mongo.Database, items []models.CartItem) ([]cartItemResponse, error) {
	response := make([]cartItemResponse, 0, len(items))
	if len(items) == 0 {
		return response, nil
	}

	productIDs := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	productByID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, product := range products {
		productByID[product.ID] = product
	}

	for _, item := range items {
		entry := cartItemResponse{
			ID:       item.ID,
			CartID:   item.CartID,
			Quantity: item.Quantity,
		}
		if product, exists := productByID[item.ProductID]; exists {
			p := product
			entry.Product = &p
		}
		response = append(response, entry)
	}

	return response, nil
}
