// Command seed wipes the database and loads a small demo data set: three
// categories, an admin and a customer, three products and the analytics
// singleton.
package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"beautyshop/internal/config"
	"beautyshop/internal/database"
	"beautyshop/internal/models"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	defer client.Disconnect(ctx)

	collections := []string{
		"users", "categories", "products", "carts", "cart_items",
		"orders", "invoices", "analytics", "product_purchases",
		"refresh_tokens", "revoked_tokens",
	}
	for _, name := range collections {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("clearing %s: %v", name, err)
		}
	}

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Fatal(err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Fatal(err)
	}

	skincare := insertCategory(ctx, db, "Skincare", "Skin health and beauty products")
	haircare := insertCategory(ctx, db, "Haircare", "Products for hair care and styling")
	makeup := insertCategory(ctx, db, "Makeup", "Cosmetics and beauty products")

	admin := insertUser(ctx, db, "John", "Doe", "admin@example.com", "adminpassword", models.RoleAdmin)
	insertUser(ctx, db, "Jane", "Smith", "customer@example.com", "customerpassword", models.RoleCustomer)

	insertProduct(ctx, db, "Moisturizer", "Hydrating skin moisturizer", "19.99", 50, skincare, admin,
		"https://example.com/images/moisturizer.jpg")
	insertProduct(ctx, db, "Shampoo", "Hair shampoo for smooth hair", "9.99", 30, haircare, admin,
		"https://example.com/images/shampoo.jpg")
	insertProduct(ctx, db, "Lipstick", "Long-lasting lipstick", "14.99", 100, makeup, admin,
		"https://example.com/images/lipstick.jpg")

	if _, err := db.Collection("analytics").InsertOne(ctx, models.Analytics{
		ID:      models.AnalyticsID,
		Revenue: models.ZeroPrice(),
	}); err != nil {
		log.Fatalf("seeding analytics: %v", err)
	}

	log.Println("seed complete")
}

func insertCategory(ctx context.Context, db *mongo.Database, name, description string) primitive.ObjectID {
	res, err := db.Collection("categories").InsertOne(ctx, models.Category{
		Name:        name,
		Description: description,
	})
	if err != nil {
		log.Fatalf("seeding category %s: %v", name, err)
	}
	return res.InsertedID.(primitive.ObjectID)
}

func insertUser(ctx context.Context, db *mongo.Database, firstName, lastName, email, password string, role models.Role) primitive.ObjectID {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hashing password for %s: %v", email, err)
	}

	now := time.Now()
	res, err := db.Collection("users").InsertOne(ctx, models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		log.Fatalf("seeding user %s: %v", email, err)
	}

	userID := res.InsertedID.(primitive.ObjectID)
	if _, err := db.Collection("carts").InsertOne(ctx, models.Cart{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		log.Fatalf("seeding cart for %s: %v", email, err)
	}
	return userID
}

func insertProduct(ctx context.Context, db *mongo.Database, name, description, price string, stock int, categoryID, ownerID primitive.ObjectID, imageURL string) {
	now := time.Now()
	if _, err := db.Collection("products").InsertOne(ctx, models.Product{
		Name:        name,
		Description: description,
		Price:       models.MustPrice(price),
		Stock:       stock,
		CategoryID:  categoryID,
		ImageURL:    imageURL,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		log.Fatalf("seeding product %s: %v", name, err)
	}
}
