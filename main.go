package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"beautyshop/internal/config"
	"beautyshop/internal/database"
	"beautyshop/internal/handlers"
	"beautyshop/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureInvoiceIndexes(db); err != nil {
		log.Printf("invoice index warning: %v", err)
	}
	if err := database.EnsureRevokedTokenIndexes(db); err != nil {
		log.Printf("revoked token index warning: %v", err)
	}

	revocations := database.NewRevocationStore(db)
	secret := config.AppEnv.JWTSecret

	r := gin.Default()

	r.POST("/register", handlers.Register(db))
	r.POST("/login", handlers.Login(db, secret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/refresh", handlers.Refresh(db, secret, config.AppEnv.AccessTokenTTL, config.AppEnv.RefreshTokenTTL))
	r.POST("/logout", middleware.AuthGuard(secret, revocations), handlers.Logout(db, revocations))

	authed := r.Group("")
	authed.Use(middleware.AuthGuard(secret, revocations))
	{
		authed.GET("/products", handlers.GetProducts(db))
		authed.GET("/products/:id", handlers.GetProduct(db))

		authed.GET("/categories", handlers.GetCategories(db))
		authed.GET("/categories/:id", handlers.GetCategory(db))

		authed.POST("/cart/create", handlers.CreateCart(db))
		authed.GET("/cart", handlers.GetCart(db))
		authed.POST("/cart", handlers.AddCartItem(db))
		authed.PATCH("/cart/:id", handlers.UpdateCartItem(db))
		authed.DELETE("/cart/:id", handlers.DeleteCartItem(db))
		authed.DELETE("/cart", handlers.ClearCart(db))

		authed.POST("/orders", handlers.CreateOrder(db))
		authed.GET("/orders", handlers.GetOrders(db))
		authed.GET("/orders/:id", handlers.GetOrder(db))

		authed.GET("/invoices/:order_id", handlers.GetInvoice(db))
	}

	admin := r.Group("")
	admin.Use(middleware.AdminAuth(secret, revocations))
	{
		admin.POST("/products", handlers.CreateProduct(db))
		admin.PATCH("/products/:id", handlers.UpdateProduct(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PATCH("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.PATCH("/orders/:id", handlers.UpdateOrderStatus(db))

		admin.GET("/analytics", handlers.GetAnalytics(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
