// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/middleware"
	"go-storefront/payment"
	"go-storefront/routes"
	"go-storefront/storage"
	"go-storefront/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.JWTSecret)

	// Connect to MongoDB
	client := utils.ConnectDB(cfg.MongoURL)
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	stores := storage.NewMongo(client, cfg.DBName)

	// Email is optional: without a token, notifications are skipped.
	var emailService *utils.EmailService
	if cfg.PostmarkToken != "" {
		emailService = utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)
	}

	gateway, err := payment.NewBraintree(cfg.BraintreeEnv, cfg.BraintreeMerchantID, cfg.BraintreePublicKey, cfg.BraintreePrivateKey)
	if err != nil {
		log.Fatal(err)
	}

	// Initialize middleware and controllers
	auth := middleware.NewAuth(stores.Users())
	authController := controllers.NewAuthController(stores.Users(), stores.Orders(), emailService)
	categoryController := controllers.NewCategoryController(stores.Categories())
	productController := controllers.NewProductController(stores.Products(), stores.Categories(), stores.Orders(), gateway)

	// Set up the router and register routes
	router := mux.NewRouter()
	routes.RegisterRoutes(router, auth, authController, categoryController, productController)

	// Start the server
	fmt.Printf("Server is running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
