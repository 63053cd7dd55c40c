package routes

import (
	"github.com/gorilla/mux"

	"go-storefront/controllers"
	"go-storefront/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, auth *middleware.Auth, authController *controllers.AuthController, categoryController *controllers.CategoryController, productController *controllers.ProductController) {
	// Auth routes
	public := router.PathPrefix("/api/v1/auth").Subrouter()
	public.HandleFunc("/register", authController.Register).Methods("POST")
	public.HandleFunc("/login", authController.Login).Methods("POST")
	public.HandleFunc("/forgot-password", authController.ForgotPassword).Methods("POST")

	signedIn := router.PathPrefix("/api/v1/auth").Subrouter()
	signedIn.Use(auth.RequireSignIn)
	signedIn.HandleFunc("/user-auth", authController.UserAuth).Methods("GET")
	signedIn.HandleFunc("/profile", authController.UpdateProfile).Methods("PUT")
	signedIn.HandleFunc("/orders", authController.GetOrders).Methods("GET")

	admin := router.PathPrefix("/api/v1/auth").Subrouter()
	admin.Use(auth.RequireSignIn, auth.RequireAdmin)
	admin.HandleFunc("/test", authController.Test).Methods("GET")
	admin.HandleFunc("/admin-auth", authController.AdminAuth).Methods("GET")
	admin.HandleFunc("/all-orders", authController.GetAllOrders).Methods("GET")
	admin.HandleFunc("/order-status/{orderId}", authController.OrderStatus).Methods("PUT")

	// Category routes: reads are public, writes are admin only
	category := router.PathPrefix("/api/v1/category").Subrouter()
	category.HandleFunc("/get-category", categoryController.List).Methods("GET")
	category.HandleFunc("/single-category/{slug}", categoryController.GetBySlug).Methods("GET")

	categoryAdmin := router.PathPrefix("/api/v1/category").Subrouter()
	categoryAdmin.Use(auth.RequireSignIn, auth.RequireAdmin)
	categoryAdmin.HandleFunc("/create-category", categoryController.Create).Methods("POST")
	categoryAdmin.HandleFunc("/update-category/{id}", categoryController.Update).Methods("PUT")
	categoryAdmin.HandleFunc("/delete-category/{id}", categoryController.Delete).Methods("DELETE")

	// Product routes
	product := router.PathPrefix("/api/v1/product").Subrouter()
	product.HandleFunc("/get-product", productController.List).Methods("GET")
	product.HandleFunc("/get-product/{slug}", productController.GetBySlug).Methods("GET")
	product.HandleFunc("/product-photo/{pid}", productController.Photo).Methods("GET")
	product.HandleFunc("/product-count", productController.Count).Methods("GET")
	product.HandleFunc("/product-list/{page}", productController.ListPage).Methods("GET")
	product.HandleFunc("/product-filters", productController.Filters).Methods("POST")
	product.HandleFunc("/search/{keyword}", productController.Search).Methods("GET")
	product.HandleFunc("/related-product/{pid}/{cid}", productController.Related).Methods("GET")
	product.HandleFunc("/product-category/{slug}", productController.ByCategory).Methods("GET")
	product.HandleFunc("/braintree/token", productController.BraintreeToken).Methods("GET")

	productSignedIn := router.PathPrefix("/api/v1/product").Subrouter()
	productSignedIn.Use(auth.RequireSignIn)
	productSignedIn.HandleFunc("/braintree/payment", productController.BraintreePayment).Methods("POST")

	productAdmin := router.PathPrefix("/api/v1/product").Subrouter()
	productAdmin.Use(auth.RequireSignIn, auth.RequireAdmin)
	productAdmin.HandleFunc("/create-product", productController.Create).Methods("POST")
	productAdmin.HandleFunc("/update-product/{pid}", productController.Update).Methods("PUT")
	productAdmin.HandleFunc("/delete-product/{pid}", productController.Delete).Methods("DELETE")
}
