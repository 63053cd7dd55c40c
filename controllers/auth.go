package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/storage"
	"go-storefront/utils"
)

// AuthController handles registration, login, profile and the order
// endpoints that live under /api/v1/auth.
type AuthController struct {
	Users  storage.UserStore
	Orders storage.OrderStore
	// Email is optional; when nil no notifications are sent.
	Email *utils.EmailService
}

func NewAuthController(users storage.UserStore, orders storage.OrderStore, email *utils.EmailService) *AuthController {
	return &AuthController{Users: users, Orders: orders, Email: email}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Answer   string `json:"answer"`
}

// Register creates an account. Validation answers keep the historical
// per-field messages, including the odd "error" key for the name.
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, H{"message": "Invalid request body"})
		return
	}

	switch {
	case req.Name == "":
		writeJSON(w, http.StatusOK, H{"error": "Name is Required"})
		return
	case req.Email == "":
		writeJSON(w, http.StatusOK, H{"message": "Email is Required"})
		return
	case !utils.ValidEmail(req.Email):
		writeJSON(w, http.StatusOK, H{"message": "Invalid email format"})
		return
	case req.Password == "":
		writeJSON(w, http.StatusOK, H{"message": "Password is Required"})
		return
	case req.Phone == "":
		writeJSON(w, http.StatusOK, H{"message": "Phone no is Required"})
		return
	case req.Address == "":
		writeJSON(w, http.StatusOK, H{"message": "Address is Required"})
		return
	case req.Answer == "":
		writeJSON(w, http.StatusOK, H{"message": "Answer is Required"})
		return
	}

	existing, err := ac.Users.ByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		ac.serverError(w, err, "Error in Registeration")
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, H{
			"success": false,
			"message": "Already Register, please login",
		})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		ac.serverError(w, err, "Error in Registeration")
		return
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Phone:    req.Phone,
		Address:  req.Address,
		Answer:   req.Answer,
		Role:     models.RoleShopper,
	}
	if err := ac.Users.Create(r.Context(), &user); err != nil {
		ac.serverError(w, err, "Error in Registeration")
		return
	}

	writeJSON(w, http.StatusCreated, H{
		"success": true,
		"message": "User Register Successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks credentials and issues a seven-day token.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	user, err := ac.Users.ByEmail(r.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Email is not registerd",
		})
		return
	}
	if err != nil {
		ac.serverError(w, err, "Error in login")
		return
	}

	if !utils.ComparePassword(req.Password, user.Password) {
		writeJSON(w, http.StatusOK, H{
			"success": false,
			"message": "Invalid Password",
		})
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		ac.serverError(w, err, "Error in login")
		return
	}

	writeJSON(w, http.StatusOK, H{
		"success": true,
		"message": "login successfully",
		"user": H{
			"_id":     user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"phone":   user.Phone,
			"address": user.Address,
			"role":    user.Role,
		},
		"token": token,
	})
}

type forgotPasswordRequest struct {
	Email       string `json:"email"`
	Answer      string `json:"answer"`
	NewPassword string `json:"newPassword"`
}

// ForgotPassword resets the password for a matching email + security answer.
func (ac *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, H{"message": "Invalid request body"})
		return
	}

	switch {
	case req.Email == "":
		writeJSON(w, http.StatusBadRequest, H{"message": "Email is required"})
		return
	case !utils.ValidEmail(req.Email):
		writeJSON(w, http.StatusBadRequest, H{"message": "Invalid email format"})
		return
	case req.Answer == "":
		writeJSON(w, http.StatusBadRequest, H{"message": "answer is required"})
		return
	case req.NewPassword == "":
		writeJSON(w, http.StatusBadRequest, H{"message": "New Password is required"})
		return
	}

	user, err := ac.Users.ByEmailAndAnswer(r.Context(), req.Email, req.Answer)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Wrong Email Or Answer",
		})
		return
	}
	if err != nil {
		ac.serverError(w, err, "Something went wrong")
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		ac.serverError(w, err, "Something went wrong")
		return
	}
	if err := ac.Users.SetPassword(r.Context(), user.ID, hashed); err != nil {
		ac.serverError(w, err, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, H{
		"success": true,
		"message": "Password Reset Successfully",
	})
}

// Test is the admin-gated probe endpoint.
func (ac *AuthController) Test(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Protected Routes")
}

// UserAuth confirms the caller is signed in; the client's protected routes
// poll it before rendering.
func (ac *AuthController) UserAuth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, H{"ok": true})
}

// AdminAuth confirms the caller is an admin.
func (ac *AuthController) AdminAuth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, H{"ok": true})
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateProfile merges non-empty fields into the signed-in user's profile.
func (ac *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, H{"success": false, "message": "Unauthorized"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, H{"message": "Invalid request body"})
		return
	}

	if _, err := ac.Users.ByID(r.Context(), user.ID); errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "User not found in database",
		})
		return
	}

	if req.Password != "" && len(req.Password) < 6 {
		writeJSON(w, http.StatusOK, H{"error": "Password is required and 6 character long"})
		return
	}

	upd := storage.UserUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if req.Password != "" {
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			ac.serverError(w, err, "Error While Update profile")
			return
		}
		upd.Password = hashed
	}

	updated, err := ac.Users.Update(r.Context(), user.ID, upd)
	if err != nil {
		log.Println(err)
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Error While Update profile",
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, H{
		"success":     true,
		"message":     "Profile Updated Successfully",
		"updatedUser": updated,
	})
}

// GetOrders returns the signed-in user's orders as a bare array.
func (ac *AuthController) GetOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, H{"success": false, "message": "Unauthorized"})
		return
	}

	orders, err := ac.Orders.ByBuyer(r.Context(), user.ID)
	if err != nil {
		ac.serverError(w, err, "Error While Geting Orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetAllOrders returns every order, newest first. Admin only.
func (ac *AuthController) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := ac.Orders.All(r.Context())
	if err != nil {
		ac.serverError(w, err, "Error While Getting Orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// OrderStatus sets an order's status. The literal must be one of the five
// accepted values; transitions are otherwise unrestricted.
func (ac *AuthController) OrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Order ID is required",
		})
		return
	}

	var req orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Status is required",
		})
		return
	}

	if !req.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Invalid status: " + string(req.Status),
		})
		return
	}

	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Order not found",
		})
		return
	}

	order, err := ac.Orders.SetStatus(r.Context(), id, req.Status)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Order not found",
		})
		return
	}
	if err != nil {
		ac.serverError(w, err, "Error While Updating Order")
		return
	}

	if ac.Email != nil {
		go ac.notifyStatusChange(order)
	}

	writeJSON(w, http.StatusOK, order)
}

// notifyStatusChange emails the buyer about the new status. Failures are
// logged, never surfaced.
func (ac *AuthController) notifyStatusChange(order *models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buyer, err := ac.Users.ByID(ctx, order.Buyer)
	if err != nil {
		log.Printf("order status email: buyer lookup failed: %v", err)
		return
	}
	if err := ac.Email.SendOrderStatusEmail(buyer.Email, buyer.Name, order.ID.Hex(), order.Status); err != nil {
		log.Printf("Failed to send email to %s: %v", buyer.Email, err)
	}
}

func (ac *AuthController) serverError(w http.ResponseWriter, err error, message string) {
	log.Println(err)
	writeJSON(w, http.StatusInternalServerError, H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
