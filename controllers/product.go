package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/payment"
	"go-storefront/storage"
)

const (
	maxPhotoSize    = 1 << 20 // 1mb, the historical photo limit
	defaultPageSize = 6
	latestLimit     = 12
	relatedLimit    = 3
)

// ProductController handles the catalog surface plus checkout, which lives
// under /api/v1/product for historical reasons.
type ProductController struct {
	Products   storage.ProductStore
	Categories storage.CategoryStore
	Orders     storage.OrderStore
	Gateway    payment.Gateway
}

func NewProductController(products storage.ProductStore, categories storage.CategoryStore, orders storage.OrderStore, gateway payment.Gateway) *ProductController {
	return &ProductController{
		Products:   products,
		Categories: categories,
		Orders:     orders,
		Gateway:    gateway,
	}
}

// parseProductForm reads the multipart form shared by create and update.
// It answers the request itself and returns false when validation fails.
func (pc *ProductController) parseProductForm(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, H{"error": "Invalid form data"})
		return nil, false
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	priceStr := r.FormValue("price")
	categoryStr := r.FormValue("category")
	quantityStr := r.FormValue("quantity")

	// The original answered field validation with a 500; kept for wire
	// compatibility.
	switch {
	case name == "":
		writeJSON(w, http.StatusInternalServerError, H{"error": "Name is Required"})
		return nil, false
	case description == "":
		writeJSON(w, http.StatusInternalServerError, H{"error": "Description is Required"})
		return nil, false
	case priceStr == "":
		writeJSON(w, http.StatusInternalServerError, H{"error": "Price is Required"})
		return nil, false
	case categoryStr == "":
		writeJSON(w, http.StatusInternalServerError, H{"error": "Category is Required"})
		return nil, false
	case quantityStr == "":
		writeJSON(w, http.StatusInternalServerError, H{"error": "Quantity is Required"})
		return nil, false
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, H{"error": "Price must be a number"})
		return nil, false
	}
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, H{"error": "Quantity must be a number"})
		return nil, false
	}
	categoryID, err := primitive.ObjectIDFromHex(categoryStr)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, H{"error": "Invalid category ID"})
		return nil, false
	}
	shipping, _ := strconv.ParseBool(r.FormValue("shipping"))

	product := &models.Product{
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		Price:       price,
		Category:    categoryID,
		Quantity:    quantity,
		Shipping:    shipping,
	}

	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		if header.Size > maxPhotoSize {
			writeJSON(w, http.StatusInternalServerError, H{
				"error": "photo is Required and should be less then 1mb",
			})
			return nil, false
		}
		data, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, H{"error": "Error reading photo"})
			return nil, false
		}
		product.Photo = models.Photo{
			Data:        data,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	return product, true
}

// Create adds a product from a multipart form. Admin only.
func (pc *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	product, ok := pc.parseProductForm(w, r)
	if !ok {
		return
	}

	if err := pc.Products.Create(r.Context(), product); err != nil {
		pc.serverError(w, err, "Error in creating product")
		return
	}

	writeJSON(w, http.StatusCreated, H{
		"success":  true,
		"message":  "Product Created Successfully",
		"products": product,
	})
}

// Update replaces a product's fields; an omitted photo keeps the stored one.
// Admin only.
func (pc *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["pid"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, H{"error": "Invalid product ID"})
		return
	}

	product, ok := pc.parseProductForm(w, r)
	if !ok {
		return
	}
	product.ID = id

	err = pc.Products.Update(r.Context(), product)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Product not found",
		})
		return
	}
	if err != nil {
		pc.serverError(w, err, "Error in updating product")
		return
	}

	writeJSON(w, http.StatusCreated, H{
		"success":  true,
		"message":  "Product Updated Successfully",
		"products": product,
	})
}

// Delete removes a product by id. Admin only.
func (pc *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["pid"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Invalid product ID",
		})
		return
	}

	err = pc.Products.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Product not found",
		})
		return
	}
	if err != nil {
		pc.serverError(w, err, "Error while deleting product")
		return
	}

	writeJSON(w, http.StatusOK, H{
		"success": true,
		"message": "Product Deleted successfully",
	})
}

// List returns the newest products, category populated, photo excluded.
func (pc *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := pc.Products.Latest(r.Context(), latestLimit)
	if err != nil {
		pc.serverError(w, err, "Error in getting products")
		return
	}
	writeJSON(w, http.StatusOK, H{"products": products})
}

// GetBySlug returns one product by its slug.
func (pc *ProductController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := pc.Products.BySlug(r.Context(), mux.Vars(r)["slug"])
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Product not found",
		})
		return
	}
	if err != nil {
		pc.serverError(w, err, "Error while getting single product")
		return
	}
	writeJSON(w, http.StatusOK, H{
		"success": true,
		"message": "Single Product Fetched",
		"product": product,
	})
}

/// Photo serves the raw photo bytes: 400 on a malformed id, 404 when the
// product doesn't exist, 204 when it has no photo stored.
func (pc *ProductController) Photo(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["pid"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	photo, err := pc.Products.Photo(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		pc.serverError(w, err, "Error while getting photo")
		return
	}
	if len(photo.Data) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Data)
}

// Count returns the product total for pagination UIs.
func (pc *ProductController) Count(w http.ResponseWriter, r *http.Request) {
	total, err := pc.Products.Count(r.Context())
	if err != nil {
		pc.serverError(w, err, "Error in product count")
		return
	}
	writeJSON(w, http.StatusOK, H{"total": total})
}

// ListPage returns one page of six products, newest first.
func (pc *ProductController) ListPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil || page < 1 {
		page = 1
	}
	products, err := pc.Products.Page(r.Context(), page, defaultPageSize)
	if err != nil {
		pc.serverError(w, err, "error in per page ctrl")
		return
	}
	writeJSON(w, http.StatusOK, H{"products": products})
}

type filtersRequest struct {
	Checked []string  `json:"checked"`
	Radio   []float64 `json:"radio"`
}

// Filters narrows the catalog by checked categories and a price range.
func (pc *ProductController) Filters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Error While Filtering Products",
		})
		return
	}

	filter := storage.ProductFilter{}
	for _, hex := range req.Checked {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, H{
				"success": false,
				"message": "Error While Filtering Products",
			})
			return
		}
		filter.Categories = append(filter.Categories, id)
	}
	if len(req.Radio) == 2 {
		filter.PriceMin = req.Radio[0]
		filter.PriceMax = req.Radio[1]
		filter.HasPrice = true
	}

	products, err := pc.Products.Filtered(r.Context(), filter)
	if err != nil {
		log.Println(err)
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Error While Filtering Products",
		})
		return
	}
	writeJSON(w, http.StatusOK, H{
		"success":  true,
		"products": products,
	})
}

// Search matches the keyword against names and descriptions,
// case-insensitively, and returns a bare array.
func (pc *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	results, err := pc.Products.Search(r.Context(), mux.Vars(r)["keyword"])
	if err != nil {
		log.Println(err)
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Error In Search Product API",
		})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Related returns up to three other products from the same category.
func (pc *ProductController) Related(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pid, err := primitive.ObjectIDFromHex(vars["pid"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Invalid product ID",
		})
		return
	}
	cid, err := primitive.ObjectIDFromHex(vars["cid"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Invalid category ID",
		})
		return
	}

	products, err := pc.Products.Related(r.Context(), pid, cid, relatedLimit)
	if err != nil {
		log.Println(err)
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "error while geting related product",
		})
		return
	}
	writeJSON(w, http.StatusOK, H{
		"success":  true,
		"products": products,
	})
}

// ByCategory returns a category and its products, looked up by slug.
func (pc *ProductController) ByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := pc.Categories.BySlug(r.Context(), mux.Vars(r)["slug"])
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Category not found",
		})
		return
	}
	if err != nil {
		pc.serverError(w, err, "Error While Getting products")
		return
	}

	products, err := pc.Products.ByCategory(r.Context(), category.ID)
	if err != nil {
		log.Println(err)
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Error While Getting products",
		})
		return
	}
	writeJSON(w, http.StatusOK, H{
		"success":  true,
		"category": category,
		"products": products,
	})
}

// BraintreeToken hands the client a gateway token for payment tokenization.
func (pc *ProductController) BraintreeToken(w http.ResponseWriter, r *http.Request) {
	token, err := pc.Gateway.ClientToken(r.Context())
	if err != nil {
		pc.serverError(w, err, "Error generating client token")
		return
	}
	writeJSON(w, http.StatusOK, H{"clientToken": token})
}

type paymentRequest struct {
	Nonce string `json:"nonce"`
	Cart  []struct {
		ID    primitive.ObjectID `json:"_id"`
		Price float64            `json:"price"`
	} `json:"cart"`
}

// BraintreePayment submits a sale for the cart total and materializes the
// cart into an order on success.
func (pc *ProductController) BraintreePayment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, H{"success": false, "message": "Unauthorized"})
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Nonce == "" {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Payment nonce is required",
		})
		return
	}
	if len(req.Cart) == 0 {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Cart is empty",
		})
		return
	}

	total := 0.0
	productIDs := make([]primitive.ObjectID, 0, len(req.Cart))
	for _, item := range req.Cart {
		total += item.Price
		productIDs = append(productIDs, item.ID)
	}

	result, err := pc.Gateway.Sale(r.Context(), req.Nonce, total)
	if err != nil {
		pc.serverError(w, err, "Payment failed")
		return
	}

	order := models.Order{
		Products: productIDs,
		Payment:  result,
		Buyer:    user.ID,
	}
	if err := pc.Orders.Create(r.Context(), &order); err != nil {
		pc.serverError(w, err, "Error while creating order")
		return
	}

	writeJSON(w, http.StatusOK, H{"ok": true})
}

func (pc *ProductController) serverError(w http.ResponseWriter, err error, message string) {
	log.Println(err)
	writeJSON(w, http.StatusInternalServerError, H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
