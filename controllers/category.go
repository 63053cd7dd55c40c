package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/storage"
)

// CategoryController handles category CRUD. Writes are admin-gated at the
// route layer; reads are public.
type CategoryController struct {
	Categories storage.CategoryStore
}

func NewCategoryController(categories storage.CategoryStore) *CategoryController {
	return &CategoryController{Categories: categories}
}

type categoryRequest struct {
	Name string `json:"name"`
}

// Create adds a category. A duplicate name answers 200 with a notice
// instead of an error and inserts nothing.
func (cc *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, H{"message": "Request body is required"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusUnauthorized, H{
			"success": false,
			"message": "Name is required",
		})
		return
	}

	existing, err := cc.Categories.ByName(r.Context(), req.Name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		cc.serverError(w, err, "Error in Category")
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, H{
			"success": true,
			"message": "Category Already Exists",
		})
		return
	}

	category := models.Category{
		Name: req.Name,
		Slug: slug.Make(req.Name),
	}
	if err := cc.Categories.Create(r.Context(), &category); err != nil {
		cc.serverError(w, err, "Error in Category")
		return
	}

	writeJSON(w, http.StatusCreated, H{
		"success":  true,
		"message":  "New category created",
		"category": category,
	})
}

// Update renames a category, rejecting names another category already owns.
func (cc *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, H{
			"success": false,
			"message": "Request body is required",
		})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusUnauthorized, H{
			"success": false,
			"message": "Name is required",
		})
		return
	}

	idHex := mux.Vars(r)["id"]
	if idHex == "" {
		writeJSON(w, http.StatusUnauthorized, H{
			"success": false,
			"message": "Category ID is required",
		})
		return
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Category not found",
		})
		return
	}

	existing, err := cc.Categories.ByNameExcept(r.Context(), req.Name, id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		cc.serverError(w, err, "Error while updating category")
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, H{
			"success": false,
			"message": "Category with this name already exists",
		})
		return
	}

	category, err := cc.Categories.Update(r.Context(), id, req.Name, slug.Make(req.Name))
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Category not found",
		})
		return
	}
	if err != nil {
		cc.serverError(w, err, "Error while updating category")
		return
	}

	writeJSON(w, http.StatusOK, H{
		"success":  true,
		"message":  "Category Updated Successfully",
		"category": category,
	})
}

// List returns every category.
func (cc *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := cc.Categories.All(r.Context())
	if err != nil {
		cc.serverError(w, err, "Error while getting all categories")
		return
	}
	writeJSON(w, http.StatusOK, H{
		"success":  true,
		"message":  "All Categories List",
		"category": categories,
	})
}

// GetBySlug returns one category by its slug.
func (cc *CategoryController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := cc.Categories.BySlug(r.Context(), mux.Vars(r)["slug"])
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Category not found",
		})
		return
	}
	if err != nil {
		cc.serverError(w, err, "Error while getting Single Category")
		return
	}
	writeJSON(w, http.StatusOK, H{
		"success":  true,
		"message":  "Get Single Category Successfully",
		"category": category,
	})
}

// Delete removes a category by id.
func (cc *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	idHex := mux.Vars(r)["id"]
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Category not found or already deleted",
		})
		return
	}

	err = cc.Categories.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, H{
			"success": false,
			"message": "Category not found or already deleted",
		})
		return
	}
	if err != nil {
		cc.serverError(w, err, "Error while deleting category")
		return
	}

	writeJSON(w, http.StatusOK, H{
		"success": true,
		"message": "Category Deleted Successfully",
	})
}

func (cc *CategoryController) serverError(w http.ResponseWriter, err error, message string) {
	log.Println(err)
	writeJSON(w, http.StatusInternalServerError, H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
