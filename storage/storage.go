package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

var (
	// ErrNotFound means the id or slug did not resolve to a document.
	ErrNotFound = errors.New("not found")
	// ErrEmptyOrder rejects orders with no product references.
	ErrEmptyOrder = errors.New("order must reference at least one product")
)

// UserUpdate carries the profile fields an update may touch. Empty strings
// mean "keep the stored value"; Password must already be hashed.
type UserUpdate struct {
	Name     string
	Password string
	Phone    string
	Address  string
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error)
	SetPassword(ctx context.Context, id primitive.ObjectID, hashed string) error
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	ByName(ctx context.Context, name string) (*models.Category, error)
	// ByNameExcept finds a category with the name owned by a different id.
	ByNameExcept(ctx context.Context, name string, id primitive.ObjectID) (*models.Category, error)
	BySlug(ctx context.Context, slug string) (*models.Category, error)
	All(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductFilter narrows catalog queries. HasPrice gates the price range so
// a zero range is distinguishable from "no price filter".
type ProductFilter struct {
	Categories []primitive.ObjectID
	PriceMin   float64
	PriceMax   float64
	HasPrice   bool
}

// ProductStore persists products. Read methods return catalog shapes with
// the category resolved and the photo omitted.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	BySlug(ctx context.Context, slug string) (*models.CatalogProduct, error)
	Latest(ctx context.Context, limit int) ([]models.CatalogProduct, error)
	Page(ctx context.Context, page, perPage int) ([]models.CatalogProduct, error)
	Filtered(ctx context.Context, f ProductFilter) ([]models.CatalogProduct, error)
	Search(ctx context.Context, keyword string) ([]models.CatalogProduct, error)
	Related(ctx context.Context, productID, categoryID primitive.ObjectID, limit int) ([]models.CatalogProduct, error)
	ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.CatalogProduct, error)
	Photo(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
	Count(ctx context.Context) (int64, error)
}

// OrderStore persists orders. All returns newest first; SetStatus is the
// atomic update-and-return used by the back office.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	ByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ByBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.PopulatedOrder, error)
	All(ctx context.Context) ([]models.PopulatedOrder, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
}
