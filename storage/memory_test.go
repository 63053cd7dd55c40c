package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

func seedProduct(t *testing.T, m *Memory, name string, price float64, category primitive.ObjectID, createdAt time.Time) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Slug:        name,
		Description: name + " description",
		Price:       price,
		Category:    category,
		Quantity:    10,
		CreatedAt:   createdAt,
	}
	require.NoError(t, m.Products().Create(context.Background(), &p))
	return p
}

func TestOrderCreateRejectsEmptyProducts(t *testing.T) {
	m := NewMemory()
	err := m.Orders().Create(context.Background(), &models.Order{Buyer: primitive.NewObjectID()})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderCreateDefaultsStatus(t *testing.T) {
	m := NewMemory()
	o := models.Order{
		Products: []primitive.ObjectID{primitive.NewObjectID()},
		Buyer:    primitive.NewObjectID(),
	}
	require.NoError(t, m.Orders().Create(context.Background(), &o))
	assert.Equal(t, models.StatusNotProcess, o.Status)
	assert.False(t, o.ID.IsZero())
}

func TestSetStatusUnknownOrder(t *testing.T) {
	m := NewMemory()
	_, err := m.Orders().SetStatus(context.Background(), primitive.NewObjectID(), models.StatusShipped)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllOrdersNewestFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	pid := primitive.NewObjectID()
	buyer := primitive.NewObjectID()

	jan := models.Order{Products: []primitive.ObjectID{pid}, Buyer: buyer,
		CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}
	mar := models.Order{Products: []primitive.ObjectID{pid}, Buyer: buyer,
		CreatedAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)}
	feb := models.Order{Products: []primitive.ObjectID{pid}, Buyer: buyer,
		CreatedAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, m.Orders().Create(ctx, &jan))
	require.NoError(t, m.Orders().Create(ctx, &mar))
	require.NoError(t, m.Orders().Create(ctx, &feb))

	all, err := m.Orders().All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, mar.ID, all[0].ID)
	assert.Equal(t, feb.ID, all[1].ID)
	assert.Equal(t, jan.ID, all[2].ID)
}

func TestOrderPopulateResolvesProductsAndBuyer(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	cat := models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, m.Categories().Create(ctx, &cat))
	p := seedProduct(t, m, "novel", 12.5, cat.ID, time.Now())

	buyer := models.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, m.Users().Create(ctx, &buyer))

	o := models.Order{Products: []primitive.ObjectID{p.ID}, Buyer: buyer.ID}
	require.NoError(t, m.Orders().Create(ctx, &o))

	orders, err := m.Orders().ByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Products, 1)
	assert.Equal(t, "novel", orders[0].Products[0].Name)
	assert.Equal(t, "Books", orders[0].Products[0].Category.Name)
	assert.Equal(t, "Ada", orders[0].Buyer.Name)
}

func TestProductSearchMatchesNameAndDescription(t *testing.T) {
	m := NewMemory()
	cat := primitive.NewObjectID()
	seedProduct(t, m, "Red Phone", 100, cat, time.Now())
	seedProduct(t, m, "Laptop", 900, cat, time.Now())

	byName, err := m.Products().Search(context.Background(), "phone")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Red Phone", byName[0].Name)

	byDesc, err := m.Products().Search(context.Background(), "laptop description")
	require.NoError(t, err)
	require.Len(t, byDesc, 1)
	assert.Equal(t, "Laptop", byDesc[0].Name)
}

func TestProductFiltered(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	electronics := primitive.NewObjectID()
	books := primitive.NewObjectID()
	seedProduct(t, m, "Phone", 100, electronics, time.Now())
	seedProduct(t, m, "Laptop", 900, electronics, time.Now())
	seedProduct(t, m, "Novel", 15, books, time.Now())

	byCategory, err := m.Products().Filtered(ctx, ProductFilter{Categories: []primitive.ObjectID{electronics}})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byPrice, err := m.Products().Filtered(ctx, ProductFilter{PriceMin: 0, PriceMax: 99, HasPrice: true})
	require.NoError(t, err)
	require.Len(t, byPrice, 1)
	assert.Equal(t, "Novel", byPrice[0].Name)

	both, err := m.Products().Filtered(ctx, ProductFilter{
		Categories: []primitive.ObjectID{electronics},
		PriceMin:   500, PriceMax: 1000, HasPrice: true,
	})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Laptop", both[0].Name)
}

func TestProductPage(t *testing.T) {
	m := NewMemory()
	cat := primitive.NewObjectID()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		seedProduct(t, m, string(rune('a'+i)), float64(i), cat, base.Add(time.Duration(i)*time.Hour))
	}

	first, err := m.Products().Page(context.Background(), 1, 6)
	require.NoError(t, err)
	assert.Len(t, first, 6)
	// newest first
	assert.Equal(t, "h", first[0].Name)

	second, err := m.Products().Page(context.Background(), 2, 6)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	third, err := m.Products().Page(context.Background(), 3, 6)
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestProductRelatedExcludesSelf(t *testing.T) {
	m := NewMemory()
	cat := primitive.NewObjectID()
	self := seedProduct(t, m, "self", 1, cat, time.Now())
	seedProduct(t, m, "other", 2, cat, time.Now())
	seedProduct(t, m, "unrelated", 3, primitive.NewObjectID(), time.Now())

	related, err := m.Products().Related(context.Background(), self.ID, cat, 3)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "other", related[0].Name)
}

func TestCategoryByNameExcept(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	a := models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, m.Categories().Create(ctx, &a))

	// A category never conflicts with itself.
	_, err := m.Categories().ByNameExcept(ctx, "Books", a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := m.Categories().ByNameExcept(ctx, "Books", primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)
}

func TestUserUpdateKeepsUnsetFields(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	u := models.User{Name: "Ada", Email: "ada@example.com", Phone: "123", Address: "Old St"}
	require.NoError(t, m.Users().Create(ctx, &u))

	updated, err := m.Users().Update(ctx, u.ID, UserUpdate{Phone: "456"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "456", updated.Phone)
	assert.Equal(t, "Old St", updated.Address)
}
