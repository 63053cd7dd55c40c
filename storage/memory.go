package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

// Memory is a RWMutex-guarded map implementation of the stores. Tests run
// against it; it also backs local development without a MongoDB.
type Memory struct {
	mu sync.RWMutex

	users      map[primitive.ObjectID]models.User
	categories map[primitive.ObjectID]models.Category
	products   map[primitive.ObjectID]models.Product
	orders     map[primitive.ObjectID]models.Order
}

// NewMemory returns an empty in-memory store set.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[primitive.ObjectID]models.User),
		categories: make(map[primitive.ObjectID]models.Category),
		products:   make(map[primitive.ObjectID]models.Product),
		orders:     make(map[primitive.ObjectID]models.Order),
	}
}

func (m *Memory) Users() UserStore          { return &memUsers{m} }
func (m *Memory) Categories() CategoryStore { return &memCategories{m} }
func (m *Memory) Products() ProductStore    { return &memProducts{m} }
func (m *Memory) Orders() OrderStore        { return &memOrders{m} }

// ── users ──────────────────────────────────────────────────────────

type memUsers struct{ m *Memory }

func (s *memUsers) Create(_ context.Context, u *models.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	now := time.Now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.m.users[u.ID] = *u
	return nil
}

func (s *memUsers) ByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *memUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, u := range s.m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUsers) ByEmailAndAnswer(_ context.Context, email, answer string) (*models.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, u := range s.m.users {
		if u.Email == email && u.Answer == answer {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUsers) SetPassword(_ context.Context, id primitive.ObjectID, hashed string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	u, ok := s.m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Password = hashed
	u.UpdatedAt = time.Now()
	s.m.users[id] = u
	return nil
}

func (s *memUsers) Update(_ context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	u, ok := s.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Password != "" {
		u.Password = upd.Password
	}
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	if upd.Address != "" {
		u.Address = upd.Address
	}
	u.UpdatedAt = time.Now()
	s.m.users[id] = u
	return &u, nil
}

// ── categories ─────────────────────────────────────────────────────

type memCategories struct{ m *Memory }

func (s *memCategories) Create(_ context.Context, c *models.Category) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	c.ID = primitive.NewObjectID()
	s.m.categories[c.ID] = *c
	return nil
}

func (s *memCategories) ByName(_ context.Context, name string) (*models.Category, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, c := range s.m.categories {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memCategories) ByNameExcept(_ context.Context, name string, id primitive.ObjectID) (*models.Category, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, c := range s.m.categories {
		if c.Name == name && c.ID != id {
			c := c
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memCategories) BySlug(_ context.Context, slug string) (*models.Category, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, c := range s.m.categories {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memCategories) All(_ context.Context) ([]models.Category, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := make([]models.Category, 0, len(s.m.categories))
	for _, c := range s.m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memCategories) Update(_ context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	c, ok := s.m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Name = name
	c.Slug = slug
	s.m.categories[id] = c
	return &c, nil
}

func (s *memCategories) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.categories, id)
	return nil
}

// ── products ───────────────────────────────────────────────────────

type memProducts struct{ m *Memory }

func (s *memProducts) Create(_ context.Context, p *models.Product) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	now := time.Now()
	p.ID = primitive.NewObjectID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.m.products[p.ID] = *p
	return nil
}

func (s *memProducts) Update(_ context.Context, p *models.Product) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	stored, ok := s.m.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	if len(p.Photo.Data) == 0 {
		p.Photo = stored.Photo
	}
	p.CreatedAt = stored.CreatedAt
	p.UpdatedAt = time.Now()
	s.m.products[p.ID] = *p
	return nil
}

func (s *memProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.products, id)
	return nil
}

func (s *memProducts) ByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	p, ok := s.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *memProducts) BySlug(_ context.Context, slug string) (*models.CatalogProduct, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, p := range s.m.products {
		if p.Slug == slug {
			cp := s.catalog(p)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memProducts) Latest(_ context.Context, limit int) ([]models.CatalogProduct, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := s.newestFirst(func(models.Product) bool { return true })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memProducts) Page(_ context.Context, page, perPage int) ([]models.CatalogProduct, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	out := s.newestFirst(func(models.Product) bool { return true })
	start := (page - 1) * perPage
	if start >= len(out) {
		return []models.CatalogProduct{}, nil
	}
	end := start + perPage
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *memProducts) Filtered(_ context.Context, f ProductFilter) ([]models.CatalogProduct, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	inCategories := func(id primitive.ObjectID) bool {
		if len(f.Categories) == 0 {
			return true
		}
		for _, c := range f.Categories {
			if c == id {
				return true
			}
		}
		return false
	}
	return s.newestFirst(func(p models.Product) bool {
		if !inCategories(p.Category) {
			return false
		}
		if f.HasPrice && (p.Price < f.PriceMin || p.Price > f.PriceMax) {
			return false
		}
		return true
	}), nil
}

func (s *memProducts) Search(_ context.Context, keyword string) ([]models.CatalogProduct, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	kw := strings.ToLower(keyword)
	return s.newestFirst(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), kw) ||
			strings.Contains(strings.ToLower(p.Description), kw)
	}), nil
}

func (s *memProducts) Related(_ context.Context, productID, categoryID primitive.ObjectID, limit int) ([]models.CatalogProduct, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := s.newestFirst(func(p models.Product) bool {
		return p.Category == categoryID && p.ID != productID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memProducts) ByCategory(_ context.Context, categoryID primitive.ObjectID) ([]models.CatalogProduct, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	return s.newestFirst(func(p models.Product) bool { return p.Category == categoryID }), nil
}

func (s *memProducts) Photo(_ context.Context, id primitive.ObjectID) (*models.Photo, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	p, ok := s.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	photo := p.Photo
	return &photo, nil
}

func (s *memProducts) Count(_ context.Context) (int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	return int64(len(s.m.products)), nil
}

// newestFirst collects matching products sorted by creation time descending.
// Callers must hold at least the read lock.
func (s *memProducts) newestFirst(match func(models.Product) bool) []models.CatalogProduct {
	out := []models.CatalogProduct{}
	for _, p := range s.m.products {
		if match(p) {
			out = append(out, s.catalog(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memProducts) catalog(p models.Product) models.CatalogProduct {
	return catalogProduct(p, s.m.categories[p.Category])
}

// ── orders ─────────────────────────────────────────────────────────

type memOrders struct{ m *Memory }

func (s *memOrders) Create(_ context.Context, o *models.Order) error {
	if len(o.Products) == 0 {
		return ErrEmptyOrder
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	now := time.Now()
	o.ID = primitive.NewObjectID()
	if o.Status == "" {
		o.Status = models.StatusNotProcess
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	s.m.orders[o.ID] = *o
	return nil
}

func (s *memOrders) ByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	o, ok := s.m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *memOrders) ByBuyer(_ context.Context, buyer primitive.ObjectID) ([]models.PopulatedOrder, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := []models.PopulatedOrder{}
	for _, o := range s.m.orders {
		if o.Buyer == buyer {
			out = append(out, s.populate(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memOrders) All(_ context.Context) ([]models.PopulatedOrder, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	out := []models.PopulatedOrder{}
	for _, o := range s.m.orders {
		out = append(out, s.populate(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memOrders) SetStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	o, ok := s.m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	s.m.orders[id] = o
	return &o, nil
}

// populate resolves product snapshots and the buyer name. Callers must hold
// at least the read lock.
func (s *memOrders) populate(o models.Order) models.PopulatedOrder {
	products := make([]models.CatalogProduct, 0, len(o.Products))
	for _, pid := range o.Products {
		if p, ok := s.m.products[pid]; ok {
			products = append(products, catalogProduct(p, s.m.categories[p.Category]))
		}
	}
	buyer := models.BuyerRef{ID: o.Buyer}
	if u, ok := s.m.users[o.Buyer]; ok {
		buyer.Name = u.Name
	}
	return models.PopulatedOrder{
		ID:        o.ID,
		Products:  products,
		Payment:   o.Payment,
		Buyer:     buyer,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
