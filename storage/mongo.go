package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

const queryTimeout = 5 * time.Second

// Mongo bundles the collection-backed stores for one database.
type Mongo struct {
	users      *mongo.Collection
	categories *mongo.Collection
	products   *mongo.Collection
	orders     *mongo.Collection
}

// NewMongo wires the stores onto a connected client.
func NewMongo(client *mongo.Client, db string) *Mongo {
	d := client.Database(db)
	return &Mongo{
		users:      d.Collection("users"),
		categories: d.Collection("categories"),
		products:   d.Collection("products"),
		orders:     d.Collection("orders"),
	}
}

func (m *Mongo) Users() UserStore         { return &mongoUsers{m} }
func (m *Mongo) Categories() CategoryStore { return &mongoCategories{m} }
func (m *Mongo) Products() ProductStore   { return &mongoProducts{m} }
func (m *Mongo) Orders() OrderStore       { return &mongoOrders{m} }

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// ── users ──────────────────────────────────────────────────────────

type mongoUsers struct{ m *Mongo }

func (s *mongoUsers) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.m.users.InsertOne(ctx, u)
	return err
}

func (s *mongoUsers) ByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *mongoUsers) ByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email, "answer": answer})
}

func (s *mongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err := s.m.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) SetPassword(ctx context.Context, id primitive.ObjectID, hashed string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.m.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"password": hashed, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoUsers) Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != "" {
		set["name"] = upd.Name
	}
	if upd.Password != "" {
		set["password"] = upd.Password
	}
	if upd.Phone != "" {
		set["phone"] = upd.Phone
	}
	if upd.Address != "" {
		set["address"] = upd.Address
	}

	after := options.After
	var user models.User
	err := s.m.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ── categories ─────────────────────────────────────────────────────

type mongoCategories struct{ m *Mongo }

func (s *mongoCategories) Create(ctx context.Context, c *models.Category) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	c.ID = primitive.NewObjectID()
	_, err := s.m.categories.InsertOne(ctx, c)
	return err
}

func (s *mongoCategories) ByName(ctx context.Context, name string) (*models.Category, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

func (s *mongoCategories) ByNameExcept(ctx context.Context, name string, id primitive.ObjectID) (*models.Category, error) {
	return s.findOne(ctx, bson.M{"name": name, "_id": bson.M{"$ne": id}})
}

func (s *mongoCategories) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *mongoCategories) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var category models.Category
	err := s.m.categories.FindOne(ctx, filter).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *mongoCategories) All(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.m.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *mongoCategories) Update(ctx context.Context, id primitive.ObjectID, name, slug string) (*models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	after := options.After
	var category models.Category
	err := s.m.categories.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "slug": slug}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *mongoCategories) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.m.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ── products ───────────────────────────────────────────────────────

type mongoProducts struct{ m *Mongo }

// noPhoto keeps photo bytes out of list payloads.
var noPhoto = bson.M{"photo": 0}

func (s *mongoProducts) Create(ctx context.Context, p *models.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.m.products.InsertOne(ctx, p)
	return err
}

func (s *mongoProducts) Update(ctx context.Context, p *models.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p.UpdatedAt = time.Now()
	set := bson.M{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"quantity":    p.Quantity,
		"shipping":    p.Shipping,
		"updatedAt":   p.UpdatedAt,
	}
	if len(p.Photo.Data) > 0 {
		set["photo"] = p.Photo
	}
	res, err := s.m.products.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.m.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoProducts) ByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var product models.Product
	err := s.m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *mongoProducts) BySlug(ctx context.Context, slug string) (*models.CatalogProduct, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var product models.Product
	err := s.m.products.FindOne(ctx, bson.M{"slug": slug},
		options.FindOne().SetProjection(noPhoto)).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	populated, err := s.populate(ctx, []models.Product{product})
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}

func (s *mongoProducts) Latest(ctx context.Context, limit int) ([]models.CatalogProduct, error) {
	opts := options.Find().
		SetProjection(noPhoto).
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit))
	return s.find(ctx, bson.M{}, opts)
}

func (s *mongoProducts) Page(ctx context.Context, page, perPage int) ([]models.CatalogProduct, error) {
	if page < 1 {
		page = 1
	}
	opts := options.Find().
		SetProjection(noPhoto).
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))
	return s.find(ctx, bson.M{}, opts)
}

func (s *mongoProducts) Filtered(ctx context.Context, f ProductFilter) ([]models.CatalogProduct, error) {
	filter := bson.M{}
	if len(f.Categories) > 0 {
		filter["category"] = bson.M{"$in": f.Categories}
	}
	if f.HasPrice {
		filter["price"] = bson.M{"$gte": f.PriceMin, "$lte": f.PriceMax}
	}
	return s.find(ctx, filter, options.Find().SetProjection(noPhoto))
}

func (s *mongoProducts) Search(ctx context.Context, keyword string) ([]models.CatalogProduct, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": keyword, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": keyword, "$options": "i"}},
	}}
	return s.find(ctx, filter, options.Find().SetProjection(noPhoto))
}

func (s *mongoProducts) Related(ctx context.Context, productID, categoryID primitive.ObjectID, limit int) ([]models.CatalogProduct, error) {
	filter := bson.M{
		"category": categoryID,
		"_id":      bson.M{"$ne": productID},
	}
	opts := options.Find().SetProjection(noPhoto).SetLimit(int64(limit))
	return s.find(ctx, filter, opts)
}

func (s *mongoProducts) ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.CatalogProduct, error) {
	return s.find(ctx, bson.M{"category": categoryID}, options.Find().SetProjection(noPhoto))
}

func (s *mongoProducts) Photo(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var product models.Product
	err := s.m.products.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(bson.M{"photo": 1})).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product.Photo, nil
}

func (s *mongoProducts) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return s.m.products.EstimatedDocumentCount(ctx)
}

func (s *mongoProducts) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.CatalogProduct, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := s.m.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return s.populate(ctx, products)
}

// populate resolves category references the way mongoose populate would,
// with one batched query instead of one per product.
func (s *mongoProducts) populate(ctx context.Context, products []models.Product) ([]models.CatalogProduct, error) {
	ids := make([]primitive.ObjectID, 0, len(products))
	seen := map[primitive.ObjectID]bool{}
	for _, p := range products {
		if !p.Category.IsZero() && !seen[p.Category] {
			ids = append(ids, p.Category)
			seen[p.Category] = true
		}
	}

	byID := map[primitive.ObjectID]models.Category{}
	if len(ids) > 0 {
		cursor, err := s.m.categories.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var categories []models.Category
		if err := cursor.All(ctx, &categories); err != nil {
			return nil, err
		}
		for _, c := range categories {
			byID[c.ID] = c
		}
	}

	out := make([]models.CatalogProduct, 0, len(products))
	for _, p := range products {
		out = append(out, catalogProduct(p, byID[p.Category]))
	}
	return out, nil
}

func catalogProduct(p models.Product, c models.Category) models.CatalogProduct {
	return models.CatalogProduct{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    c,
		Quantity:    p.Quantity,
		Shipping:    p.Shipping,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ── orders ─────────────────────────────────────────────────────────

type mongoOrders struct{ m *Mongo }

func (s *mongoOrders) Create(ctx context.Context, o *models.Order) error {
	if len(o.Products) == 0 {
		return ErrEmptyOrder
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now()
	o.ID = primitive.NewObjectID()
	if o.Status == "" {
		o.Status = models.StatusNotProcess
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	_, err := s.m.orders.InsertOne(ctx, o)
	return err
}

func (s *mongoOrders) ByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var order models.Order
	err := s.m.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *mongoOrders) ByBuyer(ctx context.Context, buyer primitive.ObjectID) ([]models.PopulatedOrder, error) {
	return s.find(ctx, bson.M{"buyer": buyer}, nil)
}

func (s *mongoOrders) All(ctx context.Context) ([]models.PopulatedOrder, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
}

func (s *mongoOrders) SetStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	after := options.After
	var order models.Order
	err := s.m.orders.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *mongoOrders) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.PopulatedOrder, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.m.orders.Find(ctx, filter, opts)
	} else {
		cursor, err = s.m.orders.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return s.populate(ctx, orders)
}

// populate resolves product and buyer references for a batch of orders,
// mirroring populate("products", "-photo") and populate("buyer", "name").
func (s *mongoOrders) populate(ctx context.Context, orders []models.Order) ([]models.PopulatedOrder, error) {
	productIDs := []primitive.ObjectID{}
	buyerIDs := []primitive.ObjectID{}
	seenProduct := map[primitive.ObjectID]bool{}
	seenBuyer := map[primitive.ObjectID]bool{}
	for _, o := range orders {
		for _, pid := range o.Products {
			if !seenProduct[pid] {
				productIDs = append(productIDs, pid)
				seenProduct[pid] = true
			}
		}
		if !seenBuyer[o.Buyer] {
			buyerIDs = append(buyerIDs, o.Buyer)
			seenBuyer[o.Buyer] = true
		}
	}

	productByID := map[primitive.ObjectID]models.CatalogProduct{}
	if len(productIDs) > 0 {
		cursor, err := s.m.products.Find(ctx, bson.M{"_id": bson.M{"$in": productIDs}},
			options.Find().SetProjection(noPhoto))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var products []models.Product
		if err := cursor.All(ctx, &products); err != nil {
			return nil, err
		}
		populated, err := (&mongoProducts{s.m}).populate(ctx, products)
		if err != nil {
			return nil, err
		}
		for _, p := range populated {
			productByID[p.ID] = p
		}
	}

	buyerByID := map[primitive.ObjectID]models.BuyerRef{}
	if len(buyerIDs) > 0 {
		cursor, err := s.m.users.Find(ctx, bson.M{"_id": bson.M{"$in": buyerIDs}},
			options.Find().SetProjection(bson.M{"name": 1}))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var buyers []models.User
		if err := cursor.All(ctx, &buyers); err != nil {
			return nil, err
		}
		for _, b := range buyers {
			buyerByID[b.ID] = models.BuyerRef{ID: b.ID, Name: b.Name}
		}
	}

	out := make([]models.PopulatedOrder, 0, len(orders))
	for _, o := range orders {
		products := make([]models.CatalogProduct, 0, len(o.Products))
		for _, pid := range o.Products {
			if p, ok := productByID[pid]; ok {
				products = append(products, p)
			}
		}
		out = append(out, models.PopulatedOrder{
			ID:        o.ID,
			Products:  products,
			Payment:   o.Payment,
			Buyer:     buyerByID[o.Buyer],
			Status:    o.Status,
			CreatedAt: o.CreatedAt,
			UpdatedAt: o.UpdatedAt,
		})
	}
	return out, nil
}
