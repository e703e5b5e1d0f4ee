package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roboturkiye-backend/internal/models"
)

// Collection names.
const (
	UsersCollection      = "users"
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	CartsCollection      = "carts"
	OrdersCollection     = "orders"
)

// NewMongoStore returns a Store backed by db.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:      &UserRepo{collection: db.Collection(UsersCollection)},
		Products:   &ProductRepo{collection: db.Collection(ProductsCollection)},
		Categories: &CategoryRepo{collection: db.Collection(CategoriesCollection)},
		Carts:      &CartRepo{collection: db.Collection(CartsCollection)},
		Orders:     &OrderRepo{collection: db.Collection(OrdersCollection)},
	}
}

// mapErr translates driver errors into repository sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}

type UserRepo struct {
	collection *mongo.Collection
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	_, err := r.collection.InsertOne(ctx, user)
	return mapErr(err)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

type ProductRepo struct {
	collection *mongo.Collection
}

func (r *ProductRepo) Create(ctx context.Context, product *models.Product) error {
	_, err := r.collection.InsertOne(ctx, product)
	return mapErr(err)
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, mapErr(err)
	}
	return &product, nil
}

func productQuery(filter ProductFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}
	return query
}

func (r *ProductRepo) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := productQuery(filter)

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(max(filter.Skip, 0))
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.OriginalPrice != nil {
		set["original_price"] = *patch.OriginalPrice
	}
	if patch.CurrentPrice != nil {
		set["current_price"] = *patch.CurrentPrice
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Badge != nil {
		set["badge"] = *patch.Badge
	}
	if patch.InStock != nil {
		set["in_stock"] = *patch.InStock
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		return nil, mapErr(err)
	}
	return &product, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type CategoryRepo struct {
	collection *mongo.Collection
}

func (r *CategoryRepo) Create(ctx context.Context, category *models.Category) error {
	_, err := r.collection.InsertOne(ctx, category)
	return mapErr(err)
}

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
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

type CartRepo struct {
	collection *mongo.Collection
}

func (r *CartRepo) FindByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart); err != nil {
		return nil, mapErr(err)
	}
	return &cart, nil
}

// GetOrCreate upserts on the unique user_id index so concurrent first
// requests converge on a single document.
func (r *CartRepo) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        uuid.NewString(),
		"user_id":    userID,
		"items":      bson.A{},
		"version":    int64(0),
		"created_at": now,
		"updated_at": now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var cart models.Cart
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&cart)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the insert race; the winner's document is there now.
		return r.FindByUserID(ctx, userID)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (r *CartRepo) ReplaceItems(ctx context.Context, userID string, version int64, items []models.CartItem) (*models.Cart, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	filter := bson.M{"user_id": userID, "version": version}
	update := bson.M{
		"$set": bson.M{"items": items, "updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cart models.Cart
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, ferr := r.FindByUserID(ctx, userID); ferr != nil {
			return nil, ferr
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

type OrderRepo struct {
	collection *mongo.Collection
}

func (r *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	_, err := r.collection.InsertOne(ctx, order)
	return mapErr(err)
}

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, mapErr(err)
	}
	return &order, nil
}

func (r *OrderRepo) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepo) Transition(ctx context.Context, id string, from, to models.OrderState) (*models.Order, error) {
	filter := bson.M{"_id": id, "status": from.Status, "payment_status": from.PaymentStatus}
	update := bson.M{"$set": bson.M{
		"status":         to.Status,
		"payment_status": to.PaymentStatus,
		"updated_at":     time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return nil, ferr
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

