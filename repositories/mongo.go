package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/mlm_backoffice/models"
)

const (
	usersCollection       = "users"
	productsCollection    = "products"
	inventoryCollection   = "inventory"
	customersCollection   = "customers"
	salesCollection       = "sales"
	commissionsCollection = "commissions"
)

// MongoStore persists every entity in its own collection keyed by string ids.
type MongoStore struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// NewMongoStore wraps an established client. When transactions is true
// RunInTx uses a session transaction, which needs a replica set deployment.
func NewMongoStore(client *mongo.Client, dbName string, transactions bool) *MongoStore {
	return &MongoStore{
		client:       client,
		db:           client.Database(dbName),
		transactions: transactions,
	}
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "uplineId", Value: 1}}},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		inventoryCollection: {
			{Keys: bson.D{{Key: "productId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		customersCollection: {
			{Keys: bson.D{{Key: "representativeId", Value: 1}}},
		},
		salesCollection: {
			{Keys: bson.D{{Key: "representativeId", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		commissionsCollection: {
			{Keys: bson.D{{Key: "representativeId", Value: 1}}},
			{Keys: bson.D{{Key: "saleId", Value: 1}}},
		},
	}

	for name, specs := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if !s.transactions {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []T
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// byCreation keeps list results in insertion order.
func byCreation() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}

func (s *MongoStore) users() *mongo.Collection       { return s.db.Collection(usersCollection) }
func (s *MongoStore) products() *mongo.Collection    { return s.db.Collection(productsCollection) }
func (s *MongoStore) inventory() *mongo.Collection   { return s.db.Collection(inventoryCollection) }
func (s *MongoStore) customers() *mongo.Collection   { return s.db.Collection(customersCollection) }
func (s *MongoStore) sales() *mongo.Collection       { return s.db.Collection(salesCollection) }
func (s *MongoStore) commissions() *mongo.Collection { return s.db.Collection(commissionsCollection) }

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"_id": id})
}

func (s *MongoStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"username": username})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.users(), bson.M{"email": email})
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return findAll[models.User](ctx, s.users(), bson.M{}, byCreation())
}

func (s *MongoStore) ListRepresentatives(ctx context.Context) ([]*models.User, error) {
	return findAll[models.User](ctx, s.users(), bson.M{"role": models.RoleRepresentative}, byCreation())
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	return insertOne(ctx, s.users(), user)
}

func (s *MongoStore) UpdateUser(ctx context.Context, user *models.User) error {
	return replaceByID(ctx, s.users(), user.ID, user)
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) error {
	return deleteByID(ctx, s.users(), id)
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return findOne[models.Product](ctx, s.products(), bson.M{"_id": id})
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return findAll[models.Product](ctx, s.products(), bson.M{}, byCreation())
}

func (s *MongoStore) CreateProduct(ctx context.Context, product *models.Product) error {
	return insertOne(ctx, s.products(), product)
}

func (s *MongoStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	return replaceByID(ctx, s.products(), product.ID, product)
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id string) error {
	return deleteByID(ctx, s.products(), id)
}

func (s *MongoStore) GetInventory(ctx context.Context, id string) (*models.Inventory, error) {
	return findOne[models.Inventory](ctx, s.inventory(), bson.M{"_id": id})
}

func (s *MongoStore) GetInventoryByProduct(ctx context.Context, productID string) (*models.Inventory, error) {
	return findOne[models.Inventory](ctx, s.inventory(), bson.M{"productId": productID})
}

func (s *MongoStore) ListInventory(ctx context.Context) ([]*models.Inventory, error) {
	return findAll[models.Inventory](ctx, s.inventory(), bson.M{})
}

func (s *MongoStore) CreateInventory(ctx context.Context, inv *models.Inventory) error {
	return insertOne(ctx, s.inventory(), inv)
}

func (s *MongoStore) UpdateInventory(ctx context.Context, inv *models.Inventory) error {
	return replaceByID(ctx, s.inventory(), inv.ID, inv)
}

func (s *MongoStore) DeleteInventory(ctx context.Context, id string) error {
	return deleteByID(ctx, s.inventory(), id)
}

// DecrementStock runs as a single pipeline update so concurrent sales of the
// same product cannot push the quantity below zero.
func (s *MongoStore) DecrementStock(ctx context.Context, productID string, qty int) (*models.Inventory, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "quantity", Value: bson.D{{Key: "$max", Value: bson.A{
				0,
				bson.D{{Key: "$subtract", Value: bson.A{"$quantity", qty}}},
			}}}},
			{Key: "updatedAt", Value: now()},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inv models.Inventory
	err := s.inventory().FindOneAndUpdate(ctx, bson.M{"productId": productID}, update, opts).Decode(&inv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (s *MongoStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return findOne[models.Customer](ctx, s.customers(), bson.M{"_id": id})
}

func (s *MongoStore) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return findAll[models.Customer](ctx, s.customers(), bson.M{}, byCreation())
}

func (s *MongoStore) ListCustomersByRepresentative(ctx context.Context, repID string) ([]*models.Customer, error) {
	return findAll[models.Customer](ctx, s.customers(), bson.M{"representativeId": repID}, byCreation())
}

func (s *MongoStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return insertOne(ctx, s.customers(), customer)
}

func (s *MongoStore) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	return replaceByID(ctx, s.customers(), customer.ID, customer)
}

func (s *MongoStore) DeleteCustomer(ctx context.Context, id string) error {
	return deleteByID(ctx, s.customers(), id)
}

func (s *MongoStore) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	return findOne[models.Sale](ctx, s.sales(), bson.M{"_id": id})
}

func (s *MongoStore) ListSales(ctx context.Context) ([]*models.Sale, error) {
	return findAll[models.Sale](ctx, s.sales(), bson.M{}, byCreation())
}

func (s *MongoStore) ListSalesByRepresentative(ctx context.Context, repID string) ([]*models.Sale, error) {
	return findAll[models.Sale](ctx, s.sales(), bson.M{"representativeId": repID}, byCreation())
}

func (s *MongoStore) CreateSale(ctx context.Context, sale *models.Sale) error {
	return insertOne(ctx, s.sales(), sale)
}

func (s *MongoStore) GetCommission(ctx context.Context, id string) (*models.Commission, error) {
	return findOne[models.Commission](ctx, s.commissions(), bson.M{"_id": id})
}

func (s *MongoStore) ListCommissions(ctx context.Context) ([]*models.Commission, error) {
	return findAll[models.Commission](ctx, s.commissions(), bson.M{}, byCreation())
}

func (s *MongoStore) ListCommissionsByRepresentative(ctx context.Context, repID string) ([]*models.Commission, error) {
	return findAll[models.Commission](ctx, s.commissions(), bson.M{"representativeId": repID}, byCreation())
}

func (s *MongoStore) ListCommissionsBySale(ctx context.Context, saleID string) ([]*models.Commission, error) {
	return findAll[models.Commission](ctx, s.commissions(), bson.M{"saleId": saleID}, byCreation())
}

func (s *MongoStore) CreateCommission(ctx context.Context, commission *models.Commission) error {
	return insertOne(ctx, s.commissions(), commission)
}

func (s *MongoStore) UpdateCommission(ctx context.Context, commission *models.Commission) error {
	return replaceByID(ctx, s.commissions(), commission.ID, commission)
}
