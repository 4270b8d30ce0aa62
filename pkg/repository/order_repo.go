package repository

import (
	"context"
	"time"

	"github.com/example/bakeshop/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderFilter narrows an order listing. Zero values mean "no filter".
type OrderFilter struct {
	Status      string
	Email       string
	OrderNumber string
	Page        int64
	Limit       int64
}

// NameSales is one row of the best-seller aggregation: total units and
// revenue for a product name across qualifying orders.
type NameSales struct {
	Name          string  `bson:"_id"`
	TotalQuantity int     `bson:"totalQuantity"`
	TotalRevenue  float64 `bson:"totalRevenue"`
}

type OrderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(m *MongoRepository) *OrderRepository {
	return &OrderRepository{collection: m.database.Collection(ordersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, filter OrderFilter) ([]*models.Order, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["orderStatus"] = filter.Status
	}
	if filter.Email != "" {
		query["customerInfo.email"] = filter.Email
	}
	if filter.OrderNumber != "" {
		query["orderNumber"] = filter.OrderNumber
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	skip := (page - 1) * limit

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateFields applies a direct field update and returns the updated order.
func (r *OrderRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Order, error) {
	fields["updatedAt"] = time.Now()

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// BestSellingNames ranks product names by units sold across orders whose
// status shows real purchase intent (pending and cancelled are excluded).
// The join key is the snapshotted item name, matching how carts identify
// items.
func (r *OrderRepository) BestSellingNames(ctx context.Context, limit int64) ([]NameSales, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"orderStatus": bson.M{"$in": bson.A{
				models.StatusDelivered,
				models.StatusProcessing,
				models.StatusConfirmed,
				models.StatusOutForDelivery,
			}},
		}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$items.name",
			"totalQuantity": bson.M{"$sum": "$items.quantity"},
			"totalRevenue": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$items.quantity", "$items.price"},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []NameSales
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
