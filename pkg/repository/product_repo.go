package repository

import (
	"context"
	"strings"
	"time"

	"github.com/example/bakeshop/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductFilter narrows a catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Category   string
	MinPrice   *float64
	MaxPrice   *float64
	MinRating  *float64
	Bestseller bool
	Search     string
	InStock    *bool
	Sort       string // field name, "-" prefix for descending; default -createdAt
	Page       int64
	Limit      int64
}

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(m *MongoRepository) *ProductRepository {
	return &ProductRepository{collection: m.database.Collection(productsCollection)}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) FindByNames(ctx context.Context, names []string) ([]*models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error) {
	query := bson.M{}

	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.MinRating != nil {
		query["rating"] = bson.M{"$gte": *filter.MinRating}
	}
	if filter.Bestseller {
		query["bestseller"] = true
	}
	if filter.InStock != nil {
		query["inStock"] = *filter.InStock
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
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
		SetSort(sortSpec(filter.Sort)).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// NewestInStock returns the newest in-stock products whose names are not
// in exclude. Used to backfill the best-sellers list.
func (r *ProductRepository) NewestInStock(ctx context.Context, exclude []string, limit int64) ([]*models.Product, error) {
	query := bson.M{"inStock": true}
	if len(exclude) > 0 {
		query["name"] = bson.M{"$nin": exclude}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Product, error) {
	update["updatedAt"] = time.Now()

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var p models.Product
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": update}, opts).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetRating writes the recomputed review aggregate onto the product.
func (r *ProductRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"rating":      rating,
		"reviewCount": count,
		"updatedAt":   time.Now(),
	}})
	return err
}

// sortableFields are the only fields a client may sort by.
var sortableFields = map[string]bool{
	"name":        true,
	"price":       true,
	"rating":      true,
	"reviewCount": true,
	"createdAt":   true,
}

func sortSpec(sort string) bson.D {
	order := 1
	if strings.HasPrefix(sort, "-") {
		order = -1
		sort = sort[1:]
	}
	if !sortableFields[sort] {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: sort, Value: order}}
}
