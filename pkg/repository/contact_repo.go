package repository

import (
	"context"
	"time"

	"github.com/example/bakeshop/pkg/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ContactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(m *MongoRepository) *ContactRepository {
	return &ContactRepository{collection: m.database.Collection(contactsCollection)}
}

func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	msg.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}
