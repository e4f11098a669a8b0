package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PSilyDev/survease/internal/model"
)

// ResponseRepo handles MongoDB operations for submitted responses.
// Documents are append-only; nothing here mutates a stored response.
type ResponseRepo interface {
	Insert(ctx context.Context, doc *model.ResponseDocument) error
	FetchAll(ctx context.Context) ([]model.ResponseDocument, error)
	Delete(ctx context.Context, id string) error
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Insert(ctx context.Context, doc *model.ResponseDocument) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *responseRepo) FetchAll(ctx context.Context) ([]model.ResponseDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []model.ResponseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *responseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	return err
}
