package crud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizlink/bizlink-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a Mongo collection.
type MongoRepo[T models.Entity] struct {
	col *mongo.Collection
}

func NewMongoRepo[T models.Entity](col *mongo.Collection) *MongoRepo[T] {
	return &MongoRepo[T]{col: col}
}

func (m *MongoRepo[T]) Create(ctx context.Context, doc T) error {
	doc.Stamp(time.Now().UTC())
	if _, err := m.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return err
	}
	return nil
}

func (m *MongoRepo[T]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	var out T
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return out, ErrNotFound
		}
		return out, err
	}
	return out, nil
}

func (m *MongoRepo[T]) Find(ctx context.Context, f Filter, p Page) ([]T, error) {
	dir := -1
	if p.Asc {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: p.sortField(), Value: dir}, {Key: "_id", Value: dir}})
	if p.Skip > 0 {
		opts.SetSkip(p.Skip)
	}
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}
	cur, err := m.col.Find(ctx, f.BSON(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo[T]) Count(ctx context.Context, f Filter) (int64, error) {
	return m.col.CountDocuments(ctx, f.BSON())
}

func (m *MongoRepo[T]) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	doc := bson.M{}
	for k, v := range set {
		doc[k] = v
	}
	doc["updatedAt"] = time.Now().UTC()
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": doc})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo[T]) RewriteFold(ctx context.Context, field, from, to string) (int64, error) {
	re := FoldPattern(from)
	filter := bson.M{field: bson.M{"$regex": re.Pattern, "$options": re.Options, "$ne": to}}
	update := bson.M{"$set": bson.M{field: to, "updatedAt": time.Now().UTC()}}
	res, err := m.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
