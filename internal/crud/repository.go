package crud

import (
	"context"
	"errors"

	"github.com/bizlink/bizlink-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// FieldCreatedAt is the default sort key.
const FieldCreatedAt = "createdAt"

// Page controls ordering and slicing of Find results. A zero Limit means no limit.
type Page struct {
	Skip      int64
	Limit     int64
	SortField string
	Asc       bool
}

// Repository is the persistence contract for one collection. T is a pointer
// to a model struct embedding models.Base.
type Repository[T models.Entity] interface {
	Create(ctx context.Context, doc T) error
	Get(ctx context.Context, id primitive.ObjectID) (T, error)
	Find(ctx context.Context, f Filter, p Page) ([]T, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// RewriteFold sets field to `to` on every document whose field equals
	// `from` case-insensitively, returning the number of modified documents.
	RewriteFold(ctx context.Context, field, from, to string) (int64, error)
}

func (p Page) sortField() string {
	if p.SortField == "" {
		return FieldCreatedAt
	}
	return p.SortField
}
