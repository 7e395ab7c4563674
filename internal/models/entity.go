package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entity is implemented by every persisted document through an embedded Base.
type Entity interface {
	GetID() primitive.ObjectID
	Stamp(now time.Time)
}

// Base carries the identity and timestamps shared by all collections.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b *Base) GetID() primitive.ObjectID { return b.ID }

// Stamp assigns an id and creation time when missing and refreshes UpdatedAt.
func (b *Base) Stamp(now time.Time) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
