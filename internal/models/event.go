package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarEvent is a chapter meeting or similar; attendees get one reminder
// shortly before StartsAt.
type CalendarEvent struct {
	Base         `bson:",inline"`
	Title        string               `bson:"title" json:"title"`
	Description  string               `bson:"description,omitempty" json:"description,omitempty"`
	Location     string               `bson:"location,omitempty" json:"location,omitempty"`
	ChapterID    string               `bson:"chapterId,omitempty" json:"chapterId,omitempty"`
	StartsAt     time.Time            `bson:"startsAt" json:"startsAt"`
	CreatedBy    primitive.ObjectID   `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Attendees    []primitive.ObjectID `bson:"attendees" json:"attendees"`
	ReminderSent bool                 `bson:"reminderSent" json:"reminderSent"`
}
