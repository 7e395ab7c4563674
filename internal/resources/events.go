package resources

import (
	"time"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventCreate struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Location    string    `json:"location" binding:"max=300"`
	ChapterID   string    `json:"chapterId" binding:"omitempty,objectid"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	Attendees   []string  `json:"attendees" binding:"omitempty,dive,objectid"`
}

func (r EventCreate) Model(creator primitive.ObjectID) (*models.CalendarEvent, error) {
	title, err := required("title", r.Title)
	if err != nil {
		return nil, err
	}
	attendees, err := objectIDs(r.Attendees)
	if err != nil {
		return nil, err
	}
	return &models.CalendarEvent{
		Title:       sanitize.Text(title),
		Description: sanitize.Text(r.Description),
		Location:    sanitize.Text(r.Location),
		ChapterID:   r.ChapterID,
		StartsAt:    r.StartsAt.UTC(),
		CreatedBy:   creator,
		Attendees:   attendees,
	}, nil
}

// EventPatch edits an event. Moving StartsAt re-arms the reminder.
type EventPatch struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Location    *string    `json:"location" binding:"omitempty,max=300"`
	ChapterID   *string    `json:"chapterId"`
	StartsAt    *time.Time `json:"startsAt"`
	Attendees   *[]string  `json:"attendees"`
}

func (r EventPatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text("title", r.Title, sanitize.Text, true); err != nil {
		return nil, err
	}
	if err := p.text("description", r.Description, sanitize.Text, false); err != nil {
		return nil, err
	}
	if err := p.text("location", r.Location, sanitize.Text, false); err != nil {
		return nil, err
	}
	if err := p.ref("chapterId", r.ChapterID); err != nil {
		return nil, err
	}
	if r.StartsAt != nil {
		if r.StartsAt.IsZero() {
			return nil, apperr.Validation("startsAt must not be empty")
		}
		p["startsAt"] = r.StartsAt.UTC()
		p["reminderSent"] = false
	}
	if r.Attendees != nil {
		ids, err := objectIDs(*r.Attendees)
		if err != nil {
			return nil, err
		}
		p["attendees"] = ids
	}
	return p.fields()
}

func objectIDs(raw []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(raw))
	seen := map[primitive.ObjectID]bool{}
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, apperr.Validation("invalid attendee id %q", s)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
