package resources

import (
	"strings"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberPatch covers the profile fields an admin may edit. Role, approvals and
// referral data change only through the member workflow endpoints.
type MemberPatch struct {
	FirstName    *string `json:"firstName" binding:"omitempty,max=100"`
	LastName     *string `json:"lastName" binding:"omitempty,max=100"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=40"`
	CompanyName  *string `json:"companyName" binding:"omitempty,max=200"`
	ChapterID    *string `json:"chapterId"`
	IndustryID   *string `json:"industryId"`
	ProfileImage *string `json:"profileImage" binding:"omitempty,max=200"`
}

func (r MemberPatch) Fields() (bson.M, error) {
	p := patch{}
	if err := p.text("firstName", r.FirstName, sanitize.Text, true); err != nil {
		return nil, err
	}
	if err := p.text("lastName", r.LastName, sanitize.Text, false); err != nil {
		return nil, err
	}
	if err := p.text("email", r.Email, strings.ToLower, true); err != nil {
		return nil, err
	}
	for key, v := range map[string]*string{
		"phone":        r.Phone,
		"companyName":  r.CompanyName,
		"profileImage": r.ProfileImage,
	} {
		if err := p.text(key, v, nil, false); err != nil {
			return nil, err
		}
	}
	if err := p.ref("chapterId", r.ChapterID); err != nil {
		return nil, err
	}
	if err := p.ref("industryId", r.IndustryID); err != nil {
		return nil, err
	}
	return p.fields()
}

// noCreate fills the Creator slot of resources registered without an add route.
type noCreate[T models.Entity] struct{}

func (noCreate[T]) Model(primitive.ObjectID) (T, error) {
	var zero T
	return zero, apperr.Validation("create is not supported here")
}
