// Package members implements registration and the two-step approval workflow.
package members

import (
	"context"
	"strings"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/internal/sanitize"
	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const codeAttempts = 3

// Service encapsulates member-related business logic
type Service struct {
	members *crud.Service[*models.Member]
	newCode func() string
}

func NewService(members *crud.Service[*models.Member]) *Service {
	return &Service{members: members, newCode: referralCode}
}

// referralCode is the first eight hex digits of a random UUID, upper-cased.
func referralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Registration is the public sign-up body.
type Registration struct {
	FirstName   string `json:"firstName" binding:"required,max=100"`
	LastName    string `json:"lastName" binding:"max=100"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"max=40"`
	CompanyName string `json:"companyName" binding:"max=200"`
	ChapterID   string `json:"chapterId" binding:"omitempty,objectid"`
	IndustryID  string `json:"industryId" binding:"omitempty,objectid"`
	ReferredBy  string `json:"referredBy" binding:"max=32"`
}

func (s *Service) findOne(ctx context.Context, field string, v any) (*models.Member, error) {
	found, err := s.members.Repo().Find(ctx, crud.Where(field, v), crud.Page{Limit: 1})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0], nil
}

// Register creates a pending member with a fresh referral code. A referredBy
// code must belong to an existing member.
func (s *Service) Register(ctx context.Context, r Registration) (*models.Member, error) {
	email := strings.ToLower(strings.TrimSpace(r.Email))
	first := sanitize.Text(r.FirstName)
	if first == "" {
		return nil, apperr.Validation("firstName is required")
	}
	if existing, err := s.findOne(ctx, "email", email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperr.Conflict("a member with this email already exists")
	}
	ref := strings.ToUpper(strings.TrimSpace(r.ReferredBy))
	if ref != "" {
		sponsor, err := s.findOne(ctx, "referralCode", ref)
		if err != nil {
			return nil, err
		}
		if sponsor == nil {
			return nil, apperr.Validation("unknown referral code %q", ref)
		}
	}

	var lastErr error
	for i := 0; i < codeAttempts; i++ {
		m := &models.Member{
			FirstName:    first,
			LastName:     sanitize.Text(r.LastName),
			Email:        email,
			Phone:        strings.TrimSpace(r.Phone),
			CompanyName:  strings.TrimSpace(r.CompanyName),
			ChapterID:    r.ChapterID,
			IndustryID:   r.IndustryID,
			Role:         models.RoleMember,
			ReferralCode: s.newCode(),
			ReferredBy:   ref,
		}
		created, err := s.members.Create(ctx, m)
		if err == nil {
			logger.Infow("member registered", "member", created.ID.Hex(), "referredBy", ref)
			return created, nil
		}
		if !apperr.Is(err, apperr.KindConflict) {
			return nil, err
		}
		// the email may have been taken concurrently; only retry code clashes
		if existing, ferr := s.findOne(ctx, "email", email); ferr == nil && existing != nil {
			return nil, apperr.Conflict("a member with this email already exists")
		}
		lastErr = err
	}
	return nil, apperr.Wrap(apperr.KindInternal, lastErr, "could not allocate referral code")
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Member, error) {
	return s.members.Get(ctx, rawID)
}

// AdminApprove marks the registration approved by an administrator.
func (s *Service) AdminApprove(ctx context.Context, rawID string) (*models.Member, error) {
	m, _, err := s.members.Update(ctx, rawID, bson.M{"adminApproved": true})
	if err != nil {
		return nil, err
	}
	logger.Infow("member admin-approved", "member", m.ID.Hex())
	return m, nil
}

// MemberApprove records the sponsor's confirmation. Only the member owning
// the referral code the registrant used, or an admin, may confirm.
func (s *Service) MemberApprove(ctx context.Context, rawID, approverID, approverRole string) (*models.Member, error) {
	target, err := s.members.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if approverRole != models.RoleAdmin {
		approver, err := s.members.Get(ctx, approverID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return nil, apperr.New(apperr.KindForbidden, "approver is not a member")
			}
			return nil, err
		}
		if target.ReferredBy == "" || approver.ReferralCode != target.ReferredBy {
			return nil, apperr.New(apperr.KindForbidden, "only the sponsoring member can confirm this registration")
		}
	}
	m, _, err := s.members.Update(ctx, rawID, bson.M{"memberApproved": true})
	if err != nil {
		return nil, err
	}
	logger.Infow("member sponsor-approved", "member", m.ID.Hex(), "approver", approverID)
	return m, nil
}

// Pending lists members still waiting for admin approval, oldest first.
func (s *Service) Pending(ctx context.Context, page crud.Page) (crud.ListResult[*models.Member], error) {
	page.Asc = true
	return s.members.List(ctx, crud.Where("adminApproved", false), page)
}

func (s *Service) ByReferralCode(ctx context.Context, code string) (*models.Member, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperr.Validation("code is required")
	}
	m, err := s.findOne(ctx, "referralCode", code)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("member not found")
	}
	return m, nil
}

// UpsertFromClaims maps an SSO identity onto a member record, matched by
// email. New SSO users are created approved; the admin role follows the token.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}, admin bool) (*models.Member, error) {
	email, _ := claims["email"].(string)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.New(apperr.KindUnauthorized, "token has no email claim")
	}
	role := models.RoleMember
	if admin {
		role = models.RoleAdmin
	}
	m, err := s.findOne(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if m != nil {
		if m.Role != role {
			m, _, err = s.members.Update(ctx, m.ID.Hex(), bson.M{"role": role})
			if err != nil {
				return nil, err
			}
		}
		return m, nil
	}
	first, _ := claims["given_name"].(string)
	last, _ := claims["family_name"].(string)
	if first == "" {
		first, _ = claims["name"].(string)
	}
	created, err := s.members.Create(ctx, &models.Member{
		Base:           models.Base{ID: primitive.NewObjectID()},
		FirstName:      first,
		LastName:       last,
		Email:          email,
		Role:           role,
		AdminApproved:  true,
		MemberApproved: true,
		ReferralCode:   s.newCode(),
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("member created from sso", "member", created.ID.Hex(), "role", role)
	return created, nil
}
