package crud

import (
	"context"
	"errors"
	"strings"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// UpdateHook runs after a successful update with the document before and
// after the change. Its result is merged into the update response.
type UpdateHook[T models.Entity] func(ctx context.Context, before, after T) (map[string]any, error)

// Service wraps a Repository with id parsing and error classification.
type Service[T models.Entity] struct {
	name       string
	repo       Repository[T]
	afterWrite []UpdateHook[T]
}

func NewService[T models.Entity](name string, repo Repository[T]) *Service[T] {
	return &Service[T]{name: name, repo: repo}
}

// Name is the singular resource label used in messages.
func (s *Service[T]) Name() string { return s.name }

// Repo exposes the underlying repository to packages that need richer queries.
func (s *Service[T]) Repo() Repository[T] { return s.repo }

// OnUpdate registers a hook run after every successful update.
func (s *Service[T]) OnUpdate(h UpdateHook[T]) { s.afterWrite = append(s.afterWrite, h) }

// ParseID validates a hex ObjectID.
func ParseID(raw string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return primitive.NilObjectID, apperr.Validation("id is required")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid id %q", raw)
	}
	return id, nil
}

func (s *Service[T]) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound(s.name + " not found")
	case errors.Is(err, ErrDuplicate):
		return apperr.Wrap(apperr.KindConflict, err, s.name+" already exists")
	}
	if apperr.As(err) != nil {
		return err
	}
	return apperr.Internal(err)
}

func (s *Service[T]) Create(ctx context.Context, doc T) (T, error) {
	if err := s.repo.Create(ctx, doc); err != nil {
		return doc, s.classify(err)
	}
	return doc, nil
}

func (s *Service[T]) Get(ctx context.Context, rawID string) (T, error) {
	var zero T
	id, err := ParseID(rawID)
	if err != nil {
		return zero, err
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, s.classify(err)
	}
	return doc, nil
}

// ListResult is one page of documents plus the total matching the filter.
type ListResult[T any] struct {
	Items []T
	Total int64
}

func (s *Service[T]) List(ctx context.Context, f Filter, p Page) (ListResult[T], error) {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	items, err := s.repo.Find(ctx, f, p)
	if err != nil {
		return ListResult[T]{}, s.classify(err)
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return ListResult[T]{}, s.classify(err)
	}
	return ListResult[T]{Items: items, Total: total}, nil
}

func (s *Service[T]) Count(ctx context.Context, f Filter) (int64, error) {
	n, err := s.repo.Count(ctx, f)
	return n, s.classify(err)
}

// Update writes the permitted fields in set and runs the update hooks.
func (s *Service[T]) Update(ctx context.Context, rawID string, set bson.M) (T, map[string]any, error) {
	var zero T
	id, err := ParseID(rawID)
	if err != nil {
		return zero, nil, err
	}
	if len(set) == 0 {
		return zero, nil, apperr.Validation("no updatable fields supplied")
	}
	var before T
	if len(s.afterWrite) > 0 {
		if before, err = s.repo.Get(ctx, id); err != nil {
			return zero, nil, s.classify(err)
		}
	}
	if err := s.repo.Update(ctx, id, set); err != nil {
		return zero, nil, s.classify(err)
	}
	after, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, nil, s.classify(err)
	}
	extras := map[string]any{}
	for _, h := range s.afterWrite {
		out, err := h(ctx, before, after)
		if err != nil {
			return after, nil, s.classify(err)
		}
		for k, v := range out {
			extras[k] = v
		}
	}
	return after, extras, nil
}

func (s *Service[T]) Delete(ctx context.Context, rawID string) error {
	id, err := ParseID(rawID)
	if err != nil {
		return err
	}
	return s.classify(s.repo.Delete(ctx, id))
}
