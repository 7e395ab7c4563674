// Package resources holds the request schemas and route table of the CRUD
// collections.
package resources

import (
	"strings"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// patch accumulates the permitted fields of a partial update. Nil inputs are
// left untouched.
type patch bson.M

func (p patch) text(key string, v *string, clean func(string) string, required bool) error {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if clean != nil {
		s = clean(s)
	}
	if required && s == "" {
		return apperr.Validation("%s must not be empty", key)
	}
	p[key] = s
	return nil
}

func (p patch) ref(key string, v *string) error {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s != "" && !primitive.IsValidObjectID(s) {
		return apperr.Validation("%s must be a valid id", key)
	}
	p[key] = s
	return nil
}

func (p patch) fields() (bson.M, error) { return bson.M(p), nil }

func required(key, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperr.Validation("%s is required", key)
	}
	return v, nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// deptPatch resolves the two accepted spellings of the department field.
func deptPatch(dept, department *string) *string {
	if dept != nil {
		return dept
	}
	return department
}
