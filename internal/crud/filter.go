package crud

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is the small query language shared by the Mongo and in-memory
// repositories. All populated parts are combined with AND; Any is an OR of
// sub-filters.
type Filter struct {
	Eq    map[string]any
	In    map[string][]any
	Fold  map[string][]string // anchored, case-insensitive equality against any value
	Range map[string]TimeRange
	Any   []Filter
}

// TimeRange is the half-open interval [From, To).
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Where returns a filter with a single equality condition.
func Where(field string, v any) Filter {
	return Filter{Eq: map[string]any{field: v}}
}

// FoldAny matches field case-insensitively against any of values.
func FoldAny(field string, values ...string) Filter {
	return Filter{Fold: map[string][]string{field: values}}
}

// With returns a copy of f with an added equality condition.
func (f Filter) With(field string, v any) Filter {
	eq := make(map[string]any, len(f.Eq)+1)
	for k, old := range f.Eq {
		eq[k] = old
	}
	eq[field] = v
	f.Eq = eq
	return f
}

// Empty reports whether the filter has no conditions.
func (f Filter) Empty() bool {
	return len(f.Eq) == 0 && len(f.In) == 0 && len(f.Fold) == 0 && len(f.Range) == 0 && len(f.Any) == 0
}

// FoldPattern builds the anchored, escaped, case-insensitive regex used for
// company-name comparisons.
func FoldPattern(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// BSON translates the filter into a Mongo query document.
func (f Filter) BSON() bson.M {
	var conds []bson.M
	for k, v := range f.Eq {
		conds = append(conds, bson.M{k: v})
	}
	for k, vs := range f.In {
		conds = append(conds, bson.M{k: bson.M{"$in": vs}})
	}
	for k, vs := range f.Fold {
		regs := make([]any, 0, len(vs))
		for _, v := range vs {
			regs = append(regs, FoldPattern(v))
		}
		conds = append(conds, bson.M{k: bson.M{"$in": regs}})
	}
	for k, r := range f.Range {
		conds = append(conds, bson.M{k: bson.M{"$gte": r.From, "$lt": r.To}})
	}
	if len(f.Any) > 0 {
		ors := make([]bson.M, 0, len(f.Any))
		for _, sub := range f.Any {
			ors = append(ors, sub.BSON())
		}
		conds = append(conds, bson.M{"$or": ors})
	}

	out := bson.M{}
	var clash []bson.M
	for _, c := range conds {
		for k, v := range c {
			if _, dup := out[k]; dup {
				clash = append(clash, bson.M{k: v})
				continue
			}
			out[k] = v
		}
	}
	if len(clash) > 0 {
		out["$and"] = clash
	}
	return out
}

// Match evaluates the filter against a decoded document. It mirrors BSON()
// for the value types this service stores.
func (f Filter) Match(doc bson.M) bool {
	for k, v := range f.Eq {
		if !equalValue(doc[k], v) {
			return false
		}
	}
	for k, vs := range f.In {
		hit := false
		for _, v := range vs {
			if equalValue(doc[k], v) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for k, vs := range f.Fold {
		s, ok := doc[k].(string)
		if !ok {
			return false
		}
		hit := false
		for _, v := range vs {
			if strings.EqualFold(s, v) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for k, r := range f.Range {
		t, ok := asTime(doc[k])
		if !ok || t.Before(r.From) || !t.Before(r.To) {
			return false
		}
	}
	if len(f.Any) > 0 {
		hit := false
		for _, sub := range f.Any {
			if sub.Match(doc) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time(), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case time.Time:
		return primitive.NewDateTimeFromTime(t)
	}
	return v
}

func equalValue(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}
