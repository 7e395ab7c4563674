// Package matching pairs a member's Asks with other members' Gives.
package matching

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPageSize applies when the caller does not choose one.
const DefaultPageSize = 5

const (
	msgNoAsks  = "no asks found"
	msgNoMatch = "no match found"
)

// OwnerView is the public projection of the member owning a Give.
type OwnerView struct {
	ID           primitive.ObjectID `json:"_id"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone,omitempty"`
	CompanyName  string             `json:"companyName,omitempty"`
	ProfileImage string             `json:"profileImage,omitempty"`
}

// GiveView is a matched Give with its owner populated. Owner is nil when the
// owning member no longer exists.
type GiveView struct {
	models.Give
	Owner *OwnerView `json:"owner"`
}

// Group collects the Gives of one company name, compared case-insensitively.
type Group struct {
	CompanyName string     `json:"companyName"`
	Gives       []GiveView `json:"gives"`

	firstSeen time.Time
}

// GroupedPage is one page of the grouped matcher.
type GroupedPage struct {
	Matches     []Group `json:"matches"`
	Total       int     `json:"total"`
	Page        int     `json:"page"`
	PageSize    int     `json:"pageSize"`
	HasNextPage bool    `json:"hasNextPage"`
}

// GivesPage is one page of the department-aware matcher.
type GivesPage struct {
	Gives       []GiveView `json:"gives"`
	Total       int        `json:"total"`
	Page        int        `json:"page"`
	PageSize    int        `json:"pageSize"`
	HasNextPage bool       `json:"hasNextPage"`
}

// DeptQuery optionally narrows the department-aware matcher to asks for one
// company and/or one department.
type DeptQuery struct {
	CompanyName string
	Dept        string
}

// Finder computes matches. Results are derived on every call; nothing is cached.
type Finder struct {
	asks    crud.Repository[*models.Ask]
	gives   crud.Repository[*models.Give]
	members crud.Repository[*models.Member]
}

func NewFinder(asks crud.Repository[*models.Ask], gives crud.Repository[*models.Give], members crud.Repository[*models.Member]) *Finder {
	return &Finder{asks: asks, gives: gives, members: members}
}

func window(page, size, total int) (lo, hi int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	lo = crud.Offset(page, size)
	if lo < 0 || lo > total {
		lo = total
	}
	hi = lo + size
	if hi > total {
		hi = total
	}
	return lo, hi
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

func observe(matcher string, start time.Time, err *error) {
	metrics.MatchDuration.WithLabelValues(matcher).Observe(time.Since(start).Seconds())
	outcome := "hit"
	switch {
	case *err == nil:
	case apperr.Is(*err, apperr.KindNotFound):
		outcome = "empty"
	default:
		outcome = "error"
	}
	metrics.MatchRequests.WithLabelValues(matcher, outcome).Inc()
}

func (f *Finder) memberAsks(ctx context.Context, member primitive.ObjectID) ([]*models.Ask, error) {
	if member.IsZero() {
		return nil, apperr.Validation("member id is required")
	}
	asks, err := f.asks.Find(ctx, crud.Where(models.FieldOwner, member), crud.Page{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if len(asks) == 0 {
		return nil, apperr.NotFound(msgNoAsks)
	}
	return asks, nil
}

// Grouped returns the member's matches grouped by company name. Department is
// not considered. Groups are ordered by their oldest Give, newest group first.
// A page past the last group is an empty 200 page; NotFound means no matches at all.
func (f *Finder) Grouped(ctx context.Context, member primitive.ObjectID, page, size int) (res GroupedPage, err error) {
	defer observe("grouped", time.Now(), &err)
	page, size = normalizePage(page, size)

	asks, err := f.memberAsks(ctx, member)
	if err != nil {
		return res, err
	}
	names := companyNames(asks)
	if len(names) == 0 {
		return res, apperr.NotFound(msgNoMatch)
	}

	gives, err := f.gives.Find(ctx, crud.FoldAny(models.FieldCompanyName, names...), crud.Page{Asc: true})
	if err != nil {
		return res, apperr.Internal(err)
	}
	groups := groupByCompany(gives)
	if len(groups) == 0 {
		return res, apperr.NotFound(msgNoMatch)
	}

	lo, hi := window(page, size, len(groups))
	pageGroups := groups[lo:hi]
	var shown []*models.Give
	for _, g := range pageGroups {
		for i := range g.Gives {
			shown = append(shown, &g.Gives[i].Give)
		}
	}
	owners, err := f.owners(ctx, shown)
	if err != nil {
		return res, err
	}
	for gi := range pageGroups {
		for i := range pageGroups[gi].Gives {
			pageGroups[gi].Gives[i].Owner = owners[pageGroups[gi].Gives[i].OwnerMemberID]
		}
	}

	return GroupedPage{
		Matches:     pageGroups,
		Total:       len(groups),
		Page:        page,
		PageSize:    size,
		HasNextPage: crud.HasNext(len(groups), page, size),
	}, nil
}

// companyNames returns the distinct trimmed company names of asks, compared
// case-insensitively; the first spelling wins.
func companyNames(asks []*models.Ask) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range asks {
		n := strings.TrimSpace(a.CompanyName)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// groupByCompany expects gives in ascending creation order, so each group's
// display name and sort key come from its oldest Give.
func groupByCompany(gives []*models.Give) []Group {
	index := map[string]int{}
	var groups []Group
	for _, g := range gives {
		key := strings.ToLower(strings.TrimSpace(g.CompanyName))
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{CompanyName: g.CompanyName, firstSeen: g.CreatedAt})
		}
		groups[i].Gives = append(groups[i].Gives, GiveView{Give: *g})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].firstSeen.After(groups[j].firstSeen)
	})
	return groups
}

// ByCompanyAndDept returns, without grouping, every Give matching one of the
// member's asks on both company name (case-insensitive) and department
// (exact). All asks are resolved in one query; each Give appears once.
func (f *Finder) ByCompanyAndDept(ctx context.Context, member primitive.ObjectID, q DeptQuery, page, size int) (res GivesPage, err error) {
	defer observe("company_dept", time.Now(), &err)
	page, size = normalizePage(page, size)

	asks, err := f.memberAsks(ctx, member)
	if err != nil {
		return res, err
	}
	clauses := deptClauses(asks, q)
	if len(clauses) == 0 {
		return res, apperr.NotFound(msgNoMatch)
	}

	found, err := f.gives.Find(ctx, crud.Filter{Any: clauses}, crud.Page{})
	if err != nil {
		return res, apperr.Internal(err)
	}
	seen := make(map[primitive.ObjectID]bool, len(found))
	unique := make([]*models.Give, 0, len(found))
	for _, g := range found {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		unique = append(unique, g)
	}
	if len(unique) == 0 {
		return res, apperr.NotFound(msgNoMatch)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].CreatedAt.After(unique[j].CreatedAt)
	})

	lo, hi := window(page, size, len(unique))
	shown := unique[lo:hi]
	owners, err := f.owners(ctx, shown)
	if err != nil {
		return res, err
	}
	views := make([]GiveView, 0, len(shown))
	for _, g := range shown {
		views = append(views, GiveView{Give: *g, Owner: owners[g.OwnerMemberID]})
	}
	return GivesPage{
		Gives:       views,
		Total:       len(unique),
		Page:        page,
		PageSize:    size,
		HasNextPage: crud.HasNext(len(unique), page, size),
	}, nil
}

// deptClauses builds one (company, department) clause per distinct ask pair.
// Asks missing either field cannot match and are skipped.
func deptClauses(asks []*models.Ask, q DeptQuery) []crud.Filter {
	wantCompany := strings.TrimSpace(q.CompanyName)
	wantDept := strings.TrimSpace(q.Dept)
	seen := map[[2]string]bool{}
	var out []crud.Filter
	for _, a := range asks {
		company := strings.TrimSpace(a.CompanyName)
		dept := strings.TrimSpace(a.Department)
		if company == "" || dept == "" {
			continue
		}
		if wantCompany != "" && !strings.EqualFold(company, wantCompany) {
			continue
		}
		if wantDept != "" && dept != wantDept {
			continue
		}
		key := [2]string{strings.ToLower(company), dept}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, crud.FoldAny(models.FieldCompanyName, company).With(models.FieldDepartment, dept))
	}
	return out
}

// owners loads the owning members of gives with a single lookup.
func (f *Finder) owners(ctx context.Context, gives []*models.Give) (map[primitive.ObjectID]*OwnerView, error) {
	out := map[primitive.ObjectID]*OwnerView{}
	var ids []any
	for _, g := range gives {
		if g.OwnerMemberID.IsZero() {
			continue
		}
		if _, ok := out[g.OwnerMemberID]; ok {
			continue
		}
		out[g.OwnerMemberID] = nil
		ids = append(ids, g.OwnerMemberID)
	}
	if len(ids) == 0 {
		return out, nil
	}
	members, err := f.members.Find(ctx, crud.Filter{In: map[string][]any{"_id": ids}}, crud.Page{})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, m := range members {
		out[m.ID] = &OwnerView{
			ID:           m.ID,
			FirstName:    m.FirstName,
			LastName:     m.LastName,
			Email:        m.Email,
			Phone:        m.Phone,
			CompanyName:  m.CompanyName,
			ProfileImage: m.ProfileImage,
		}
	}
	return out, nil
}
