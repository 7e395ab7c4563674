package matching

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/bizlink/bizlink-admin/internal/apperr"
	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type world struct {
	asks    *crud.MemoryRepo[*models.Ask]
	gives   *crud.MemoryRepo[*models.Give]
	members *crud.MemoryRepo[*models.Member]
	finder  *Finder
	clock   time.Time
	me      primitive.ObjectID
	other   *models.Member
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{
		asks:    crud.NewMemoryRepo[*models.Ask](),
		gives:   crud.NewMemoryRepo[*models.Give](),
		members: crud.NewMemoryRepo[*models.Member](),
		clock:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		me:      primitive.NewObjectID(),
	}
	w.finder = NewFinder(w.asks, w.gives, w.members)
	w.other = &models.Member{FirstName: "Giver", LastName: "One", Email: "giver@example.com"}
	require.NoError(t, w.members.Create(context.Background(), w.other))
	return w
}

func (w *world) tick() time.Time {
	w.clock = w.clock.Add(time.Minute)
	return w.clock
}

func (w *world) ask(t *testing.T, company, dept string) {
	t.Helper()
	a := &models.Ask{CompanyName: company, Department: dept, OwnerMemberID: w.me}
	a.CreatedAt = w.tick()
	require.NoError(t, w.asks.Create(context.Background(), a))
}

func (w *world) give(t *testing.T, company, dept string) *models.Give {
	t.Helper()
	g := &models.Give{CompanyName: company, Department: dept, OwnerMemberID: w.other.ID}
	g.CreatedAt = w.tick()
	require.NoError(t, w.gives.Create(context.Background(), g))
	return g
}

func TestGrouped_NoAsks(t *testing.T) {
	w := newWorld(t)
	_, err := w.finder.Grouped(context.Background(), w.me, 1, 5)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	require.Equal(t, "no asks found", apperr.As(err).Message())
}

func TestGrouped_InvalidMember(t *testing.T) {
	w := newWorld(t)
	_, err := w.finder.Grouped(context.Background(), primitive.NilObjectID, 1, 5)
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGrouped_AsksWithoutCompanyAreIgnored(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "  ", "Sales")
	w.give(t, "", "Sales")
	_, err := w.finder.Grouped(context.Background(), w.me, 1, 5)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	require.Equal(t, "no match found", apperr.As(err).Message())
}

func TestGrouped_NoMatchingGives(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "Acme", "Sales")
	w.give(t, "Acme Ltd", "Sales")
	_, err := w.finder.Grouped(context.Background(), w.me, 1, 5)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGrouped_CaseInsensitiveSingleMatch(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "Acme Corp", "Sales")
	g := w.give(t, "ACME CORP", "IT")

	res, err := w.finder.Grouped(context.Background(), w.me, 1, 5)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	require.Len(t, res.Matches[0].Gives, 1)
	require.Equal(t, g.ID, res.Matches[0].Gives[0].ID)
	require.Equal(t, 1, res.Total)
	require.False(t, res.HasNextPage)

	owner := res.Matches[0].Gives[0].Owner
	require.NotNil(t, owner)
	require.Equal(t, "giver@example.com", owner.Email)
}

func TestGrouped_DisplayCasingFromFirstGive(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "acme", "")
	w.give(t, "Acme", "")
	w.give(t, "ACME", "")

	res, err := w.finder.Grouped(context.Background(), w.me, 1, 5)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	require.Equal(t, "Acme", res.Matches[0].CompanyName)
	require.Len(t, res.Matches[0].Gives, 2)
}

func TestGrouped_RegexCharactersAreLiteral(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "A.B (Holdings)", "")
	w.give(t, "AxB (Holdings)", "")
	_, err := w.finder.Grouped(context.Background(), w.me, 1, 5)
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	w.give(t, "a.b (holdings)", "")
	res, err := w.finder.Grouped(context.Background(), w.me, 1, 5)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
}

func TestGrouped_OrderAndPagination(t *testing.T) {
	w := newWorld(t)
	companies := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta"}
	for _, c := range companies {
		w.ask(t, c, "")
	}
	// duplicate ask spelling must not duplicate groups
	w.ask(t, "ALPHA", "")
	for _, c := range companies {
		w.give(t, c, "")
	}
	// a later give joins an existing group without moving it
	w.give(t, "alpha", "")

	const size = 3
	var all []string
	for page := 1; ; page++ {
		res, err := w.finder.Grouped(context.Background(), w.me, page, size)
		require.NoError(t, err)
		require.Equal(t, len(companies), res.Total)
		require.Equal(t, res.Total > page*size, res.HasNextPage)
		for _, g := range res.Matches {
			all = append(all, g.CompanyName)
		}
		if !res.HasNextPage {
			break
		}
	}
	require.Equal(t, []string{"Eta", "Zeta", "Epsilon", "Delta", "Gamma", "Beta", "Alpha"}, all)

	// past the end: empty page, not an error
	res, err := w.finder.Grouped(context.Background(), w.me, 10, size)
	require.NoError(t, err)
	require.Empty(t, res.Matches)
	require.False(t, res.HasNextPage)
}

func TestHugePageIsEmpty(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "Acme", "Sales")
	w.give(t, "Acme", "Sales")

	for _, page := range []int{2305843009213693953, math.MaxInt} {
		res, err := w.finder.Grouped(context.Background(), w.me, page, 5)
		require.NoError(t, err)
		require.Empty(t, res.Matches)
		require.Equal(t, 1, res.Total)
		require.False(t, res.HasNextPage)

		dept, err := w.finder.ByCompanyAndDept(context.Background(), w.me, DeptQuery{}, page, 5)
		require.NoError(t, err)
		require.Empty(t, dept.Gives)
		require.Equal(t, 1, dept.Total)
		require.False(t, dept.HasNextPage)
	}
}

func TestGrouped_DefaultPageSize(t *testing.T) {
	w := newWorld(t)
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("Company %d", i)
		w.ask(t, name, "")
		w.give(t, name, "")
	}
	res, err := w.finder.Grouped(context.Background(), w.me, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Page)
	require.Equal(t, DefaultPageSize, res.PageSize)
	require.Len(t, res.Matches, DefaultPageSize)
	require.True(t, res.HasNextPage)
}

func TestGrouped_MissingOwnerIsNil(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "Acme", "")
	g := &models.Give{CompanyName: "Acme", OwnerMemberID: primitive.NewObjectID()}
	require.NoError(t, w.gives.Create(context.Background(), g))

	res, err := w.finder.Grouped(context.Background(), w.me, 1, 5)
	require.NoError(t, err)
	require.Nil(t, res.Matches[0].Gives[0].Owner)
}

func TestByCompanyAndDept_FiltersOnDepartment(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "Acme", "Sales")
	w.ask(t, "Globex", "")
	hit := w.give(t, "ACME", "Sales")
	w.give(t, "Acme", "IT")
	w.give(t, "Acme", "sales")
	w.give(t, "Globex", "Sales")

	res, err := w.finder.ByCompanyAndDept(context.Background(), w.me, DeptQuery{}, 1, 5)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	require.Equal(t, hit.ID, res.Gives[0].ID)
	require.NotNil(t, res.Gives[0].Owner)
}

func TestByCompanyAndDept_DedupByGiveID(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "Acme", "Sales")
	w.ask(t, "ACME", "Sales")
	w.ask(t, "acme", "Sales")
	w.ask(t, "Acme", "IT")
	w.give(t, "Acme", "Sales")
	w.give(t, "acme", "IT")
	w.give(t, "Acme", "Sales")

	res, err := w.finder.ByCompanyAndDept(context.Background(), w.me, DeptQuery{}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)
	seen := map[primitive.ObjectID]bool{}
	for _, g := range res.Gives {
		require.False(t, seen[g.ID], "duplicate give %s", g.ID.Hex())
		seen[g.ID] = true
	}
	// newest first
	for i := 1; i < len(res.Gives); i++ {
		require.False(t, res.Gives[i].CreatedAt.After(res.Gives[i-1].CreatedAt))
	}
}

func TestByCompanyAndDept_QueryNarrowsAsks(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "Acme", "Sales")
	w.ask(t, "Globex", "IT")
	w.give(t, "Acme", "Sales")
	w.give(t, "Globex", "IT")

	res, err := w.finder.ByCompanyAndDept(context.Background(), w.me, DeptQuery{CompanyName: "globex"}, 1, 5)
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	require.Equal(t, "Globex", res.Gives[0].CompanyName)

	res, err = w.finder.ByCompanyAndDept(context.Background(), w.me, DeptQuery{Dept: "Sales"}, 1, 5)
	require.NoError(t, err)
	require.Equal(t, "Acme", res.Gives[0].CompanyName)

	_, err = w.finder.ByCompanyAndDept(context.Background(), w.me, DeptQuery{CompanyName: "Initech"}, 1, 5)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestByCompanyAndDept_Pagination(t *testing.T) {
	w := newWorld(t)
	w.ask(t, "Acme", "Sales")
	for i := 0; i < 7; i++ {
		w.give(t, "Acme", "Sales")
	}
	var ids []primitive.ObjectID
	for page := 1; page <= 3; page++ {
		res, err := w.finder.ByCompanyAndDept(context.Background(), w.me, DeptQuery{}, page, 3)
		require.NoError(t, err)
		require.Equal(t, 7 > page*3, res.HasNextPage)
		for _, g := range res.Gives {
			ids = append(ids, g.ID)
		}
	}
	require.Len(t, ids, 7)
}

func TestByCompanyAndDept_NoAsks(t *testing.T) {
	w := newWorld(t)
	_, err := w.finder.ByCompanyAndDept(context.Background(), w.me, DeptQuery{}, 1, 5)
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	require.Equal(t, "no asks found", apperr.As(err).Message())
}

func TestDeptClausesBatchDistinctPairs(t *testing.T) {
	asks := []*models.Ask{
		{CompanyName: "Acme", Department: "Sales"},
		{CompanyName: "ACME ", Department: " Sales"},
		{CompanyName: "Acme", Department: ""},
		{CompanyName: "Globex", Department: "IT"},
	}
	require.Len(t, deptClauses(asks, DeptQuery{}), 2)
}
