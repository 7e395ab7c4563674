package companies

import (
	"context"
	"errors"
	"testing"

	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type fixture struct {
	asks      *crud.MemoryRepo[*models.Ask]
	gives     *crud.MemoryRepo[*models.Give]
	companies *crud.Service[*models.Company]
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		asks:      crud.NewMemoryRepo[*models.Ask](),
		gives:     crud.NewMemoryRepo[*models.Give](),
		companies: crud.NewService[*models.Company]("company", crud.NewMemoryRepo[*models.Company]()),
	}
	f.companies.OnUpdate(NewPropagator(f.asks, f.gives).Hook())
	return f
}

func (f fixture) seed(t *testing.T, names ...string) {
	t.Helper()
	ctx := context.Background()
	for _, n := range names {
		require.NoError(t, f.asks.Create(ctx, &models.Ask{CompanyName: n, Department: "Sales"}))
		require.NoError(t, f.gives.Create(ctx, &models.Give{CompanyName: n}))
	}
}

func (f fixture) count(t *testing.T, name string) (int64, int64) {
	t.Helper()
	ctx := context.Background()
	a, err := f.asks.Count(ctx, crud.Where(models.FieldCompanyName, name))
	require.NoError(t, err)
	g, err := f.gives.Count(ctx, crud.Where(models.FieldCompanyName, name))
	require.NoError(t, err)
	return a, g
}

func TestRenamePropagatesExactMatchesOnly(t *testing.T) {
	for _, tc := range []struct {
		name, from, to string
		others         []string
	}{
		{"short", "IBM", "IBM Corp", []string{"IBMX", "I.B.M"}},
		{"long", "International Widgets", "Global Widgets", []string{"International Widgets Ltd", "International"}},
		{"regex chars", "A+B (UK)", "AB UK", []string{"AAB (UK)", "A+B"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			c, err := f.companies.Create(ctx, &models.Company{Name: tc.from})
			require.NoError(t, err)
			f.seed(t, tc.from, tc.from)
			f.seed(t, tc.others...)

			_, extras, err := f.companies.Update(ctx, c.ID.Hex(), bson.M{"name": tc.to})
			require.NoError(t, err)
			require.Equal(t, Counts{Asks: 2, Gives: 2}, extras["propagated"])

			a, g := f.count(t, tc.to)
			require.EqualValues(t, 2, a)
			require.EqualValues(t, 2, g)
			for _, o := range tc.others {
				a, g := f.count(t, o)
				require.EqualValues(t, 1, a, o)
				require.EqualValues(t, 1, g, o)
			}
		})
	}
}

func TestRenameCaseOnlyKeepsReferencesMatchable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.companies.Create(ctx, &models.Company{Name: "acme"})
	require.NoError(t, err)
	f.seed(t, "acme", "ACME", "Acme")

	_, extras, err := f.companies.Update(ctx, c.ID.Hex(), bson.M{"name": "Acme"})
	require.NoError(t, err)
	// the one already spelled "Acme" is left alone
	require.Equal(t, Counts{Asks: 2, Gives: 2}, extras["propagated"])

	a, g := f.count(t, "Acme")
	require.EqualValues(t, 3, a)
	require.EqualValues(t, 3, g)

	n, err := f.asks.Count(ctx, crud.FoldAny(models.FieldCompanyName, "ACME"))
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestRenameNoopWhenNameUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.companies.Create(ctx, &models.Company{Name: "Acme", Description: "x"})
	require.NoError(t, err)
	f.seed(t, "acme")

	_, extras, err := f.companies.Update(ctx, c.ID.Hex(), bson.M{"description": "y"})
	require.NoError(t, err)
	require.NotContains(t, extras, "propagated")
	a, _ := f.count(t, "acme")
	require.EqualValues(t, 1, a)
}

func TestRenameDirect(t *testing.T) {
	f := newFixture(t)
	p := NewPropagator(f.asks, f.gives)
	c, err := p.Rename(context.Background(), "  ", "x")
	require.NoError(t, err)
	require.Equal(t, Counts{}, c)
}

type brokenGives struct {
	*crud.MemoryRepo[*models.Give]
}

func (brokenGives) RewriteFold(context.Context, string, string, string) (int64, error) {
	return 0, errors.New("gives unavailable")
}

func TestRenameReportsPartialPropagation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	companies := crud.NewService[*models.Company]("company", crud.NewMemoryRepo[*models.Company]())
	companies.OnUpdate(NewPropagator(f.asks, brokenGives{f.gives}).Hook())
	c, err := companies.Create(ctx, &models.Company{Name: "Acme"})
	require.NoError(t, err)
	f.seed(t, "Acme")

	after, extras, err := companies.Update(ctx, c.ID.Hex(), bson.M{"name": "Acme Holdings"})
	require.NoError(t, err)
	require.Equal(t, "Acme Holdings", after.Name)
	require.Equal(t, Counts{Asks: 1}, extras["propagated"])
	require.Equal(t, true, extras["propagationFailed"])

	a, g := f.count(t, "Acme Holdings")
	require.EqualValues(t, 1, a)
	require.EqualValues(t, 0, g)

	n, err := NewPropagator(f.asks, brokenGives{f.gives}).Rename(ctx, "Acme Holdings", "Acme")
	require.Error(t, err)
	require.Equal(t, Counts{Asks: 1}, n)
}
