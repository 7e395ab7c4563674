// Package companies keeps Ask and Give company names in step with renamed
// Company records.
package companies

import (
	"context"
	"errors"
	"strings"

	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/bizlink/bizlink-admin/pkg/metrics"
)

// Counts is the number of documents rewritten per collection.
type Counts struct {
	Asks  int64 `json:"asks"`
	Gives int64 `json:"gives"`
}

// Propagator rewrites companyName on Asks and Gives. Only exact,
// case-insensitive matches of the old name are touched.
type Propagator struct {
	asks  crud.Repository[*models.Ask]
	gives crud.Repository[*models.Give]
}

func NewPropagator(asks crud.Repository[*models.Ask], gives crud.Repository[*models.Give]) *Propagator {
	return &Propagator{asks: asks, gives: gives}
}

// Rename rewrites every reference to from as to. Blank names and unchanged
// names are no-ops; a case-only change still rewrites so stored casing follows
// the company record. Both collections are attempted even if one fails; the
// returned counts cover whatever was rewritten.
func (p *Propagator) Rename(ctx context.Context, from, to string) (Counts, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	var c Counts
	if from == "" || to == "" || from == to {
		return c, nil
	}
	asks, askErr := p.asks.RewriteFold(ctx, models.FieldCompanyName, from, to)
	gives, giveErr := p.gives.RewriteFold(ctx, models.FieldCompanyName, from, to)
	c.Asks, c.Gives = asks, gives
	metrics.RenamePropagated.WithLabelValues("asks").Add(float64(c.Asks))
	metrics.RenamePropagated.WithLabelValues("gives").Add(float64(c.Gives))
	if err := errors.Join(askErr, giveErr); err != nil {
		logger.Errorw("company rename partially propagated", "from", from, "to", to, "asks", c.Asks, "gives", c.Gives, "error", err)
		return c, err
	}
	logger.Infow("company renamed", "from", from, "to", to, "asks", c.Asks, "gives", c.Gives)
	return c, nil
}

// Hook adapts Rename to the company service's update hook; the counts are
// returned to the client under "propagated". The company update has already
// been stored when the hook runs, so a propagation failure is reported with
// "propagationFailed" rather than failing the request.
func (p *Propagator) Hook() crud.UpdateHook[*models.Company] {
	return func(ctx context.Context, before, after *models.Company) (map[string]any, error) {
		if before == nil || after == nil || before.Name == after.Name {
			return nil, nil
		}
		c, err := p.Rename(ctx, before.Name, after.Name)
		out := map[string]any{"propagated": c}
		if err != nil {
			out["propagationFailed"] = true
		}
		return out, nil
	}
}
