package charges

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargeIdentity is the unique tuple identifying a charge.
type ChargeIdentity struct {
	SenderProvidedChargeID string
	OwnerID                string
	Type                   ChargeType
}

// ChargePoint is a persisted historical price point of a charge.
type ChargePoint struct {
	Time  time.Time
	Price decimal.Decimal
}

// Charge is the persisted charge aggregate. Identity never changes after
// creation; later accepted operations may add or retire points and periods.
type Charge struct {
	ID                   string
	Identity             ChargeIdentity
	Name                 string
	Description          string
	Resolution           Resolution
	VatClassification    VatClassification
	TaxIndicator         TaxIndicator
	TransparentInvoicing TransparentInvoicing
	StartDateTime        time.Time
	EndDateTime          time.Time
	Points               []ChargePoint
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewCharge creates a charge aggregate from the first accepted operation.
func NewCharge(id string, op ChargeOperation, now time.Time) (*Charge, error) {
	if id == "" {
		return nil, ErrNilOperation
	}
	points := make([]ChargePoint, 0, len(op.Points))
	for _, p := range op.Points {
		points = append(points, ChargePoint{Time: p.Time, Price: p.Price})
	}
	return &Charge{
		ID:                   id,
		Identity:             op.Identity(),
		Name:                 op.Name,
		Description:          op.Description,
		Resolution:           op.Resolution,
		VatClassification:    op.VatClassification,
		TaxIndicator:         op.TaxIndicator,
		TransparentInvoicing: op.TransparentInvoicing,
		StartDateTime:        op.StartDateTime,
		EndDateTime:          op.EndDateTime,
		Points:               points,
		CreatedAt:            now.UTC(),
		UpdatedAt:            now.UTC(),
	}, nil
}

// Apply folds an accepted update operation into the aggregate. Points in the
// operation's validity window replace the persisted points for that window;
// identity is left untouched.
func (c *Charge) Apply(op ChargeOperation, now time.Time) {
	c.Name = op.Name
	c.Description = op.Description
	c.VatClassification = op.VatClassification
	c.TransparentInvoicing = op.TransparentInvoicing
	if op.EndDateTime.After(c.EndDateTime) {
		c.EndDateTime = op.EndDateTime
	}

	kept := c.Points[:0]
	for _, p := range c.Points {
		if p.Time.Before(op.StartDateTime) || !p.Time.Before(op.EndDateTime) {
			kept = append(kept, p)
		}
	}
	c.Points = kept
	for _, p := range op.Points {
		c.Points = append(c.Points, ChargePoint{Time: p.Time, Price: p.Price})
	}
	c.UpdatedAt = now.UTC()
}

// PointsInPeriod returns persisted points with time in [from, to).
func (c *Charge) PointsInPeriod(from, to time.Time) []ChargePoint {
	var out []ChargePoint
	for _, p := range c.Points {
		if !p.Time.Before(from) && p.Time.Before(to) {
			out = append(out, p)
		}
	}
	return out
}
