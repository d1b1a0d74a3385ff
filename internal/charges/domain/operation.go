package charges

import (
	"time"

	"github.com/shopspring/decimal"
)

// Point is one price value inside an operation's price series.
// Position is 1-based; Time is derived from the operation start,
// resolution and position by the document conversion layer.
type Point struct {
	Position int
	Price    decimal.Decimal
	Time     time.Time
}

// ChargeOperation is one atomic change inside a submitted document.
// It is immutable once constructed.
type ChargeOperation struct {
	OperationID            string
	SenderProvidedChargeID string
	OwnerID                string
	Type                   ChargeType
	Name                   string
	Description            string
	Resolution             Resolution
	VatClassification      VatClassification
	TaxIndicator           TaxIndicator
	TransparentInvoicing   TransparentInvoicing
	StartDateTime          time.Time
	EndDateTime            time.Time
	Points                 []Point
}

// Identity returns the charge identity tuple this operation targets.
func (o ChargeOperation) Identity() ChargeIdentity {
	return ChargeIdentity{
		SenderProvidedChargeID: o.SenderProvidedChargeID,
		OwnerID:                o.OwnerID,
		Type:                   o.Type,
	}
}

// PointCount returns the number of points carried by the operation.
func (o ChargeOperation) PointCount() int {
	return len(o.Points)
}
