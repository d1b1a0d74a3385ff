package charges

import "time"

// Sender identifies the market actor that submitted a document.
type Sender struct {
	ID   string
	Role MarketParticipantRole
}

// Document is the envelope metadata of a submitted charge document.
type Document struct {
	ID             string
	Type           string
	BusinessReason BusinessReasonCode
	Sender         Sender
	CreatedAt      time.Time
}

// ChargeCommand groups the operations of one document that target a single
// charge identity tuple.
type ChargeCommand struct {
	Document   Document
	Operations []ChargeOperation
}

// NewChargeCommand builds a command and enforces that every operation shares
// the same charge identity tuple.
func NewChargeCommand(doc Document, operations []ChargeOperation) (*ChargeCommand, error) {
	if len(operations) == 0 {
		return nil, ErrNilOperation
	}
	identity := operations[0].Identity()
	for _, op := range operations[1:] {
		if op.Identity() != identity {
			return nil, ErrMixedChargeIdentity
		}
	}
	return &ChargeCommand{Document: doc, Operations: operations}, nil
}

// Identity returns the charge identity tuple shared by all operations.
func (c *ChargeCommand) Identity() ChargeIdentity {
	return c.Operations[0].Identity()
}
