package events

import "time"

// RejectReason is one reported rule failure, in evaluation order.
type RejectReason struct {
	Rule string `json:"rule"`
	Text string `json:"text"`
}

// ChargeOperationsAccepted confirms accepted operations of one command.
type ChargeOperationsAccepted struct {
	DocumentID     string    `json:"documentId"`
	SenderID       string    `json:"senderId"`
	BusinessReason string    `json:"businessReason"`
	ChargeID       string    `json:"chargeId"`
	OwnerID        string    `json:"ownerId"`
	ChargeType     string    `json:"chargeType"`
	OperationIDs   []string  `json:"operationIds"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// ChargeOperationsRejected reports rejected operations with ordered reasons.
type ChargeOperationsRejected struct {
	DocumentID     string         `json:"documentId"`
	SenderID       string         `json:"senderId"`
	BusinessReason string         `json:"businessReason"`
	ChargeID       string         `json:"chargeId"`
	OwnerID        string         `json:"ownerId"`
	ChargeType     string         `json:"chargeType"`
	OperationIDs   []string       `json:"operationIds"`
	Reasons        []RejectReason `json:"reasons"`
	OccurredAt     time.Time      `json:"occurredAt"`
}

// ChargePricesUpdated notifies downstream consumers that a charge's price
// series changed inside a period.
type ChargePricesUpdated struct {
	ChargeID      string    `json:"chargeId"`
	OwnerID       string    `json:"ownerId"`
	ChargeType    string    `json:"chargeType"`
	StartDateTime time.Time `json:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime"`
	PointCount    int       `json:"pointCount"`
	OccurredAt    time.Time `json:"occurredAt"`
}
