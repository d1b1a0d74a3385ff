package application

import (
	"context"
	"errors"

	"charges-hub/internal/charges/application/events"
	charges "charges-hub/internal/charges/domain"
	"charges-hub/internal/charges/domain/validation"
)

// EventPublisher dispatches integration events. Dispatch failures propagate
// to the caller's retry policy.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// RejectedOperation pairs an operation with its failed validation result.
type RejectedOperation struct {
	Operation charges.ChargeOperation
	Result    validation.ValidationResult
}

// ReceiptService turns validation outcomes into accepted/rejected events for
// the document sender.
type ReceiptService struct {
	publisher EventPublisher
	clock     validation.Clock
}

// NewReceiptService constructs the service.
func NewReceiptService(publisher EventPublisher, clock validation.Clock) (*ReceiptService, error) {
	if publisher == nil {
		return nil, errors.New("receipt service: nil publisher")
	}
	if clock == nil {
		clock = validation.SystemClock{}
	}
	return &ReceiptService{publisher: publisher, clock: clock}, nil
}

// Accept dispatches an accepted event covering the whole command.
func (s *ReceiptService) Accept(ctx context.Context, cmd *charges.ChargeCommand) error {
	if cmd == nil {
		return charges.ErrNilCommand
	}
	return s.AcceptValidOperations(ctx, cmd, cmd.Operations)
}

// Reject dispatches a rejected event covering the whole command.
func (s *ReceiptService) Reject(ctx context.Context, cmd *charges.ChargeCommand, result validation.ValidationResult) error {
	if cmd == nil {
		return charges.ErrNilCommand
	}
	rejected := make([]RejectedOperation, 0, len(cmd.Operations))
	for _, op := range cmd.Operations {
		rejected = append(rejected, RejectedOperation{Operation: op, Result: result})
	}
	return s.RejectInvalidOperations(ctx, cmd, rejected)
}

// AcceptValidOperations dispatches one accepted event for the given
// operations. Nothing is dispatched when there is nothing to confirm.
func (s *ReceiptService) AcceptValidOperations(ctx context.Context, cmd *charges.ChargeCommand, operations []charges.ChargeOperation) error {
	if cmd == nil {
		return charges.ErrNilCommand
	}
	if len(operations) == 0 {
		return nil
	}

	identity := operations[0].Identity()
	event := events.ChargeOperationsAccepted{
		DocumentID:     cmd.Document.ID,
		SenderID:       cmd.Document.Sender.ID,
		BusinessReason: string(cmd.Document.BusinessReason),
		ChargeID:       identity.SenderProvidedChargeID,
		OwnerID:        identity.OwnerID,
		ChargeType:     string(identity.Type),
		OperationIDs:   operationIDs(operations),
		OccurredAt:     s.clock.Now().UTC(),
	}
	return s.publisher.Publish(ctx, event)
}

// RejectInvalidOperations dispatches one rejected event carrying every
// failed rule's reason in evaluation order. Nothing is dispatched when the
// input is empty.
func (s *ReceiptService) RejectInvalidOperations(ctx context.Context, cmd *charges.ChargeCommand, rejected []RejectedOperation) error {
	if cmd == nil {
		return charges.ErrNilCommand
	}
	if len(rejected) == 0 {
		return nil
	}

	identity := rejected[0].Operation.Identity()
	ids := make([]string, 0, len(rejected))
	var reasons []events.RejectReason
	for _, r := range rejected {
		ids = append(ids, r.Operation.OperationID)
		reasons = append(reasons, RejectReasons(r.Result)...)
	}

	event := events.ChargeOperationsRejected{
		DocumentID:     cmd.Document.ID,
		SenderID:       cmd.Document.Sender.ID,
		BusinessReason: string(cmd.Document.BusinessReason),
		ChargeID:       identity.SenderProvidedChargeID,
		OwnerID:        identity.OwnerID,
		ChargeType:     string(identity.Type),
		OperationIDs:   ids,
		Reasons:        reasons,
		OccurredAt:     s.clock.Now().UTC(),
	}
	return s.publisher.Publish(ctx, event)
}

// RejectReasons renders a validation result into receipt reasons, keeping
// rule evaluation order.
func RejectReasons(result validation.ValidationResult) []events.RejectReason {
	violations := result.Violations()
	reasons := make([]events.RejectReason, 0, len(violations))
	for _, v := range violations {
		reasons = append(reasons, events.RejectReason{
			Rule: string(v.Rule),
			Text: v.Error.Text(),
		})
	}
	return reasons
}

func operationIDs(operations []charges.ChargeOperation) []string {
	ids := make([]string, 0, len(operations))
	for _, op := range operations {
		ids = append(ids, op.OperationID)
	}
	return ids
}
