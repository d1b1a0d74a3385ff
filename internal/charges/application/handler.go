package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"

	"charges-hub/internal/charges/application/events"
	charges "charges-hub/internal/charges/domain"
	"charges-hub/internal/charges/domain/validation"
	"charges-hub/internal/observability/metrics"
)

// OperationOutcome is the per-operation entry of a synchronous receipt.
type OperationOutcome struct {
	OperationID string                `json:"operationId"`
	Status      string                `json:"status"`
	Reasons     []events.RejectReason `json:"reasons,omitempty"`
}

// Receipt summarises how a command was handled, returned to the transport
// so the sender gets a synchronous answer in addition to the events.
type Receipt struct {
	DocumentID string             `json:"documentId"`
	Accepted   int                `json:"accepted"`
	Rejected   int                `json:"rejected"`
	Outcomes   []OperationOutcome `json:"outcomes"`
}

const (
	outcomeStatusAccepted = "Accepted"
	outcomeStatusRejected = "Rejected"
)

// ChargeCommandHandler drives a command through the two-phase validation
// pipeline: input rules first, then business rules per operation, then
// persistence and receipts. Received commands always end Accepted or
// Rejected; there is no retry state here.
type ChargeCommandHandler struct {
	documents *DocumentValidator
	input     *OperationValidator
	prices    *PriceOperationValidator
	business  *BusinessValidator
	repo      charges.Repository
	receipts  *ReceiptService
	publisher EventPublisher
	clock     validation.Clock
	logger    *log.Logger
}

// NewChargeCommandHandler constructs the handler.
func NewChargeCommandHandler(
	documents *DocumentValidator,
	input *OperationValidator,
	prices *PriceOperationValidator,
	business *BusinessValidator,
	repo charges.Repository,
	receipts *ReceiptService,
	publisher EventPublisher,
	clock validation.Clock,
	logger *log.Logger,
) (*ChargeCommandHandler, error) {
	if documents == nil || input == nil || prices == nil || business == nil {
		return nil, errors.New("charge command handler: nil validator")
	}
	if repo == nil {
		return nil, errors.New("charge command handler: nil repository")
	}
	if receipts == nil {
		return nil, errors.New("charge command handler: nil receipt service")
	}
	if clock == nil {
		clock = validation.SystemClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ChargeCommandHandler{
		documents: documents,
		input:     input,
		prices:    prices,
		business:  business,
		repo:      repo,
		receipts:  receipts,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}, nil
}

// Handle validates, persists and confirms one command.
func (h *ChargeCommandHandler) Handle(ctx context.Context, cmd *charges.ChargeCommand) (Receipt, error) {
	if cmd == nil {
		return Receipt{}, charges.ErrNilCommand
	}

	inputStarted := h.clock.Now()
	docResult, err := h.documents.Validate(&cmd.Document)
	if err != nil {
		return Receipt{}, err
	}
	if docResult.IsFailed() {
		metrics.ObserveValidation(metrics.PhaseInput, h.clock.Now().Sub(inputStarted))
		return h.rejectAll(ctx, cmd, docResult)
	}

	var accepted []charges.ChargeOperation
	var rejected []RejectedOperation

	pending := make([]charges.ChargeOperation, 0, len(cmd.Operations))
	for i := range cmd.Operations {
		op := cmd.Operations[i]
		result, err := h.validateInput(&op, cmd.Document.BusinessReason)
		if err != nil {
			return Receipt{}, err
		}
		if result.IsFailed() {
			countRuleFailures(result)
			rejected = append(rejected, RejectedOperation{Operation: op, Result: result})
			continue
		}
		pending = append(pending, op)
	}
	metrics.ObserveValidation(metrics.PhaseInput, h.clock.Now().Sub(inputStarted))

	businessStarted := h.clock.Now()
	for i := range pending {
		op := pending[i]
		result, err := h.business.Validate(ctx, &op)
		if err != nil {
			return Receipt{}, err
		}
		if result.IsFailed() {
			countRuleFailures(result)
			rejected = append(rejected, RejectedOperation{Operation: op, Result: result})
			continue
		}
		if err := h.persist(ctx, op); err != nil {
			return Receipt{}, err
		}
		accepted = append(accepted, op)
	}
	metrics.ObserveValidation(metrics.PhaseBusiness, h.clock.Now().Sub(businessStarted))

	if err := h.receipts.AcceptValidOperations(ctx, cmd, accepted); err != nil {
		return Receipt{}, err
	}
	if len(accepted) > 0 {
		metrics.IncReceipt(metrics.OutcomeAccepted)
	}
	if err := h.receipts.RejectInvalidOperations(ctx, cmd, rejected); err != nil {
		return Receipt{}, err
	}
	if len(rejected) > 0 {
		metrics.IncReceipt(metrics.OutcomeRejected)
	}

	if err := h.publishPricesUpdated(ctx, cmd, accepted); err != nil {
		return Receipt{}, err
	}

	for range accepted {
		metrics.IncOperationOutcome(metrics.OutcomeAccepted)
	}
	for range rejected {
		metrics.IncOperationOutcome(metrics.OutcomeRejected)
	}

	return buildReceipt(cmd, accepted, rejected), nil
}

// validateInput picks the input rule list by business reason: price-update
// documents only carry price series, so the master data rules do not apply.
func (h *ChargeCommandHandler) validateInput(op *charges.ChargeOperation, reason charges.BusinessReasonCode) (validation.ValidationResult, error) {
	if reason == charges.BusinessReasonUpdateChargePrices {
		return h.prices.Validate(op)
	}
	return h.input.Validate(op)
}

func (h *ChargeCommandHandler) rejectAll(ctx context.Context, cmd *charges.ChargeCommand, result validation.ValidationResult) (Receipt, error) {
	countRuleFailures(result)
	if err := h.receipts.Reject(ctx, cmd, result); err != nil {
		return Receipt{}, err
	}
	metrics.IncReceipt(metrics.OutcomeRejected)

	rejected := make([]RejectedOperation, 0, len(cmd.Operations))
	for _, op := range cmd.Operations {
		metrics.IncOperationOutcome(metrics.OutcomeRejected)
		rejected = append(rejected, RejectedOperation{Operation: op, Result: result})
	}
	return buildReceipt(cmd, nil, rejected), nil
}

// persist creates the aggregate on first acceptance and folds later
// operations into it.
func (h *ChargeCommandHandler) persist(ctx context.Context, op charges.ChargeOperation) error {
	now := h.clock.Now()
	existing, err := h.repo.GetByIdentity(ctx, op.Identity())
	if err != nil && !errors.Is(err, charges.ErrChargeNotFound) {
		return err
	}
	if existing == nil {
		charge, err := charges.NewCharge(newChargeID(), op, now)
		if err != nil {
			return err
		}
		return h.repo.Save(ctx, charge)
	}
	existing.Apply(op, now)
	return h.repo.Save(ctx, existing)
}

func (h *ChargeCommandHandler) publishPricesUpdated(ctx context.Context, cmd *charges.ChargeCommand, accepted []charges.ChargeOperation) error {
	if h.publisher == nil || len(accepted) == 0 {
		return nil
	}
	if cmd.Document.BusinessReason != charges.BusinessReasonUpdateChargePrices {
		return nil
	}
	for _, op := range accepted {
		event := events.ChargePricesUpdated{
			ChargeID:      op.SenderProvidedChargeID,
			OwnerID:       op.OwnerID,
			ChargeType:    string(op.Type),
			StartDateTime: op.StartDateTime,
			EndDateTime:   op.EndDateTime,
			PointCount:    op.PointCount(),
			OccurredAt:    h.clock.Now().UTC(),
		}
		if err := h.publisher.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func buildReceipt(cmd *charges.ChargeCommand, accepted []charges.ChargeOperation, rejected []RejectedOperation) Receipt {
	receipt := Receipt{
		DocumentID: cmd.Document.ID,
		Accepted:   len(accepted),
		Rejected:   len(rejected),
	}
	for _, op := range accepted {
		receipt.Outcomes = append(receipt.Outcomes, OperationOutcome{
			OperationID: op.OperationID,
			Status:      outcomeStatusAccepted,
		})
	}
	for _, r := range rejected {
		receipt.Outcomes = append(receipt.Outcomes, OperationOutcome{
			OperationID: r.Operation.OperationID,
			Status:      outcomeStatusRejected,
			Reasons:     RejectReasons(r.Result),
		})
	}
	return receipt
}

func countRuleFailures(result validation.ValidationResult) {
	for _, v := range result.Violations() {
		metrics.IncRuleFailure(string(v.Rule))
	}
}

func newChargeID() string {
	var buf [16]byte
	_, _ = rand.Read(buf[:])
	return "charge-" + hex.EncodeToString(buf[:])
}
