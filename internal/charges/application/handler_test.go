package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"charges-hub/internal/charges/application/events"
	charges "charges-hub/internal/charges/domain"
	"charges-hub/internal/charges/domain/validation"
	"charges-hub/internal/charges/infrastructure/memory"
)

func newTestHandler(t *testing.T, repo charges.Repository, publisher EventPublisher, now time.Time) *ChargeCommandHandler {
	t.Helper()

	factory := validation.NewInputRulesFactory()
	documents, err := NewDocumentValidator(factory)
	if err != nil {
		t.Fatalf("document validator: %v", err)
	}
	input, err := NewOperationValidator(factory)
	if err != nil {
		t.Fatalf("operation validator: %v", err)
	}
	prices, err := NewPriceOperationValidator(factory)
	if err != nil {
		t.Fatalf("price validator: %v", err)
	}
	businessFactory, err := validation.NewBusinessRulesFactory(repo, validation.DefaultRulesConfiguration(), fixedClock{now: now})
	if err != nil {
		t.Fatalf("business rules factory: %v", err)
	}
	business, err := NewBusinessValidator(businessFactory)
	if err != nil {
		t.Fatalf("business validator: %v", err)
	}
	receipts, err := NewReceiptService(publisher, fixedClock{now: now})
	if err != nil {
		t.Fatalf("receipt service: %v", err)
	}
	handler, err := NewChargeCommandHandler(documents, input, prices, business, repo, receipts, publisher, fixedClock{now: now}, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	return handler
}

func feeOperation(opID string, start time.Time) charges.ChargeOperation {
	return charges.ChargeOperation{
		OperationID:            opID,
		SenderProvidedChargeID: "FEE-001",
		OwnerID:                "5790001330552",
		Type:                   charges.ChargeTypeFee,
		Name:                   "Connection fee",
		Resolution:             charges.ResolutionP1D,
		VatClassification:      charges.VatClassificationVat25,
		TaxIndicator:           charges.TaxIndicatorNoTax,
		TransparentInvoicing:   charges.TransparentInvoicingTransparent,
		StartDateTime:          start,
		EndDateTime:            start.Add(24 * time.Hour),
		Points: []charges.Point{
			{Position: 1, Price: decimal.NewFromFloat(12.50), Time: start},
		},
	}
}

func commandWithReason(t *testing.T, reason charges.BusinessReasonCode, operations ...charges.ChargeOperation) *charges.ChargeCommand {
	t.Helper()
	doc := charges.Document{
		ID:             "doc-1",
		Type:           "RequestChangeOfPriceList",
		BusinessReason: reason,
		Sender:         charges.Sender{ID: "5790001330552", Role: charges.RoleGridAccessProvider},
	}
	cmd, err := charges.NewChargeCommand(doc, operations)
	if err != nil {
		t.Fatalf("new command: %v", err)
	}
	return cmd
}

func TestHandleAcceptsValidOperationAndPersists(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo := memory.NewChargeRepository()
	publisher := &capturingPublisher{}
	handler := newTestHandler(t, repo, publisher, now)

	op := feeOperation("op-1", start)
	receipt, err := handler.Handle(context.Background(), commandWithReason(t, charges.BusinessReasonUpdateChargeInformation, op))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if receipt.Accepted != 1 || receipt.Rejected != 0 {
		t.Fatalf("receipt accepted=%d rejected=%d, want 1/0", receipt.Accepted, receipt.Rejected)
	}
	if len(receipt.Outcomes) != 1 || receipt.Outcomes[0].Status != outcomeStatusAccepted {
		t.Fatalf("unexpected outcomes: %+v", receipt.Outcomes)
	}

	stored, err := repo.GetByIdentity(context.Background(), op.Identity())
	if err != nil {
		t.Fatalf("get by identity: %v", err)
	}
	if stored.Identity.SenderProvidedChargeID != "FEE-001" || len(stored.Points) != 1 {
		t.Fatalf("unexpected stored charge: %+v", stored)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("got %d events, want 1", len(publisher.published))
	}
	if _, ok := publisher.published[0].(events.ChargeOperationsAccepted); !ok {
		t.Fatalf("unexpected event type %T", publisher.published[0])
	}
}

func TestHandlePartitionsAcceptedAndRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo := memory.NewChargeRepository()
	publisher := &capturingPublisher{}
	handler := newTestHandler(t, repo, publisher, now)

	good := feeOperation("op-1", start)
	bad := feeOperation("op-2", start)
	bad.VatClassification = charges.VatClassification("Vat50")

	receipt, err := handler.Handle(context.Background(), commandWithReason(t, charges.BusinessReasonUpdateChargeInformation, good, bad))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if receipt.Accepted != 1 || receipt.Rejected != 1 {
		t.Fatalf("receipt accepted=%d rejected=%d, want 1/1", receipt.Accepted, receipt.Rejected)
	}

	var rejectedOutcome *OperationOutcome
	for i := range receipt.Outcomes {
		if receipt.Outcomes[i].OperationID == "op-2" {
			rejectedOutcome = &receipt.Outcomes[i]
		}
	}
	if rejectedOutcome == nil || rejectedOutcome.Status != outcomeStatusRejected {
		t.Fatalf("op-2 not rejected: %+v", receipt.Outcomes)
	}
	if len(rejectedOutcome.Reasons) != 1 || rejectedOutcome.Reasons[0].Rule != string(validation.RuleVatClassificationValidation) {
		t.Fatalf("unexpected reasons: %+v", rejectedOutcome.Reasons)
	}

	if len(publisher.published) != 2 {
		t.Fatalf("got %d events, want accepted + rejected", len(publisher.published))
	}
}

func TestHandleRejectsWholeCommandOnDocumentFailure(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo := memory.NewChargeRepository()
	publisher := &capturingPublisher{}
	handler := newTestHandler(t, repo, publisher, now)

	op := feeOperation("op-1", start)
	doc := charges.Document{
		ID:             "doc-1",
		Type:           "RequestChangeOfPriceList",
		BusinessReason: charges.BusinessReasonUpdateChargeInformation,
		Sender:         charges.Sender{ID: "not-an-actor", Role: charges.RoleGridAccessProvider},
	}
	cmd, err := charges.NewChargeCommand(doc, []charges.ChargeOperation{op})
	if err != nil {
		t.Fatalf("new command: %v", err)
	}

	receipt, err := handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if receipt.Accepted != 0 || receipt.Rejected != 1 {
		t.Fatalf("receipt accepted=%d rejected=%d, want 0/1", receipt.Accepted, receipt.Rejected)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("got %d events, want 1", len(publisher.published))
	}
	event, ok := publisher.published[0].(events.ChargeOperationsRejected)
	if !ok {
		t.Fatalf("unexpected event type %T", publisher.published[0])
	}
	if len(event.Reasons) != 1 || event.Reasons[0].Rule != string(validation.RuleSenderIsMandatoryType) {
		t.Fatalf("unexpected reasons: %+v", event.Reasons)
	}

	if _, err := repo.GetByIdentity(context.Background(), op.Identity()); err != charges.ErrChargeNotFound {
		t.Fatalf("charge must not be persisted, got err=%v", err)
	}
}

func TestHandleRejectsResolutionChangeOnUpdate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo := memory.NewChargeRepository()
	publisher := &capturingPublisher{}
	handler := newTestHandler(t, repo, publisher, now)

	create := feeOperation("op-1", start)
	if _, err := handler.Handle(context.Background(), commandWithReason(t, charges.BusinessReasonUpdateChargeInformation, create)); err != nil {
		t.Fatalf("create: %v", err)
	}

	update := feeOperation("op-2", start)
	update.Resolution = charges.ResolutionP1M
	update.EndDateTime = time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	receipt, err := handler.Handle(context.Background(), commandWithReason(t, charges.BusinessReasonUpdateChargeInformation, update))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if receipt.Accepted != 0 || receipt.Rejected != 1 {
		t.Fatalf("receipt accepted=%d rejected=%d, want 0/1", receipt.Accepted, receipt.Rejected)
	}
	if len(receipt.Outcomes[0].Reasons) != 1 || receipt.Outcomes[0].Reasons[0].Rule != string(validation.RuleResolutionCannotBeUpdated) {
		t.Fatalf("unexpected reasons: %+v", receipt.Outcomes[0].Reasons)
	}
}

func TestHandleAcceptsUpdateAndExtendsCharge(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo := memory.NewChargeRepository()
	publisher := &capturingPublisher{}
	handler := newTestHandler(t, repo, publisher, now)

	create := feeOperation("op-1", start)
	if _, err := handler.Handle(context.Background(), commandWithReason(t, charges.BusinessReasonUpdateChargeInformation, create)); err != nil {
		t.Fatalf("create: %v", err)
	}

	update := feeOperation("op-2", start.Add(24*time.Hour))
	receipt, err := handler.Handle(context.Background(), commandWithReason(t, charges.BusinessReasonUpdateChargeInformation, update))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if receipt.Accepted != 1 {
		t.Fatalf("receipt accepted=%d, want 1", receipt.Accepted)
	}

	stored, err := repo.GetByIdentity(context.Background(), update.Identity())
	if err != nil {
		t.Fatalf("get by identity: %v", err)
	}
	if !stored.EndDateTime.Equal(update.EndDateTime) {
		t.Fatalf("end = %s, want extended to %s", stored.EndDateTime, update.EndDateTime)
	}
	if len(stored.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(stored.Points))
	}
}

func TestHandlePublishesPricesUpdatedForPriceReason(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	repo := memory.NewChargeRepository()
	publisher := &capturingPublisher{}
	handler := newTestHandler(t, repo, publisher, now)

	op := feeOperation("op-1", start)
	receipt, err := handler.Handle(context.Background(), commandWithReason(t, charges.BusinessReasonUpdateChargePrices, op))
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if receipt.Accepted != 1 {
		t.Fatalf("receipt accepted=%d, want 1", receipt.Accepted)
	}

	var updated *events.ChargePricesUpdated
	for _, e := range publisher.published {
		if event, ok := e.(events.ChargePricesUpdated); ok {
			updated = &event
		}
	}
	if updated == nil {
		t.Fatalf("no prices-updated event among %d events", len(publisher.published))
	}
	if updated.ChargeID != "FEE-001" || updated.PointCount != 1 {
		t.Fatalf("unexpected event payload: %+v", updated)
	}
}
