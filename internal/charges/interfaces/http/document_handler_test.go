package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"charges-hub/internal/auth"
	chargesapp "charges-hub/internal/charges/application"
	charges "charges-hub/internal/charges/domain"
	"charges-hub/internal/charges/domain/validation"
	"charges-hub/internal/charges/infrastructure/memory"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type dropPublisher struct{}

func (dropPublisher) Publish(context.Context, any) error { return nil }

type denySenderChecker struct{ err error }

func (c denySenderChecker) EnsureSender(context.Context, string, string) error { return c.err }

func newTestDocumentHandler(t *testing.T, now time.Time) (*DocumentHandler, *memory.ChargeRepository) {
	t.Helper()

	repo := memory.NewChargeRepository()
	factory := validation.NewInputRulesFactory()
	documents, err := chargesapp.NewDocumentValidator(factory)
	if err != nil {
		t.Fatalf("document validator: %v", err)
	}
	input, err := chargesapp.NewOperationValidator(factory)
	if err != nil {
		t.Fatalf("operation validator: %v", err)
	}
	prices, err := chargesapp.NewPriceOperationValidator(factory)
	if err != nil {
		t.Fatalf("price validator: %v", err)
	}
	businessFactory, err := validation.NewBusinessRulesFactory(repo, validation.DefaultRulesConfiguration(), fixedClock{now: now})
	if err != nil {
		t.Fatalf("business rules factory: %v", err)
	}
	business, err := chargesapp.NewBusinessValidator(businessFactory)
	if err != nil {
		t.Fatalf("business validator: %v", err)
	}
	receipts, err := chargesapp.NewReceiptService(dropPublisher{}, fixedClock{now: now})
	if err != nil {
		t.Fatalf("receipt service: %v", err)
	}
	commandHandler, err := chargesapp.NewChargeCommandHandler(documents, input, prices, business, repo, receipts, dropPublisher{}, fixedClock{now: now}, nil)
	if err != nil {
		t.Fatalf("command handler: %v", err)
	}
	handler, err := NewDocumentHandler(commandHandler, nil, nil, nil)
	if err != nil {
		t.Fatalf("document handler: %v", err)
	}
	return handler, repo
}

func feeDocumentJSON(start time.Time) string {
	return fmt.Sprintf(`{
		"document": {
			"mRID": "doc-1",
			"type": "RequestChangeOfPriceList",
			"businessReasonCode": "UpdateChargeInformation",
			"createdDateTime": %q,
			"sender": {"mRID": "5790001330552", "role": "GridAccessProvider"}
		},
		"operations": [{
			"mRID": "op-1",
			"chargeId": "FEE-001",
			"chargeOwner": "5790001330552",
			"chargeType": "Fee",
			"name": "Connection fee",
			"resolution": "P1D",
			"vatClassification": "Vat25",
			"taxIndicator": "NoTax",
			"transparentInvoicing": "Transparent",
			"startDateTime": %q,
			"endDateTime": %q,
			"points": [{"position": 1, "price": "12.50"}]
		}]
	}`, start.Format(time.RFC3339), start.Format(time.RFC3339), start.Add(24*time.Hour).Format(time.RFC3339))
}

func TestDocumentHandlerAcceptsValidDocument(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 10, 22, 0, 0, 0, time.UTC)
	handler, repo := newTestDocumentHandler(t, now)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader(feeDocumentJSON(start)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var receipt chargesapp.Receipt
	if err := json.Unmarshal(resp.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if receipt.Accepted != 1 || receipt.Rejected != 0 {
		t.Fatalf("receipt = %+v, want 1 accepted", receipt)
	}

	identity := charges.ChargeIdentity{
		SenderProvidedChargeID: "FEE-001",
		OwnerID:                "5790001330552",
		Type:                   charges.ChargeTypeFee,
	}
	if _, err := repo.GetByIdentity(context.Background(), identity); err != nil {
		t.Fatalf("charge not persisted: %v", err)
	}
}

func TestDocumentHandlerRejectsInvalidJSON(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	handler, _ := newTestDocumentHandler(t, now)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader("{not json"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestDocumentHandlerRejectsMissingDocumentID(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	handler, _ := newTestDocumentHandler(t, now)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader(`{"document":{},"operations":[]}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestDocumentHandlerEnforcesSenderIdentity(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 10, 22, 0, 0, 0, time.UTC)
	handler, _ := newTestDocumentHandler(t, now)
	handler.senderChecker = denySenderChecker{err: auth.ErrSenderMismatch}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", strings.NewReader(feeDocumentJSON(start)))
	ctx := auth.WithIdentity(req.Context(), "5790009999999", auth.RoleSubmitter, "someone-else")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req.WithContext(ctx))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.Code)
	}
}

func TestDocumentHandlerRejectsGet(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	handler, _ := newTestDocumentHandler(t, now)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.Code)
	}
}
