package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"charges-hub/internal/audit"
	"charges-hub/internal/auth"
	chargesapp "charges-hub/internal/charges/application"
	charges "charges-hub/internal/charges/domain"
	"charges-hub/internal/observability/metrics"
)

// DocumentHandler ingests charge documents and returns the synchronous
// receipt.
type DocumentHandler struct {
	handler       *chargesapp.ChargeCommandHandler
	senderChecker auth.SenderAuthorizer
	auditLogger   audit.Logger
	logger        *log.Logger
}

// NewDocumentHandler constructs a document handler.
func NewDocumentHandler(handler *chargesapp.ChargeCommandHandler, senderChecker auth.SenderAuthorizer, auditLogger audit.Logger, logger *log.Logger) (*DocumentHandler, error) {
	if handler == nil {
		return nil, errors.New("document handler: nil command handler")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DocumentHandler{handler: handler, senderChecker: senderChecker, auditLogger: auditLogger, logger: logger}, nil
}

// ServeHTTP handles POST document submissions.
func (h *DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	started := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.IncDocumentError("read")
		http.Error(w, "read body error", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req documentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		metrics.IncDocumentError("decode")
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cmd, err := req.toCommand()
	if err != nil {
		metrics.IncDocumentError("convert")
		h.logger.Printf("document ingest: invalid payload: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actorID := auth.ActorIDFromContext(r.Context())
	if h.senderChecker != nil && actorID != "" {
		if err := h.senderChecker.EnsureSender(r.Context(), actorID, cmd.Document.Sender.ID); err != nil {
			respondSenderError(w, err)
			return
		}
	}

	receipt, err := h.handler.Handle(r.Context(), cmd)
	if err != nil {
		metrics.IncDocumentError("handle")
		metrics.ObserveDocument(metrics.ResultError, time.Since(started))
		h.logger.Printf("document ingest: handle error: %v", err)
		http.Error(w, "document processing error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveDocument(metrics.ResultSuccess, time.Since(started))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(receipt)

	h.logAudit(r, actorID, cmd, receipt, body)
}

func (h *DocumentHandler) logAudit(r *http.Request, actorID string, cmd *charges.ChargeCommand, receipt chargesapp.Receipt, body []byte) {
	if h.auditLogger == nil {
		return
	}
	metadata, _ := json.Marshal(map[string]any{
		"accepted": receipt.Accepted,
		"rejected": receipt.Rejected,
	})
	entry := audit.Entry{
		SenderID:      cmd.Document.Sender.ID,
		Actor:         actorID,
		Role:          string(auth.RoleFromContext(r.Context())),
		Action:        "charges.document.submit",
		ResourceType:  "charge_document",
		ResourceID:    cmd.Document.ID,
		DocumentID:    cmd.Document.ID,
		Metadata:      metadata,
		PayloadDigest: audit.DigestJSON(body),
		IP:            r.RemoteAddr,
		UserAgent:     r.UserAgent(),
	}
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logger.Printf("document ingest: audit error: %v", err)
	}
}

func respondSenderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrSenderMismatch):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, auth.ErrSenderNotRegistered):
		http.Error(w, "sender not registered", http.StatusForbidden)
	default:
		http.Error(w, "sender check error", http.StatusInternalServerError)
	}
}

type documentRequest struct {
	Document   documentHeader     `json:"document"`
	Operations []operationPayload `json:"operations"`
}

type documentHeader struct {
	MRID               string        `json:"mRID"`
	Type               string        `json:"type"`
	BusinessReasonCode string        `json:"businessReasonCode"`
	CreatedDateTime    time.Time     `json:"createdDateTime"`
	Sender             senderPayload `json:"sender"`
}

type senderPayload struct {
	MRID string `json:"mRID"`
	Role string `json:"role"`
}

type operationPayload struct {
	MRID                 string         `json:"mRID"`
	ChargeID             string         `json:"chargeId"`
	ChargeOwner          string         `json:"chargeOwner"`
	ChargeType           string         `json:"chargeType"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Resolution           string         `json:"resolution"`
	VatClassification    string         `json:"vatClassification"`
	TaxIndicator         string         `json:"taxIndicator"`
	TransparentInvoicing string         `json:"transparentInvoicing"`
	StartDateTime        time.Time      `json:"startDateTime"`
	EndDateTime          time.Time      `json:"endDateTime"`
	Points               []pointPayload `json:"points"`
}

type pointPayload struct {
	Position int    `json:"position"`
	Price    string `json:"price"`
}

func (r documentRequest) toCommand() (*charges.ChargeCommand, error) {
	if r.Document.MRID == "" {
		return nil, errors.New("document mRID is required")
	}
	if len(r.Operations) == 0 {
		return nil, errors.New("document carries no operations")
	}

	doc := charges.Document{
		ID:             r.Document.MRID,
		Type:           r.Document.Type,
		BusinessReason: charges.BusinessReasonCode(r.Document.BusinessReasonCode),
		CreatedAt:      r.Document.CreatedDateTime,
		Sender: charges.Sender{
			ID:   r.Document.Sender.MRID,
			Role: charges.MarketParticipantRole(r.Document.Sender.Role),
		},
	}

	operations := make([]charges.ChargeOperation, 0, len(r.Operations))
	for _, payload := range r.Operations {
		op, err := payload.toOperation()
		if err != nil {
			return nil, err
		}
		operations = append(operations, op)
	}
	return charges.NewChargeCommand(doc, operations)
}

func (p operationPayload) toOperation() (charges.ChargeOperation, error) {
	resolution := charges.Resolution(p.Resolution)
	points := make([]charges.Point, 0, len(p.Points))
	for _, point := range p.Points {
		if point.Position < 1 {
			return charges.ChargeOperation{}, errors.New("point position must be 1-based")
		}
		price, err := decimal.NewFromString(point.Price)
		if err != nil {
			return charges.ChargeOperation{}, errors.New("point price must be decimal")
		}
		points = append(points, charges.Point{
			Position: point.Position,
			Price:    price,
			Time:     pointTime(p.StartDateTime, resolution, point.Position),
		})
	}

	return charges.ChargeOperation{
		OperationID:            p.MRID,
		SenderProvidedChargeID: p.ChargeID,
		OwnerID:                p.ChargeOwner,
		Type:                   charges.ChargeType(p.ChargeType),
		Name:                   p.Name,
		Description:            p.Description,
		Resolution:             resolution,
		VatClassification:      charges.VatClassification(p.VatClassification),
		TaxIndicator:           charges.TaxIndicator(p.TaxIndicator),
		TransparentInvoicing:   charges.TransparentInvoicing(p.TransparentInvoicing),
		StartDateTime:          p.StartDateTime.UTC(),
		EndDateTime:            p.EndDateTime.UTC(),
		Points:                 points,
	}, nil
}

// pointTime derives a point's timestamp from the operation start, the
// resolution and the 1-based position. Month steps use calendar arithmetic.
func pointTime(start time.Time, resolution charges.Resolution, position int) time.Time {
	steps := position - 1
	switch resolution {
	case charges.ResolutionPT15M:
		return start.Add(time.Duration(steps) * 15 * time.Minute).UTC()
	case charges.ResolutionPT1H:
		return start.Add(time.Duration(steps) * time.Hour).UTC()
	case charges.ResolutionP1D:
		return start.Add(time.Duration(steps) * 24 * time.Hour).UTC()
	case charges.ResolutionP1M:
		return start.AddDate(0, steps, 0).UTC()
	default:
		return start.UTC()
	}
}
