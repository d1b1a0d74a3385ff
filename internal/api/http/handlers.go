package apihttp

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	charges "charges-hub/internal/charges/domain"
	"charges-hub/internal/charges/interfaces"
	"charges-hub/internal/observability/metrics"
)

const timeLayout = time.RFC3339

// ChargesHandler serves charge lookup queries.
type ChargesHandler struct {
	repo charges.Repository
}

// NewChargesHandler constructs a ChargesHandler.
func NewChargesHandler(repo charges.Repository) *ChargesHandler {
	return &ChargesHandler{repo: repo}
}

// ServeHTTP handles GET /api/v1/charges.
func (h *ChargesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.repo == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "owner is required", http.StatusBadRequest)
		return
	}

	result, err := h.repo.ListByOwner(r.Context(), owner)
	if err != nil {
		http.Error(w, "query charges error", http.StatusInternalServerError)
		return
	}

	rows := make([]chargeRow, 0, len(result))
	for _, charge := range result {
		rows = append(rows, toChargeRow(charge))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

// PricesHandler serves price series queries for one charge.
type PricesHandler struct {
	repo charges.Repository
}

// NewPricesHandler constructs a PricesHandler.
func NewPricesHandler(repo charges.Repository) *PricesHandler {
	return &PricesHandler{repo: repo}
}

// ServeHTTP handles GET /api/v1/charges/prices.
func (h *PricesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.repo == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	charge, from, to, ok := h.loadCharge(w, r)
	if !ok {
		return
	}

	points := charge.PointsInPeriod(from, to)
	rows := make([]priceRow, 0, len(points))
	for _, point := range points {
		rows = append(rows, priceRow{Time: point.Time.UTC(), Price: point.Price.String()})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func (h *PricesHandler) loadCharge(w http.ResponseWriter, r *http.Request) (*charges.Charge, time.Time, time.Time, bool) {
	return loadChargeQuery(h.repo, w, r)
}

// ExportPricesCSVHandler serves price series CSV exports.
type ExportPricesCSVHandler struct {
	repo charges.Repository
}

// NewExportPricesCSVHandler constructs a ExportPricesCSVHandler.
func NewExportPricesCSVHandler(repo charges.Repository) *ExportPricesCSVHandler {
	return &ExportPricesCSVHandler{repo: repo}
}

// ServeHTTP handles GET /api/v1/exports/prices.csv.
func (h *ExportPricesCSVHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.repo == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	charge, from, to, ok := loadChargeQuery(h.repo, w, r)
	if !ok {
		return
	}
	points := charge.PointsInPeriod(from, to)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"charge_id",
		"owner",
		"charge_type",
		"resolution",
		"time",
		"price",
	})
	for _, point := range points {
		_ = writer.Write([]string{
			charge.Identity.SenderProvidedChargeID,
			charge.Identity.OwnerID,
			string(charge.Identity.Type),
			string(charge.Resolution),
			point.Time.UTC().Format(timeLayout),
			point.Price.String(),
		})
	}
	writer.Flush()
}

// PriceReportHandler serves PDF and XLSX price reports.
type PriceReportHandler struct {
	repo   charges.Repository
	format string
}

// NewPriceReportHandler constructs a report handler for "pdf" or "xlsx".
func NewPriceReportHandler(repo charges.Repository, format string) *PriceReportHandler {
	return &PriceReportHandler{repo: repo, format: format}
}

// ServeHTTP handles GET /api/v1/reports/prices.{pdf,xlsx}.
func (h *PriceReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h == nil || h.repo == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	charge, from, to, ok := loadChargeQuery(h.repo, w, r)
	if !ok {
		return
	}
	points := charge.PointsInPeriod(from, to)

	started := time.Now()
	var payload []byte
	var err error
	switch h.format {
	case "xlsx":
		payload, err = interfaces.BuildPriceReportXLSX(charge, points)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		payload, err = interfaces.BuildPriceReportPDF(charge, points)
		w.Header().Set("Content-Type", "application/pdf")
	}
	if err != nil {
		metrics.ObservePriceExport(h.format, metrics.ResultError, time.Since(started))
		http.Error(w, "build report error", http.StatusInternalServerError)
		return
	}
	metrics.ObservePriceExport(h.format, metrics.ResultSuccess, time.Since(started))
	_, _ = w.Write(payload)
}

type chargeRow struct {
	ChargeID      string    `json:"charge_id"`
	Owner         string    `json:"owner"`
	ChargeType    string    `json:"charge_type"`
	Name          string    `json:"name"`
	Resolution    string    `json:"resolution"`
	Vat           string    `json:"vat"`
	TaxIndicator  string    `json:"tax_indicator"`
	StartDateTime time.Time `json:"start_date_time"`
	EndDateTime   time.Time `json:"end_date_time"`
	PointCount    int       `json:"point_count"`
}

type priceRow struct {
	Time  time.Time `json:"time"`
	Price string    `json:"price"`
}

func toChargeRow(charge *charges.Charge) chargeRow {
	return chargeRow{
		ChargeID:      charge.Identity.SenderProvidedChargeID,
		Owner:         charge.Identity.OwnerID,
		ChargeType:    string(charge.Identity.Type),
		Name:          charge.Name,
		Resolution:    string(charge.Resolution),
		Vat:           string(charge.VatClassification),
		TaxIndicator:  string(charge.TaxIndicator),
		StartDateTime: charge.StartDateTime.UTC(),
		EndDateTime:   charge.EndDateTime.UTC(),
		PointCount:    len(charge.Points),
	}
}

func loadChargeQuery(repo charges.Repository, w http.ResponseWriter, r *http.Request) (*charges.Charge, time.Time, time.Time, bool) {
	var zero time.Time

	owner := r.URL.Query().Get("owner")
	chargeID := r.URL.Query().Get("charge_id")
	chargeType := r.URL.Query().Get("charge_type")
	if owner == "" || chargeID == "" || chargeType == "" {
		http.Error(w, "owner, charge_id and charge_type are required", http.StatusBadRequest)
		return nil, zero, zero, false
	}

	from, err := parseTimeQuery(r, "from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, zero, zero, false
	}
	to, err := parseTimeQuery(r, "to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, zero, zero, false
	}
	if !to.After(from) {
		http.Error(w, "to must be after from", http.StatusBadRequest)
		return nil, zero, zero, false
	}

	identity := charges.ChargeIdentity{
		SenderProvidedChargeID: chargeID,
		OwnerID:                owner,
		Type:                   charges.ChargeType(chargeType),
	}
	charge, err := repo.GetByIdentity(r.Context(), identity)
	if err != nil {
		if errors.Is(err, charges.ErrChargeNotFound) {
			http.Error(w, "charge not found", http.StatusNotFound)
			return nil, zero, zero, false
		}
		http.Error(w, "query charge error", http.StatusInternalServerError)
		return nil, zero, zero, false
	}
	return charge, from, to, true
}

func parseTimeQuery(r *http.Request, key string) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return time.Time{}, errors.New(key + " is required")
	}
	parsed, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, errors.New(key + " must be RFC3339")
	}
	return parsed.UTC(), nil
}
