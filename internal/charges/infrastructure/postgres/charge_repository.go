package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	charges "charges-hub/internal/charges/domain"
)

const (
	defaultChargesTable      = "charges"
	defaultChargePointsTable = "charge_points"
)

// ChargeRepository is a Postgres implementation of the charge repository.
type ChargeRepository struct {
	db          *sql.DB
	table       string
	pointsTable string
}

// NewChargeRepository constructs a repository.
func NewChargeRepository(db *sql.DB, opts ...ChargeOption) *ChargeRepository {
	repo := &ChargeRepository{
		db:          db,
		table:       defaultChargesTable,
		pointsTable: defaultChargePointsTable,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// ChargeOption configures the repository.
type ChargeOption func(*ChargeRepository)

// WithChargesTable overrides the default charges table name.
func WithChargesTable(table string) ChargeOption {
	return func(repo *ChargeRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// WithChargePointsTable overrides the default points table name.
func WithChargePointsTable(table string) ChargeOption {
	return func(repo *ChargeRepository) {
		if table != "" {
			repo.pointsTable = table
		}
	}
}

// GetByIdentity loads a charge and its points by identity tuple.
func (r *ChargeRepository) GetByIdentity(ctx context.Context, identity charges.ChargeIdentity) (*charges.Charge, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("charge repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, sender_charge_id, owner_id, charge_type, name, description, resolution,
	vat_classification, tax_indicator, transparent_invoicing,
	start_date_time, end_date_time, created_at, updated_at
FROM %s
WHERE sender_charge_id = $1 AND owner_id = $2 AND charge_type = $3
LIMIT 1`, r.table)

	var charge charges.Charge
	err := r.db.QueryRowContext(ctx, query,
		identity.SenderProvidedChargeID, identity.OwnerID, string(identity.Type),
	).Scan(
		&charge.ID,
		&charge.Identity.SenderProvidedChargeID,
		&charge.Identity.OwnerID,
		&charge.Identity.Type,
		&charge.Name,
		&charge.Description,
		&charge.Resolution,
		&charge.VatClassification,
		&charge.TaxIndicator,
		&charge.TransparentInvoicing,
		&charge.StartDateTime,
		&charge.EndDateTime,
		&charge.CreatedAt,
		&charge.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, charges.ErrChargeNotFound
		}
		return nil, err
	}

	points, err := r.loadPoints(ctx, charge.ID)
	if err != nil {
		return nil, err
	}
	charge.Points = points
	return &charge, nil
}

// Save upserts the charge row and replaces its points.
func (r *ChargeRepository) Save(ctx context.Context, charge *charges.Charge) error {
	if r == nil || r.db == nil {
		return errors.New("charge repo: nil db")
	}
	if charge == nil {
		return errors.New("charge repo: nil charge")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	upsert := fmt.Sprintf(`
INSERT INTO %s (
	id, sender_charge_id, owner_id, charge_type, name, description, resolution,
	vat_classification, tax_indicator, transparent_invoicing,
	start_date_time, end_date_time, created_at, updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	vat_classification = EXCLUDED.vat_classification,
	transparent_invoicing = EXCLUDED.transparent_invoicing,
	start_date_time = EXCLUDED.start_date_time,
	end_date_time = EXCLUDED.end_date_time,
	updated_at = EXCLUDED.updated_at`, r.table)

	_, err = tx.ExecContext(ctx, upsert,
		charge.ID,
		charge.Identity.SenderProvidedChargeID,
		charge.Identity.OwnerID,
		string(charge.Identity.Type),
		charge.Name,
		charge.Description,
		string(charge.Resolution),
		string(charge.VatClassification),
		string(charge.TaxIndicator),
		string(charge.TransparentInvoicing),
		charge.StartDateTime,
		charge.EndDateTime,
		charge.CreatedAt,
		charge.UpdatedAt,
	)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE charge_id = $1`, r.pointsTable), charge.ID,
	); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, point := range charge.Points {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (charge_id, point_time, price) VALUES ($1,$2,$3)`, r.pointsTable),
			charge.ID, point.Time, point.Price,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// ListByOwner returns every charge owned by the given actor, points included.
func (r *ChargeRepository) ListByOwner(ctx context.Context, ownerID string) ([]*charges.Charge, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("charge repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT id, sender_charge_id, owner_id, charge_type, name, description, resolution,
	vat_classification, tax_indicator, transparent_invoicing,
	start_date_time, end_date_time, created_at, updated_at
FROM %s
WHERE owner_id = $1
ORDER BY sender_charge_id`, r.table)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*charges.Charge
	for rows.Next() {
		var charge charges.Charge
		if err := rows.Scan(
			&charge.ID,
			&charge.Identity.SenderProvidedChargeID,
			&charge.Identity.OwnerID,
			&charge.Identity.Type,
			&charge.Name,
			&charge.Description,
			&charge.Resolution,
			&charge.VatClassification,
			&charge.TaxIndicator,
			&charge.TransparentInvoicing,
			&charge.StartDateTime,
			&charge.EndDateTime,
			&charge.CreatedAt,
			&charge.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &charge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, charge := range out {
		points, err := r.loadPoints(ctx, charge.ID)
		if err != nil {
			return nil, err
		}
		charge.Points = points
	}
	return out, nil
}

func (r *ChargeRepository) loadPoints(ctx context.Context, chargeID string) ([]charges.ChargePoint, error) {
	query := fmt.Sprintf(`
SELECT point_time, price
FROM %s
WHERE charge_id = $1
ORDER BY point_time`, r.pointsTable)

	rows, err := r.db.QueryContext(ctx, query, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []charges.ChargePoint
	for rows.Next() {
		var point charges.ChargePoint
		if err := rows.Scan(&point.Time, &point.Price); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	return points, rows.Err()
}
