package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
)

const contractColumns = `id, client_id, car_id, start_date, end_date, state, total_cost_cents, created_on, updated_on`

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

func scanContract(row interface{ Scan(...any) error }) (*domain.Contract, error) {
	c := &domain.Contract{}
	var state string
	err := row.Scan(&c.ID, &c.ClientID, &c.CarID, &c.StartDate, &c.EndDate, &state, &c.TotalCostCents, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	c.State, err = domain.ParseRentalState(state)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// lockOverlapping locks and counts the car's non-cancelled contracts whose
// inclusive date range overlaps [start, end], inside the given transaction.
// The row locks serialize concurrent bookings of the same car until commit.
func lockOverlapping(ctx context.Context, tx *sql.Tx, carID int32, start, end time.Time, excludeID int32) (int, error) {
	query := `SELECT count(*) FROM (
	            SELECT id FROM contracts
	            WHERE car_id = $1 AND state NOT IN ('CANCELLED')
	              AND start_date <= $3 AND end_date >= $2
	              AND id <> $4
	            FOR UPDATE
	          ) AS locked`
	var n int
	err := tx.QueryRowContext(ctx, query, carID, start, end, excludeID).Scan(&n)
	return n, err
}

// isSerializationFailure reports whether err is a postgres serialization or
// deadlock failure; a conflicting booking committed first, so the caller's
// range lost the race.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	n, err := lockOverlapping(ctx, tx, c.CarID, c.StartDate, c.EndDate, 0)
	if err != nil {
		if isSerializationFailure(err) {
			return domain.ErrCarUnavailable
		}
		return err
	}
	if n > 0 {
		return domain.ErrCarUnavailable
	}

	query := `INSERT INTO contracts (client_id, car_id, start_date, end_date, state, total_cost_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_on, updated_on`
	now := time.Now()
	err = tx.QueryRowContext(ctx, query, c.ClientID, c.CarID, c.StartDate, c.EndDate, string(c.State), c.TotalCostCents, now, now).
		Scan(&c.ID, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrCarUnavailable
		}
		return err
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contract %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *contractRepository) UpdateState(ctx context.Context, id int32, from, to domain.RentalState) error {
	query := `UPDATE contracts SET state = $1, updated_on = $2 WHERE id = $3 AND state = $4`
	res, err := r.db.ExecContext(ctx, query, string(to), time.Now(), id, string(from))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the contract vanished or another writer transitioned it
		// out of `from` first.
		return fmt.Errorf("contract %d no longer in state %s: %w", id, from, domain.ErrNotFound)
	}
	return nil
}

func (r *contractRepository) UpdateDates(ctx context.Context, c *domain.Contract) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	n, err := lockOverlapping(ctx, tx, c.CarID, c.StartDate, c.EndDate, c.ID)
	if err != nil {
		if isSerializationFailure(err) {
			return domain.ErrCarUnavailable
		}
		return err
	}
	if n > 0 {
		return domain.ErrCarUnavailable
	}

	query := `UPDATE contracts SET start_date = $1, end_date = $2, total_cost_cents = $3, updated_on = $4 WHERE id = $5`
	if _, err := tx.ExecContext(ctx, query, c.StartDate, c.EndDate, c.TotalCostCents, time.Now(), c.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return domain.ErrCarUnavailable
		}
		return err
	}
	return nil
}

func (r *contractRepository) FindOverlapping(ctx context.Context, carID int32, start, end time.Time, excludeID int32) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
	          WHERE car_id = $1 AND state NOT IN ('CANCELLED')
	            AND start_date <= $3 AND end_date >= $2
	            AND id <> $4`
	rows, err := r.db.QueryContext(ctx, query, carID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

func (r *contractRepository) ListByClient(ctx context.Context, clientID int32, page, pageSize int32) ([]domain.Contract, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM contracts WHERE client_id = $1`, clientID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + contractColumns + ` FROM contracts WHERE client_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, clientID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, count, rows.Err()
}

// ListByFilter serves the admin listing. The filter predicates are optional
// and partly live on the joined cars table, so the query is built dynamically.
func (r *contractRepository) ListByFilter(ctx context.Context, filter domain.ContractFilter, page, pageSize int32) ([]domain.Contract, int32, error) {
	offset := (page - 1) * pageSize

	base := goqu.Dialect("postgres").
		From(goqu.T("contracts")).
		Join(goqu.T("cars"), goqu.On(goqu.I("contracts.car_id").Eq(goqu.I("cars.id"))))

	if filter.State != "" {
		base = base.Where(goqu.I("contracts.state").Eq(string(filter.State)))
	}
	if filter.ClientID > 0 {
		base = base.Where(goqu.I("contracts.client_id").Eq(filter.ClientID))
	}
	if filter.CarID > 0 {
		base = base.Where(goqu.I("contracts.car_id").Eq(filter.CarID))
	}
	if filter.Brand != "" {
		base = base.Where(goqu.I("cars.brand").Eq(filter.Brand))
	}
	if filter.BodyType != "" {
		base = base.Where(goqu.I("cars.body_type").Eq(filter.BodyType))
	}
	if filter.CarClass != "" {
		base = base.Where(goqu.I("cars.car_class").Eq(filter.CarClass))
	}

	countSQL, _, err := base.Select(goqu.COUNT(goqu.I("contracts.id"))).ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var count int32
	if err := r.db.QueryRowContext(ctx, countSQL).Scan(&count); err != nil {
		return nil, 0, err
	}

	listSQL, _, err := base.
		Select(
			goqu.I("contracts.id"), goqu.I("contracts.client_id"), goqu.I("contracts.car_id"),
			goqu.I("contracts.start_date"), goqu.I("contracts.end_date"), goqu.I("contracts.state"),
			goqu.I("contracts.total_cost_cents"), goqu.I("contracts.created_on"), goqu.I("contracts.updated_on"),
		).
		Order(goqu.I("contracts.created_on").Desc()).
		Limit(uint(pageSize)).
		Offset(uint(offset)).
		ToSQL()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, listSQL)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, count, rows.Err()
}
