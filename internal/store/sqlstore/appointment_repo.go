package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"slices"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/pixix4/customer-manager/internal/domain"
	"github.com/pixix4/customer-manager/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

var _ store.AppointmentRepository = (*AppointmentRepo)(nil)

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) selectAppointments() *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("appointment AS a").
		ColumnExpr("a.id, a.customer_id, a.number, a.start_date").
		ColumnExpr("a.duration_minutes, a.treatment, a.price").
		ColumnExpr("e.id AS employee_id").
		ColumnExpr("e.name AS employee_name").
		Join("LEFT JOIN employee AS e ON e.id = a.employee_id")
}

// ListForCustomer returns the customer's appointments most recent first, each with
// its end date and the whole days since the chronologically previous appointment.
func (r *AppointmentRepo) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	var rows []domain.AppointmentRow
	err := r.selectAppointments().
		Where("a.customer_id = ?", customerID).
		OrderExpr("a.start_date ASC, a.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, wrapErr(err)
	}

	out := make([]domain.Appointment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToAppointment())
	}
	domain.EnrichAppointments(out)
	slices.Reverse(out)
	return out, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	var row domain.AppointmentRow
	err := r.selectAppointments().
		Where("a.id = ?", id).
		Limit(1).
		Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	a := row.ToAppointment()
	return &a, nil
}

// Store inserts with the customer's next number or updates every column except the
// number, which is fixed at creation.
func (r *AppointmentRepo) Store(ctx context.Context, edit domain.AppointmentEdit) (int64, error) {
	return upsert(ctx, edit.ID, func(ctx context.Context) (int64, error) {
		var id int64
		err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := lockCustomerNumbering(ctx, tx, edit.CustomerID); err != nil {
				return err
			}
			next, err := nextAppointmentNumber(ctx, tx, edit.CustomerID)
			if err != nil {
				return err
			}

			rec := edit.Record(next)
			rec.ID = 0
			if _, err := tx.NewInsert().Model(&rec).Returning("id").Exec(ctx); err != nil {
				return err
			}
			id = rec.ID
			return nil
		})
		return id, err
	}, func(ctx context.Context, id int64) error {
		rec := edit.Record(0)
		rec.ID = id
		_, err := r.db.NewUpdate().
			Model(&rec).
			ExcludeColumn("id", "number").
			WherePK().
			Exec(ctx)
		return err
	})
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*domain.AppointmentRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return wrapErr(err)
}

// lockCustomerNumbering serializes number assignment per customer on Postgres.
// SQLite transactions already begin IMMEDIATE and hold the write lock.
func lockCustomerNumbering(ctx context.Context, tx bun.Tx, customerID int64) error {
	if tx.Dialect().Name() != dialect.PG {
		return nil
	}
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(?)", customerID).Exec(ctx)
	return err
}

func nextAppointmentNumber(ctx context.Context, tx bun.Tx, customerID int64) (int64, error) {
	var last sql.NullInt64
	err := tx.NewSelect().
		Model((*domain.AppointmentRecord)(nil)).
		ColumnExpr("MAX(a.number)").
		Where("a.customer_id = ?", customerID).
		Scan(ctx, &last)
	if err != nil {
		return 0, err
	}
	return last.Int64 + 1, nil
}
