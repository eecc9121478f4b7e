package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/pixix4/customer-manager/internal/domain"
	"github.com/pixix4/customer-manager/internal/store"
)

type CustomerRepo struct {
	db *bun.DB
}

var _ store.CustomerRepository = (*CustomerRepo)(nil)

func NewCustomerRepo(db *bun.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// selectCustomers joins the responsible employee. The joined columns are aliased so
// they never collide with the customer's own id.
func (r *CustomerRepo) selectCustomers() *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("customer AS c").
		ColumnExpr("c.id, c.title, c.first_name, c.last_name").
		ColumnExpr("c.address_street, c.address_city, c.phone, c.mobile_phone").
		ColumnExpr("c.birthdate, c.customer_since, c.note").
		ColumnExpr("e.id AS responsible_employee_id").
		ColumnExpr("e.name AS responsible_employee_name").
		Join("LEFT JOIN employee AS e ON e.id = c.responsible_employee_id")
}

func (r *CustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	var rows []domain.CustomerRow
	if err := r.selectCustomers().OrderExpr("c.id ASC").Scan(ctx, &rows); err != nil {
		return nil, wrapErr(err)
	}

	out := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToCustomer())
	}
	return out, nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var row domain.CustomerRow
	err := r.selectCustomers().
		Where("c.id = ?", id).
		Limit(1).
		Scan(ctx, &row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	c := row.ToCustomer()
	return &c, nil
}

func (r *CustomerRepo) Store(ctx context.Context, edit domain.CustomerEdit) (int64, error) {
	rec := edit.Record()
	return upsert(ctx, edit.ID,
		func(ctx context.Context) (int64, error) {
			rec.ID = 0
			if _, err := r.db.NewInsert().Model(&rec).Returning("id").Exec(ctx); err != nil {
				return 0, err
			}
			return rec.ID, nil
		},
		func(ctx context.Context, id int64) error {
			rec.ID = id
			_, err := r.db.NewUpdate().Model(&rec).WherePK().Exec(ctx)
			return err
		},
	)
}

func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*domain.CustomerRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return wrapErr(err)
}
