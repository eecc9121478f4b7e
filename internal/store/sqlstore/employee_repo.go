package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"github.com/pixix4/customer-manager/internal/domain"
	"github.com/pixix4/customer-manager/internal/store"
)

type EmployeeRepo struct {
	db *bun.DB
}

var _ store.EmployeeRepository = (*EmployeeRepo)(nil)

func NewEmployeeRepo(db *bun.DB) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

func (r *EmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	rows := []domain.Employee{}
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	return rows, nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var e domain.Employee
	err := r.db.NewSelect().
		Model(&e).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	return &e, nil
}

func (r *EmployeeRepo) Store(ctx context.Context, edit domain.EmployeeEdit) (int64, error) {
	return upsert(ctx, edit.ID,
		func(ctx context.Context) (int64, error) {
			m := domain.Employee{Name: edit.Name}
			if _, err := r.db.NewInsert().Model(&m).Returning("id").Exec(ctx); err != nil {
				return 0, err
			}
			return m.ID, nil
		},
		func(ctx context.Context, id int64) error {
			m := domain.Employee{ID: id, Name: edit.Name}
			_, err := r.db.NewUpdate().
				Model(&m).
				Column("name").
				WherePK().
				Exec(ctx)
			return err
		},
	)
}

func (r *EmployeeRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*domain.Employee)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return wrapErr(err)
}
