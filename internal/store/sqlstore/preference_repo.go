package sqlstore

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/pixix4/customer-manager/internal/domain"
	"github.com/pixix4/customer-manager/internal/store"
)

type PreferenceRepo struct {
	db *bun.DB
}

var _ store.PreferenceRepository = (*PreferenceRepo)(nil)

func NewPreferenceRepo(db *bun.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

func (r *PreferenceRepo) List(ctx context.Context) ([]domain.Preference, error) {
	rows := []domain.Preference{}
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr(`"key" ASC`).
		Scan(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}
	return rows, nil
}

// Store sets the key, or removes it when the edit carries no value.
func (r *PreferenceRepo) Store(ctx context.Context, edit domain.PreferenceEdit) error {
	if edit.Value == nil {
		_, err := r.db.NewDelete().
			Model((*domain.Preference)(nil)).
			Where(`"key" = ?`, edit.Key).
			Exec(ctx)
		return wrapErr(err)
	}

	m := domain.Preference{Key: edit.Key, Value: *edit.Value}
	_, err := r.db.NewInsert().
		Model(&m).
		On(`CONFLICT ("key") DO UPDATE`).
		Set(`"value" = EXCLUDED."value"`).
		Exec(ctx)
	return wrapErr(err)
}
