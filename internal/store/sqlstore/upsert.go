package sqlstore

import "context"

// upsert runs insert when id is nil and update otherwise, returning the row id
// either way.
func upsert(
	ctx context.Context,
	id *int64,
	insert func(ctx context.Context) (int64, error),
	update func(ctx context.Context, id int64) error,
) (int64, error) {
	if id == nil {
		newID, err := insert(ctx)
		if err != nil {
			return 0, wrapErr(err)
		}
		return newID, nil
	}
	if err := update(ctx, *id); err != nil {
		return 0, wrapErr(err)
	}
	return *id, nil
}
