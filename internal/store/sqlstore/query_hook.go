package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
)

// QueryLogHook reports failed and slow statements through slog. Every other
// statement is logged at debug level.
type QueryLogHook struct {
	log           *slog.Logger
	slowThreshold time.Duration
}

var _ bun.QueryHook = (*QueryLogHook)(nil)

func NewQueryLogHook(log *slog.Logger, slowThreshold time.Duration) *QueryLogHook {
	if log == nil {
		log = slog.Default()
	}
	return &QueryLogHook{log: log, slowThreshold: slowThreshold}
}

func (h *QueryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	attrs := []any{
		"operation", event.Operation(),
		"duration_ms", elapsed.Milliseconds(),
		"query", event.Query,
	}

	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		h.log.WarnContext(ctx, "query failed", append(attrs, "error", event.Err)...)
	case h.slowThreshold > 0 && elapsed >= h.slowThreshold:
		h.log.WarnContext(ctx, "slow query", attrs...)
	default:
		h.log.DebugContext(ctx, "query", attrs...)
	}
}
