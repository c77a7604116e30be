package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold flags spans of queries slower than this
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// RegisterDBTracing installs the otelgorm plugin without query variables and
// adds slow-query and error annotations to each statement span
func RegisterDBTracing(db *gorm.DB, slowThreshold time.Duration, logger *zap.Logger) error {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowQueryThreshold
	}
	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName("postgresql"), otelgorm.WithoutQueryVariables())); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateStatementSpan(tx, slowThreshold) }

	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("crm_trace:before_create", before),
		cb.Create().After("gorm:create").Register("crm_trace:after_create", after),
		cb.Query().Before("gorm:query").Register("crm_trace:before_query", before),
		cb.Query().After("gorm:query").Register("crm_trace:after_query", after),
		cb.Update().Before("gorm:update").Register("crm_trace:before_update", before),
		cb.Update().After("gorm:update").Register("crm_trace:after_update", after),
		cb.Delete().Before("gorm:delete").Register("crm_trace:before_delete", before),
		cb.Delete().After("gorm:delete").Register("crm_trace:after_delete", after),
		cb.Row().Before("gorm:row").Register("crm_trace:before_row", before),
		cb.Row().After("gorm:row").Register("crm_trace:after_row", after),
		cb.Raw().Before("gorm:raw").Register("crm_trace:before_raw", before),
		cb.Raw().After("gorm:raw").Register("crm_trace:after_raw", after),
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", slowThreshold))
	return nil
}

func annotateStatementSpan(tx *gorm.DB, slowThreshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > slowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
