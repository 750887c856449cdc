package obs

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxStatementLength = 300

type ctxSpanKey struct{}

// PGXTracer implements pgx.QueryTracer. Spans are named after the SQL verb so
// a trace of an order breakdown reads as a sequence of selects rather than a
// wall of identical "query" spans.
type PGXTracer struct{}

// TraceQueryStart opens a span for the statement.
func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx, span := otel.Tracer("db.pgx").Start(ctx, spanNameForSQL(data.SQL))
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", truncateSQL(data.SQL)),
	)
	return context.WithValue(ctx, ctxSpanKey{}, span)
}

// TraceQueryEnd records the outcome and closes the span.
func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, ok := ctx.Value(ctxSpanKey{}).(trace.Span)
	if !ok {
		return
	}
	if data.Err != nil {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, data.Err.Error())
	} else {
		span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
	}
	span.End()
}

func spanNameForSQL(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "pgx.query"
	}
	return "pgx." + strings.ToLower(fields[0])
}

func truncateSQL(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) > maxStatementLength {
		return trimmed[:maxStatementLength] + "..."
	}
	return trimmed
}
