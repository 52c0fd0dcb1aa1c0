package database

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

type queryStartKey struct{}

// LoggingQueryTracer logs every statement sent through the pool.
type LoggingQueryTracer struct {
	log *logrus.Logger
}

func NewLoggingQueryTracer(log *logrus.Logger) *LoggingQueryTracer {
	return &LoggingQueryTracer{log: log}
}

var collapseSpaces = regexp.MustCompile(`\s+`)

// prettyPrintSQL folds a multi-line statement onto one line.
func prettyPrintSQL(sql string) string {
	pretty := collapseSpaces.ReplaceAllString(sql, " ")
	pretty = strings.ReplaceAll(pretty, "( ", "(")
	pretty = strings.ReplaceAll(pretty, " )", ")")
	return strings.TrimSpace(pretty)
}

func (t *LoggingQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	t.log.WithFields(logrus.Fields{
		"sql":  prettyPrintSQL(data.SQL),
		"args": data.Args,
	}).Debug("query start")
	return context.WithValue(ctx, queryStartKey{}, time.Now())
}

func (t *LoggingQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	fields := logrus.Fields{
		"command_tag": data.CommandTag.String(),
	}
	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		fields["duration_ms"] = time.Since(start).Milliseconds()
	}

	if data.Err != nil {
		t.log.WithFields(fields).WithError(data.Err).Error("query end")
		return
	}
	t.log.WithFields(fields).Debug("query end")
}
