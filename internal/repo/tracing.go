package repo

import (
	"context"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// startSpan opens a Mongo span; call the returned func with the operation's error.
// Without a running tracer the span is a no-op.
func startSpan(ctx context.Context, op string, opts ...tracer.StartSpanOption) (context.Context, func(error)) {
	opts = append(opts,
		tracer.SpanType(ext.SpanTypeMongoDB),
		tracer.Tag(ext.DBSystem, ext.DBSystemMongoDB),
	)
	span, ctx := tracer.StartSpanFromContext(ctx, "mongo."+op, opts...)
	return ctx, func(err error) {
		span.Finish(tracer.WithError(err))
	}
}
