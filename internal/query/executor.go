package query

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"conferencecentral/internal/domain"
)

var tracer = otel.Tracer("conferencecentral/internal/query")

// FetchFunc loads the candidate set, typically with the equality predicates
// pushed down to the store.
type FetchFunc[E any] func(ctx context.Context) ([]E, error)

// Future is the pending result of a Generic query.
type Future[R any] struct {
	done  chan struct{}
	items []R
	err   error
}

// Wait blocks until the query completes or ctx is done.
func (f *Future[R]) Wait(ctx context.Context) ([]R, error) {
	select {
	case <-f.done:
		return f.items, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Generic starts fetch on its own goroutine and returns immediately. Each
// fetched candidate that satisfies ineq is transformed and collected in fetch
// order.
func Generic[E domain.FieldGetter, R any](ctx context.Context, fetch FetchFunc[E], ineq []domain.Predicate, transform func(E) R) *Future[R] {
	f := &Future[R]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		ctx, span := tracer.Start(ctx, "query.Generic")
		defer span.End()

		candidates, err := fetch(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			f.err = err
			return
		}
		items := make([]R, 0, len(candidates))
		for _, c := range candidates {
			if Matches(c, ineq) {
				items = append(items, transform(c))
			}
		}
		span.SetAttributes(
			attribute.Int("query.candidates", len(candidates)),
			attribute.Int("query.matches", len(items)),
		)
		f.items = items
	}()
	return f
}
