package media

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Observer receives one call per store operation.
type Observer interface {
	ObserveStoreOp(op string, err error, elapsed time.Duration)
}

type instrumentedStore struct {
	next   Store
	obs    Observer
	tracer trace.Tracer
}

// Instrument wraps a Store with a span and an Observer call per operation.
func Instrument(next Store, obs Observer) Store {
	return &instrumentedStore{
		next:   next,
		obs:    obs,
		tracer: otel.Tracer("github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"),
	}
}

func (s *instrumentedStore) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "media."+op, trace.WithAttributes(attrs...))
	began := time.Now()
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if s.obs != nil {
			s.obs.ObserveStoreOp(op, err, time.Since(began))
		}
	}
}

func (s *instrumentedStore) Append(ctx context.Context, rec Record) error {
	ctx, done := s.start(ctx, "append",
		attribute.String("media.kind", string(rec.Kind)),
		attribute.String("media.category_type", string(rec.CategoryType)),
	)
	err := s.next.Append(ctx, rec)
	done(err)
	return err
}

func (s *instrumentedStore) Query(ctx context.Context, key FilterKey, value string, kind Kind) ([]string, error) {
	ctx, done := s.start(ctx, "query",
		attribute.String("media.filter_key", string(key)),
		attribute.String("media.kind", string(kind)),
	)
	ids, err := s.next.Query(ctx, key, value, kind)
	done(err)
	return ids, err
}

func (s *instrumentedStore) DistinctCategories(ctx context.Context, ct CategoryType) ([]string, error) {
	ctx, done := s.start(ctx, "categories", attribute.String("media.category_type", string(ct)))
	names, err := s.next.DistinctCategories(ctx, ct)
	done(err)
	return names, err
}

func (s *instrumentedStore) ClearAll(ctx context.Context) error {
	ctx, done := s.start(ctx, "clear")
	err := s.next.ClearAll(ctx)
	done(err)
	return err
}

func (s *instrumentedStore) Records(ctx context.Context) ([]Record, error) {
	lister, ok := s.next.(Lister)
	if !ok {
		return nil, Wrap("records", ErrNotListable)
	}
	ctx, done := s.start(ctx, "records")
	records, err := lister.Records(ctx)
	done(err)
	return records, err
}
