package lockcov

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ClassCount is the folded count of a class. Methods and Fields are tallies
// of declarations; only Total and Locked feed the percentage.
type ClassCount struct {
	Total   int
	Locked  int
	Methods int
	Fields  int
}

// Aggregate sums method counts. The result does not depend on argument order.
func Aggregate(counts ...MethodCount) ClassCount {
	out := ClassCount{Methods: len(counts)}

	for _, c := range counts {
		out.Total += c.Total
		out.Locked += c.Locked
	}

	return out
}

// MethodReport is the per-method breakdown of an analysis.
type MethodReport struct {
	Name         string
	Descriptor   string
	Synchronized bool
	Events       int
	Count        MethodCount
}

// Result is the outcome of analyzing one class.
type Result struct {
	Class   string
	Count   ClassCount
	Methods []MethodReport
}

// Percent returns the rounded locked percentage of the class.
func (r *Result) Percent() float64 {
	return Percent(r.Count)
}

// Analyzer classifies the methods of a class and folds their counts.
// The zero value classifies sequentially without logging or tracing.
type Analyzer struct {
	// Workers bounds parallel method classification; values below 2 run sequentially.
	Workers int
	Logger  *slog.Logger
	Tracer  trace.Tracer
}

// Analyze classifies every method of unit.
func (a *Analyzer) Analyze(ctx context.Context, unit ClassUnit) (*Result, error) {
	ctx, span := a.tracer().Start(ctx, "lockcov.analyze",
		trace.WithAttributes(
			attribute.String("class.name", unit.Name),
			attribute.Int("class.methods", len(unit.Methods)),
			attribute.Int("class.fields", len(unit.Fields)),
		),
	)
	defer span.End()

	counts, err := a.classifyAll(ctx, unit.Methods)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("analyze %s: %w", unit.Name, err)
	}

	result := &Result{
		Class:   unit.Name,
		Count:   Aggregate(counts...),
		Methods: make([]MethodReport, 0, len(unit.Methods)),
	}
	result.Count.Fields = len(unit.Fields)

	for i, m := range unit.Methods {
		result.Methods = append(result.Methods, MethodReport{
			Name:         m.Name,
			Descriptor:   m.Descriptor,
			Synchronized: m.Synchronized,
			Events:       len(m.Events),
			Count:        counts[i],
		})
	}

	span.SetAttributes(
		attribute.Int("analysis.total", result.Count.Total),
		attribute.Int("analysis.locked", result.Count.Locked),
		attribute.Float64("analysis.percent", result.Percent()),
	)

	a.logger().InfoContext(ctx, "class analyzed",
		"class", unit.Name,
		"methods", result.Count.Methods,
		"fields", result.Count.Fields,
		"total", result.Count.Total,
		"locked", result.Count.Locked,
	)

	return result, nil
}

// classifyAll returns one count per method, index-aligned with methods.
func (a *Analyzer) classifyAll(ctx context.Context, methods []MethodUnit) ([]MethodCount, error) {
	counts := make([]MethodCount, len(methods))

	if a.Workers < 2 || len(methods) < 2 {
		for i := range methods {
			c, err := a.classify(ctx, methods[i])
			if err != nil {
				return nil, err
			}

			counts[i] = c
		}

		return counts, nil
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError().WithMaxGoroutines(a.Workers)

	for i := range methods {
		p.Go(func(ctx context.Context) error {
			c, err := a.classify(ctx, methods[i])
			if err != nil {
				return err
			}

			// Each goroutine owns its slot.
			counts[i] = c

			return nil
		})
	}

	err := p.Wait()
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (a *Analyzer) classify(ctx context.Context, m MethodUnit) (MethodCount, error) {
	err := ctx.Err()
	if err != nil {
		return MethodCount{}, fmt.Errorf("classify %s: %w", m.Name, err)
	}

	c, err := ClassifyMethod(m)
	if err != nil {
		return MethodCount{}, err
	}

	a.logger().DebugContext(ctx, "method classified",
		"method", m.Name+m.Descriptor,
		"synchronized", m.Synchronized,
		"events", len(m.Events),
		"total", c.Total,
		"locked", c.Locked,
	)

	return c, nil
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return a.Logger
}

func (a *Analyzer) tracer() trace.Tracer {
	if a.Tracer == nil {
		return noop.NewTracerProvider().Tracer("lockcov")
	}

	return a.Tracer
}
