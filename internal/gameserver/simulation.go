package gameserver

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/udisondev/auracore/internal/game/aura"
)

const tracerName = "github.com/udisondev/auracore/internal/gameserver"

// Simulation owns the aura manager and drives it from a single goroutine.
// Other goroutines reach the manager only through Submit.
type Simulation struct {
	manager  *aura.Manager
	interval time.Duration
	tracer   trace.Tracer
	commands chan func(*aura.Manager)
	now      func() time.Time
	ticks    uint64
}

// SimulationOption configures a Simulation.
type SimulationOption func(*Simulation)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) SimulationOption {
	return func(s *Simulation) { s.tracer = tp.Tracer(tracerName) }
}

// NewSimulation creates a loop ticking every interval.
func NewSimulation(m *aura.Manager, interval time.Duration, opts ...SimulationOption) *Simulation {
	s := &Simulation{
		manager:  m,
		interval: interval,
		tracer:   otel.Tracer(tracerName),
		commands: make(chan func(*aura.Manager), 64),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit queues fn to run on the simulation goroutine before the next tick.
// Returns ctx.Err() if ctx is done first.
func (s *Simulation) Submit(ctx context.Context, fn func(*aura.Manager)) error {
	select {
	case s.commands <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run ticks until ctx is canceled. Queued commands are drained before return.
func (s *Simulation) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("simulation started", "interval", s.interval)
	last := s.now()
	for {
		select {
		case <-ctx.Done():
			s.drain()
			slog.Info("simulation stopped", "ticks", s.ticks)
			return nil
		case fn := <-s.commands:
			fn(s.manager)
		case <-ticker.C:
			now := s.now()
			s.tick(ctx, now.Sub(last))
			last = now
		}
	}
}

func (s *Simulation) drain() {
	for {
		select {
		case fn := <-s.commands:
			fn(s.manager)
		default:
			return
		}
	}
}

func (s *Simulation) tick(ctx context.Context, elapsed time.Duration) {
	_, span := s.tracer.Start(ctx, "aura.tick",
		trace.WithAttributes(attribute.Int64("aura.elapsed_us", elapsed.Microseconds())))
	defer span.End()

	s.manager.Update(elapsed)
	s.ticks++
	span.SetAttributes(attribute.Int64("aura.clock_ms", s.manager.Now()))
}
