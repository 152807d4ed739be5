package aura

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/udisondev/auracore/internal/game/aura"

// metrics are lifecycle counters. Without a MeterProvider they are no-ops.
type metrics struct {
	created   metric.Int64Counter
	removed   metric.Int64Counter
	refreshed metric.Int64Counter
	procs     metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) *metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)
	return &metrics{
		created:   counter(meter, "aura.created", "Auras created"),
		removed:   counter(meter, "aura.removed", "Auras removed, by remove mode"),
		refreshed: counter(meter, "aura.refreshed", "Existing auras refreshed or stacked by a recast"),
		procs:     counter(meter, "aura.procs", "Procs triggered"),
	}
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Warn("aura metric disabled", "metric", name, "error", err)
		c, _ = noop.NewMeterProvider().Meter(meterName).Int64Counter(name)
	}
	return c
}

func (mt *metrics) auraCreated(spellID uint32) {
	mt.created.Add(context.Background(), 1, metric.WithAttributes(attribute.Int64("spell", int64(spellID))))
}

func (mt *metrics) auraRemoved(mode RemoveMode) {
	mt.removed.Add(context.Background(), 1, metric.WithAttributes(attribute.String("mode", mode.String())))
}

func (mt *metrics) auraRefreshed() {
	mt.refreshed.Add(context.Background(), 1)
}

func (mt *metrics) procTriggered(spellID uint32) {
	mt.procs.Add(context.Background(), 1, metric.WithAttributes(attribute.Int64("spell", int64(spellID))))
}
