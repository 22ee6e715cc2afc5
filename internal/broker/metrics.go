package broker

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/indigo-web/reqqueue"

// bg is the context instruments are recorded with. Measurements never block.
var bg = context.Background()

type metrics struct {
	accepted   metric.Int64Counter
	closed     metric.Int64Counter
	parsed     metric.Int64Counter
	rejected   metric.Int64Counter
	dispatched metric.Int64Counter
	pending    metric.Int64UpDownCounter
}

func newMetrics(provider metric.MeterProvider) (m metrics, err error) {
	meter := provider.Meter(meterName)

	counters := []struct {
		dst         *metric.Int64Counter
		name, descr string
	}{
		{&m.accepted, "reqqueue.connections.accepted", "Connections accepted on bound ports"},
		{&m.closed, "reqqueue.connections.closed", "Connections closed for any reason"},
		{&m.parsed, "reqqueue.requests.parsed", "Requests parsed completely"},
		{&m.rejected, "reqqueue.requests.rejected", "Requests answered with 400 Bad Request"},
		{&m.dispatched, "reqqueue.requests.dispatched", "Requests handed out to consumers"},
	}

	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.descr), metric.WithUnit("{count}"))
		if err != nil {
			return m, err
		}
	}

	m.pending, err = meter.Int64UpDownCounter(
		"reqqueue.receives.pending",
		metric.WithDescription("Receives waiting for a request"),
		metric.WithUnit("{count}"),
	)

	return m, err
}
