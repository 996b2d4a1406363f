// Package sessions opens one live pricing session for every pair of arrival
// and departure dates.
package sessions

import (
	"context"
	"fmt"

	"farescan/internal/components/telemetry"
	"farescan/internal/daterange"
	"farescan/internal/grid"
	"farescan/internal/skyscanner"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const report_generator_create = "generator.create"

var (
	tracer = otel.Tracer("farescan/sessions")
	meter  = otel.Meter("farescan/sessions")
)

// SessionCreator is satisfied by *skyscanner.Client.
type SessionCreator interface {
	CreateSession(ctx context.Context, req skyscanner.SessionRequest) (string, error)
}

type GenerateRequest struct {
	Trip      skyscanner.TripParams
	Arrival   daterange.Range
	Departure daterange.Range
}

type Generator struct {
	creator SessionCreator
	tel     telemetry.API
	created metric.Int64Counter
}

// NewGenerator makes a Generator, `tel` can be nil.
func NewGenerator(creator SessionCreator, tel telemetry.API) Generator {
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	created, err := meter.Int64Counter(
		"farescan.sessions.created",
		metric.WithDescription("Number of live pricing sessions created."),
	)
	if err != nil {
		otel.Handle(err)
	}
	return Generator{
		creator: creator,
		tel:     telemetry.NewScopedAPI("sessions", tel),
		created: created,
	}
}

// Generate creates the sessions row by row, arrival dates on the outer loop
// and departure dates on the inner loop, both ascending. It stops at the first
// failure and returns no grid.
func (g Generator) Generate(ctx context.Context, req GenerateRequest) (grid.Grid, error) {
	ctx, span := tracer.Start(ctx, "generator:Generate")
	defer span.End()

	arrivals := req.Arrival.Dates()
	departures := req.Departure.Dates()
	out := grid.New(len(arrivals), len(departures))

	for i, arrival := range arrivals {
		for j, departure := range departures {
			id, err := g.creator.CreateSession(ctx, skyscanner.SessionRequest{
				Trip:         req.Trip,
				OutboundDate: departure,
				InboundDate:  arrival,
			})
			if err != nil {
				g.tel.ReportBroken(report_generator_create, err, i, j)
				return nil, fmt.Errorf(
					"create session for %s to %s (cell %d,%d): %w",
					daterange.Format(departure), daterange.Format(arrival), i, j, err,
				)
			}
			out[i][j] = id
			if g.created != nil {
				g.created.Add(ctx, 1)
			}

			g.tel.ReportProgress(
				"created session",
				"outbound", daterange.Format(departure),
				"inbound", daterange.Format(arrival),
				"session", id,
			)
		}
	}

	g.tel.ReportCount("sessions", int64(len(arrivals)*len(departures)))
	return out, nil
}
