// Package poller reads the cheapest fare of every session in a grid and
// writes it into a worksheet.
package poller

import (
	"context"
	"fmt"

	"farescan/internal/components/telemetry"
	"farescan/internal/grid"
	"farescan/internal/sheets"
	"farescan/internal/skyscanner"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_poller_poll  = "poller.poll"
	report_poller_fare  = "poller.fare"
	report_poller_write = "poller.write"
)

var (
	tracer = otel.Tracer("farescan/poller")
	meter  = otel.Meter("farescan/poller")
)

// SessionPoller is satisfied by *skyscanner.Client.
type SessionPoller interface {
	PollSession(ctx context.Context, sessionId string) (skyscanner.PollResponse, error)
}

// Origin is the 1-based spreadsheet cell that grid cell (0, 0) maps to.
type Origin struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellFor maps grid cell (i, j) to spreadsheet (row, col).
func CellFor(origin Origin, i, j int) (row, col int) {
	return origin.Y + i, origin.X + j
}

type Poller struct {
	sessions SessionPoller
	sheet    sheets.Worksheet
	origin   Origin
	tel      telemetry.API
	fares    metric.Float64Histogram
}

// NewPoller makes a Poller, `tel` can be nil.
func NewPoller(sessions SessionPoller, sheet sheets.Worksheet, origin Origin, tel telemetry.API) Poller {
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}
	fares, err := meter.Float64Histogram(
		"farescan.fare",
		metric.WithDescription("Cheapest direct fare of a polled session."),
	)
	if err != nil {
		otel.Handle(err)
	}
	return Poller{
		sessions: sessions,
		sheet:    sheet,
		origin:   origin,
		tel:      telemetry.NewScopedAPI("poller", tel),
		fares:    fares,
	}
}

// Run polls every session in row-major order and writes its cheapest fare,
// one poll and one write per cell. It stops at the first failure, cells
// written before it are left in place.
func (p Poller) Run(ctx context.Context, sessions grid.Grid) error {
	ctx, span := tracer.Start(ctx, "poller:Run")
	defer span.End()

	for i, row := range sessions {
		for j, sessionId := range row {
			res, err := p.sessions.PollSession(ctx, sessionId)
			if err != nil {
				p.tel.ReportBroken(report_poller_poll, err, i, j)
				return fmt.Errorf("poll session %q (cell %d,%d): %w", sessionId, i, j, err)
			}

			cheapest, err := res.Cheapest()
			if err != nil {
				p.tel.ReportBroken(report_poller_fare, err, i, j)
				return fmt.Errorf("cell %d,%d: %w", i, j, err)
			}

			if i == 0 && j == 0 {
				p.tel.ReportProgress(
					"quote age",
					"age", fmt.Sprintf("%dhrs %dmins", cheapest.QuoteAgeInMinutes/60, cheapest.QuoteAgeInMinutes%60),
				)
			}

			p.tel.ReportDebug(
				"polled session",
				res.SessionKey,
				res.Query.OutboundDate,
				res.Query.InboundDate,
				cheapest.Price,
			)
			if p.fares != nil {
				p.fares.Record(ctx, cheapest.Price)
			}

			rowIdx, colIdx := CellFor(p.origin, i, j)
			err = p.sheet.UpdateCell(ctx, rowIdx, colIdx, cheapest.Price)
			if err != nil {
				p.tel.ReportBroken(report_poller_write, err, rowIdx, colIdx)
				return fmt.Errorf("write cell %d,%d: %w", rowIdx, colIdx, err)
			}

			p.tel.ReportProgress(
				"best price",
				"outbound", res.Query.OutboundDate,
				"inbound", res.Query.InboundDate,
				"price", cheapest.Price,
				"row", rowIdx,
				"col", colIdx,
			)
		}
	}
	return nil
}
