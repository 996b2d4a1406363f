package sessions

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"farescan/internal/components/telemetry"
	"farescan/internal/daterange"
	"farescan/internal/grid"
	"farescan/internal/skyscanner"
	"farescan/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type createCall struct {
	outbound string
	inbound  string
}

type fakeCreator struct {
	calls  []createCall
	failAt int
}

func (f *fakeCreator) CreateSession(ctx context.Context, req skyscanner.SessionRequest) (string, error) {
	call := createCall{
		outbound: daterange.Format(req.OutboundDate),
		inbound:  daterange.Format(req.InboundDate),
	}
	f.calls = append(f.calls, call)
	if f.failAt > 0 && len(f.calls) == f.failAt {
		return "", errors.New("connection reset")
	}
	return fmt.Sprintf("%s_%s", call.inbound, call.outbound), nil
}

var testTrip = skyscanner.TripParams{
	Country:          "AU",
	Currency:         "AUD",
	Locale:           "en-AU",
	OriginPlace:      "SYD-sky",
	DestinationPlace: "WLG-sky",
	Adults:           1,
	CabinClass:       "economy",
}

func mustRange(t testing.TB, start string, count int) daterange.Range {
	t.Helper()
	r, err := daterange.Parse(start, count)
	require.NoError(t, err)
	return r
}

func TestGenerateScenario(t *testing.T) {
	creator := &fakeCreator{}
	rec := &telemetry.Recorder{}
	gen := NewGenerator(creator, rec)

	out, err := gen.Generate(context.Background(), GenerateRequest{
		Trip:      testTrip,
		Arrival:   mustRange(t, "2024-01-01", 1),
		Departure: mustRange(t, "2024-01-05", 2),
	})
	require.NoError(t, err)

	require.Equal(t, []createCall{
		{outbound: "2024-01-05", inbound: "2024-01-01"},
		{outbound: "2024-01-06", inbound: "2024-01-01"},
	}, creator.calls)
	require.Empty(t, cmp.Diff(grid.Grid{
		{"2024-01-01_2024-01-05", "2024-01-01_2024-01-06"},
	}, out))
	require.Len(t, rec.Reports("progress"), 2)
}

func TestGenerateDimensions(t *testing.T) {
	for arrivals := 0; arrivals <= 3; arrivals++ {
		for departures := 0; departures <= 3; departures++ {
			creator := &fakeCreator{}
			gen := NewGenerator(creator, &telemetry.Recorder{})

			arrival := mustRange(t, "2024-03-30", arrivals)
			departure := mustRange(t, "2024-03-25", departures)
			out, err := gen.Generate(context.Background(), GenerateRequest{
				Trip:      testTrip,
				Arrival:   arrival,
				Departure: departure,
			})
			require.NoError(t, err)
			require.Equal(t, arrivals, out.Rows())
			require.Len(t, creator.calls, arrivals*departures)

			for i := 0; i < arrivals; i++ {
				require.Len(t, out[i], departures)
				for j := 0; j < departures; j++ {
					expect := fmt.Sprintf(
						"%s_%s",
						daterange.Format(arrival.At(i)),
						daterange.Format(departure.At(j)),
					)
					require.Equal(t, expect, out[i][j])
				}
			}
		}
	}
}

func TestGenerateRowMajorOrder(t *testing.T) {
	creator := &fakeCreator{}
	gen := NewGenerator(creator, &telemetry.Recorder{})

	_, err := gen.Generate(context.Background(), GenerateRequest{
		Trip:      testTrip,
		Arrival:   mustRange(t, "2024-01-10", 2),
		Departure: mustRange(t, "2024-01-01", 2),
	})
	require.NoError(t, err)
	require.Equal(t, []createCall{
		{outbound: "2024-01-01", inbound: "2024-01-10"},
		{outbound: "2024-01-02", inbound: "2024-01-10"},
		{outbound: "2024-01-01", inbound: "2024-01-11"},
		{outbound: "2024-01-02", inbound: "2024-01-11"},
	}, creator.calls)
}

func TestGenerateStopsOnFirstError(t *testing.T) {
	creator := &fakeCreator{failAt: 2}
	rec := &telemetry.Recorder{}
	gen := NewGenerator(creator, rec)

	out, err := gen.Generate(context.Background(), GenerateRequest{
		Trip:      testTrip,
		Arrival:   mustRange(t, "2024-01-01", 2),
		Departure: mustRange(t, "2024-01-05", 2),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
	require.Nil(t, out)
	require.Len(t, creator.calls, 2)
	require.Len(t, rec.Reports("broken"), 1)
}

func TestGenerateCountsSessions(t *testing.T) {
	tel := testutil.SetupTelemetry(t)

	gen := NewGenerator(&fakeCreator{}, &telemetry.Recorder{})
	_, err := gen.Generate(context.Background(), GenerateRequest{
		Trip:      testTrip,
		Arrival:   mustRange(t, "2024-01-01", 2),
		Departure: mustRange(t, "2024-01-05", 3),
	})
	require.NoError(t, err)

	require.EqualValues(t, 6, tel.Collect(t).Int64Sum("farescan.sessions.created"))
	require.Contains(t, tel.SpanNames(), "generator:Generate")
}
