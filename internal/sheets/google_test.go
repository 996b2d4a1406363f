package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeGoogle struct {
	mutex   sync.Mutex
	files   string
	updates map[string][]any
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/files":
		_, _ = w.Write([]byte(f.files))
	case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/sheet-id":
		_, _ = w.Write([]byte(`{"spreadsheetId": "sheet-id", "sheets": [{"properties": {"title": "Prices"}}]}`))
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-id/values/"):
		if r.URL.Query().Get("valueInputOption") != "USER_ENTERED" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rng := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/sheet-id/values/")

		f.mutex.Lock()
		f.updates[rng] = body.Values[0]
		f.mutex.Unlock()

		_, _ = w.Write([]byte(`{"spreadsheetId": "sheet-id", "updatedCells": 1}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": 404, "message": "not found"}}`))
	}
}

func newFakeGoogle(t testing.TB, files string) (*fakeGoogle, []option.ClientOption) {
	t.Helper()
	fake := &fakeGoogle{files: files, updates: map[string][]any{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	return fake, []option.ClientOption{
		option.WithEndpoint(server.URL + "/"),
		option.WithHTTPClient(server.Client()),
	}
}

const oneFile = `{"files": [{"id": "sheet-id", "name": "Flights"}]}`

func TestGoogleWorksheetUpdateCell(t *testing.T) {
	fake, clientOpts := newFakeGoogle(t, oneFile)
	ctx := context.Background()

	ws, err := OpenGoogle(ctx, GoogleOptions{
		Spreadsheet:   "Flights",
		Worksheet:     "Prices",
		ClientOptions: clientOpts,
	})
	require.NoError(t, err)
	require.NoError(t, ws.UpdateCell(ctx, 1, 2, 245))
	require.NoError(t, ws.Close())

	require.Equal(t, map[string][]any{"'Prices'!B1": {float64(245)}}, fake.updates)
}

func TestGoogleSpreadsheetNotFound(t *testing.T) {
	_, clientOpts := newFakeGoogle(t, `{"files": []}`)

	_, err := OpenGoogle(context.Background(), GoogleOptions{
		Spreadsheet:   "Missing",
		Worksheet:     "Prices",
		ClientOptions: clientOpts,
	})
	require.True(t, errors.Is(err, ErrSpreadsheetNotFound), err)
}

func TestGoogleWorksheetNotFound(t *testing.T) {
	_, clientOpts := newFakeGoogle(t, oneFile)

	_, err := OpenGoogle(context.Background(), GoogleOptions{
		Spreadsheet:   "Flights",
		Worksheet:     "Other",
		ClientOptions: clientOpts,
	})
	require.True(t, errors.Is(err, ErrWorksheetNotFound), err)
}
