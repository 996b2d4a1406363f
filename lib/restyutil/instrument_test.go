package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput map[string]string

func (m memoryOutput) Write(id string, contents string) {
	m[id] = contents
}

func TestInstrumentClientDumpsExchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "http://example.com/pricing/abc123")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))
	defer server.Close()

	out := memoryOutput{}
	client := resty.New()
	InstrumentClient(client, nil, out)

	_, err := client.R().
		SetHeader("X-RapidAPI-Key", "secret").
		SetFormData(map[string]string{"adults": "1"}).
		Post(server.URL + "/pricing")
	require.NoError(t, err)

	require.Len(t, out, 1)
	dump := out["1"]
	require.Contains(t, dump, "POST "+server.URL+"/pricing")
	require.Contains(t, dump, "201 http://example.com/pricing/abc123")
	require.Contains(t, dump, "adults=1")
	require.Contains(t, dump, "created")
	require.NotContains(t, dump, "secret")
}

func TestInstrumentClientWithoutOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client := resty.New()
	InstrumentClient(client, nil, nil)

	res, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("1", "hello")
	contents, err := os.ReadFile(out.Path("1"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
	require.Equal(t, dir, filepath.Dir(out.Path("1")))
}

func TestFilesystemOutputKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "sessions.csv")
	require.NoError(t, os.WriteFile(existing, []byte("abc,def\n"), 0o600))

	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	contents, err := os.ReadFile(existing)
	require.NoError(t, err)
	require.Equal(t, "abc,def\n", string(contents))

	// a file already sitting at the dump path is left untouched
	require.NoError(t, os.WriteFile(out.Path("1"), []byte("earlier"), 0o600))
	out.Write("1", "later")
	contents, err = os.ReadFile(out.Path("1"))
	require.NoError(t, err)
	require.Equal(t, "earlier", string(contents))

	out.Write("2", "exchange")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestFormatHeadersSorted(t *testing.T) {
	rendered := formatHeaders(http.Header{
		"B-Header":       {"2"},
		"A-Header":       {"1"},
		"X-Rapidapi-Key": {"key"},
	})
	require.Equal(t, strings.Join([]string{
		"A-Header: 1",
		"B-Header: 2",
		"X-Rapidapi-Key: <redacted>",
	}, "\n"), rendered)
}
