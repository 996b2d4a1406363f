package grid

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []Grid{
		{},
		{{"a1"}},
		{{}, {}},
		{{""}},
		{{""}, {"x"}},
		{{"", ""}},
		{{"a\nb", "c"}},
		{{"quoted \"id\"", "with,comma"}},
		{{"abc123", "def456", "ghi789"}},
		{
			{"r0c0", "r0c1", "r0c2"},
			{"r1c0", "r1c1", "r1c2"},
		},
		{{"5f0c1e1a-8d3b-4a7a-9c4f-1b2c3d4e5f60_ecilpojl_2A5E8F7E8E0F4C0A8A7E1F2B3C4D5E6F"}},
	}

	for _, original := range cases {
		buff := &bytes.Buffer{}
		require.NoError(t, Write(buff, original))

		read, err := Read(buff)
		require.NoError(t, err)
		require.Equal(t, original.Rows(), read.Rows())
		require.Equal(t, original.Columns(), read.Columns())
		if diff := cmp.Diff(original, read); diff != "" {
			t.Fatalf("grid changed after round trip (-want +got):\n%s", diff)
		}
	}
}

func TestWriteFormat(t *testing.T) {
	buff := &bytes.Buffer{}
	err := Write(buff, Grid{{"a", "b"}, {"c", "d"}})
	require.NoError(t, err)
	require.Equal(t, "a,b\nc,d\n", buff.String())
}

func TestWriteEmptyCells(t *testing.T) {
	buff := &bytes.Buffer{}
	err := Write(buff, Grid{{""}, {"x"}})
	require.NoError(t, err)
	require.Equal(t, "\"\"\nx\n", buff.String())

	buff.Reset()
	err = Write(buff, Grid{{}, {}})
	require.NoError(t, err)
	require.Equal(t, "\n\n", buff.String())
}

func TestReadCRLF(t *testing.T) {
	g, err := Read(bytes.NewBufferString("a,b\r\nc,d\r\n"))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(Grid{{"a", "b"}, {"c", "d"}}, g))
}

func TestReadRagged(t *testing.T) {
	_, err := Read(bytes.NewBufferString("a,b\nc\n"))
	require.ErrorIs(t, err, ErrRaggedGrid)
}

func TestNew(t *testing.T) {
	g := New(2, 3)
	require.Equal(t, 2, g.Rows())
	require.Equal(t, 3, g.Columns())
	require.Equal(t, 0, New(0, 3).Columns())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Documents", "sessions.csv")
	original := Grid{{"abc", "def"}}

	require.NoError(t, WriteFile(path, original))
	read, err := ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(original, read))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "Documents", "sessions.csv"), path)
}
