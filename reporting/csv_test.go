package reporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVFiles(t *testing.T) {
	tables := ordereddict.NewDict().
		Set("Application Usage", [][]string{
			{"ID", "Application"},
			{"1", `C:\Windows\app.exe`},
			{"2", `quoted "name"`},
		}).
		Set("Network/Data Usage", [][]string{
			{"Bytes"},
			{"42"},
		})

	directory := t.TempDir()
	written, err := WriteCSVFiles(tables, directory)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(directory, "Application Usage.csv"),
		filepath.Join(directory, "Network_Data Usage.csv"),
	}, written)

	fd, err := os.Open(written[0])
	require.NoError(t, err)
	defer fd.Close()

	rows, err := csv.NewReader(fd).ReadAll()
	require.NoError(t, err)

	// Row 0 is the header, written verbatim; quoting round trips.
	assert.Equal(t, [][]string{
		{"ID", "Application"},
		{"1", `C:\Windows\app.exe`},
		{"2", `quoted "name"`},
	}, rows)
}

func TestWriteCSVFilesDisambiguatesClashes(t *testing.T) {
	tables := ordereddict.NewDict().
		Set("Network/Data Usage", [][]string{{"Bytes"}, {"1"}}).
		Set("Network_Data Usage", [][]string{{"Bytes"}, {"2"}}).
		Set("Network?Data Usage", [][]string{{"Bytes"}, {"3"}})

	directory := t.TempDir()
	written, err := WriteCSVFiles(tables, directory)
	require.NoError(t, err)

	// All three names sanitize to the same filename; each table
	// still gets its own file.
	assert.Equal(t, []string{
		filepath.Join(directory, "Network_Data Usage.csv"),
		filepath.Join(directory, "Network_Data Usage-2.csv"),
		filepath.Join(directory, "Network_Data Usage-3.csv"),
	}, written)

	for i, expected := range []string{"1", "2", "3"} {
		fd, err := os.Open(written[i])
		require.NoError(t, err)

		rows, err := csv.NewReader(fd).ReadAll()
		fd.Close()
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Bytes"}, {expected}}, rows)
	}
}

func TestWriteCSVFilesCreatesDirectory(t *testing.T) {
	tables := ordereddict.NewDict().
		Set("T", [][]string{{"A"}, {"1"}})

	directory := filepath.Join(t.TempDir(), "nested", "out")
	written, err := WriteCSVFiles(tables, directory)
	require.NoError(t, err)
	assert.Len(t, written, 1)
}
