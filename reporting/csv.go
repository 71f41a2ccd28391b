// CSV export of an analysis result: one file per table, named after
// the table's display name, header row written verbatim as row 0.

package reporting

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/pkg/errors"
)

// WriteCSVFiles writes each table into directory and returns the paths
// written.
func WriteCSVFiles(tables *ordereddict.Dict, directory string) ([]string, error) {
	err := os.MkdirAll(directory, 0700)
	if err != nil {
		return nil, err
	}

	var written []string
	used := make(map[string]bool)

	for _, name := range tables.Keys() {
		value, _ := tables.Get(name)
		rows, ok := value.([][]string)
		if !ok {
			continue
		}

		// Different display names can sanitize to the same
		// filename.
		base := sanitizeName(name)
		for i := 2; used[base]; i++ {
			base = sanitizeName(name) + "-" + strconv.Itoa(i)
		}
		used[base] = true

		filename := filepath.Join(directory, base+".csv")
		err := writeTable(filename, rows)
		if err != nil {
			return written, errors.Wrapf(err, "writing %v", filename)
		}
		written = append(written, filename)
	}

	return written, nil
}

func writeTable(filename string, rows [][]string) error {
	fd, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fd.Close()

	writer := csv.NewWriter(fd)
	err = writer.WriteAll(rows)
	if err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

// Display names come from spreadsheet sheet titles and may carry
// characters that are not filename safe.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_', r == ' ', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
