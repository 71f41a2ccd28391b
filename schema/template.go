// Loader for the SRUM field template workbook. The workbook drives the
// whole interpretation pass: ordinary sheets declare, per ESE table,
// which columns are shown under which labels and how each cell is
// formatted; sheets named with the lookup marker carry key to display
// value tables referenced by lookup directives.

package schema

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Sheets whose name starts with this marker (case insensitive) are
// lookup tables rather than table templates.
const lookupMarker = "lookup-"

type Field struct {
	// Style index of the label cell, for spreadsheet report
	// writers.
	Style int

	// The format directive, eg "ole:%Y-%m-%d" or "lookup_id".
	Format string

	// The display label for the header row.
	Label string
}

type TableTemplate struct {
	DisplayName string

	// Keyed by the ESE column's source name.
	Fields map[string]Field
}

type Template struct {
	// Keyed by the ESE table's internal name.
	Tables map[string]TableTemplate

	// Named lookup tables, keyed by the name after the marker.
	Lookups map[string]map[string]string
}

func LoadFile(filename string) (*Template, error) {
	workbook, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer workbook.Close()

	return Load(workbook)
}

// Load walks the workbook once, splitting sheets into lookups and
// table templates. Sheet layout for templates: A1 names the ESE table,
// row 2 holds source column names (scan stops at the first blank), row
// 3 the format directive, row 4 the display label (defaulting to the
// source name). The sheet's own name is the table's display name.
func Load(workbook *excelize.File) (*Template, error) {
	result := &Template{
		Tables:  make(map[string]TableTemplate),
		Lookups: make(map[string]map[string]string),
	}

	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return nil, errors.Wrapf(err, "reading sheet %v", sheet)
		}

		if strings.HasPrefix(strings.ToLower(sheet), lookupMarker) {
			name := sheet[len(lookupMarker):]
			result.Lookups[name] = loadLookup(rows)
			continue
		}

		table_name, table := loadTableTemplate(workbook, sheet, rows)
		if table_name != "" {
			result.Tables[table_name] = table
		}
	}

	return result, nil
}

func loadLookup(rows [][]string) map[string]string {
	result := make(map[string]string)

	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		value := ""
		if len(row) > 1 {
			value = row[1]
		}
		result[row[0]] = value
	}
	return result
}

func loadTableTemplate(workbook *excelize.File, sheet string,
	rows [][]string) (string, TableTemplate) {

	table_name := cell(rows, 0, 0)
	if table_name == "" {
		return "", TableTemplate{}
	}

	template := TableTemplate{
		DisplayName: sheet,
		Fields:      make(map[string]Field),
	}

	for column := 0; ; column++ {
		field_name := cell(rows, 1, column)
		if field_name == "" {
			break
		}

		label := cell(rows, 3, column)
		if label == "" {
			label = field_name
		}

		template.Fields[field_name] = Field{
			Style:  cellStyle(workbook, sheet, column+1, 4),
			Format: cell(rows, 2, column),
			Label:  label,
		}
	}

	return table_name, template
}

func cell(rows [][]string, row, column int) string {
	if row >= len(rows) || column >= len(rows[row]) {
		return ""
	}
	return rows[row][column]
}

func cellStyle(workbook *excelize.File, sheet string, column, row int) int {
	axis, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return 0
	}
	style, err := workbook.GetCellStyle(sheet, axis)
	if err != nil {
		return 0
	}
	return style
}
