/*
   Velociraptor - Hunting Evil
   Copyright (C) 2019 Velocidex Innovations.

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published
   by the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// The analyzer ties the pieces together: registry side channel, ESE
// database, template workbook, SRUM id map, and the per table
// formatting pass. Lookup tables are always built before any data
// table is processed because format directives reference them.

package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Velocidex/ordereddict"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"www.velocidex.com/golang/go-srum/registry"
	"www.velocidex.com/golang/go-srum/schema"
)

const knownSIDsLookup = "Known SIDS"

// ESE bookkeeping tables, never part of the output.
var systemTables = map[string]bool{
	"MSysObjects":       true,
	"MSysObjectsShadow": true,
	"MSysObjids":        true,
	"MSysLocales":       true,
}

type Analyzer struct {
	DatabasePath string
	TemplatePath string

	// Optional SOFTWARE hive for SID and WLAN interface
	// enrichment.
	RegistryPath string

	// Overrides the ESE reader. Tests substitute an in memory
	// database here.
	OpenDatabase func(filename string) (Database, error)
}

// Result maps each table's display name to its rows. Row 0 holds the
// display labels; all other rows hold one formatted string per column.
type Result struct {
	Tables  *ordereddict.Dict
	Message string
}

// Analyze runs the full pipeline. Failure to open either the database
// or the template workbook is fatal; everything else fails soft per
// cell so one bad record never drops the rest of the evidence.
func (self *Analyzer) Analyze(ctx context.Context) (*Result, error) {
	known_sids := make(map[string]string)
	interfaces := make(map[string]string)

	// Phase 1: registry side channel before anything else.
	if self.RegistryPath != "" {
		fd, err := os.Open(self.RegistryPath)
		if err == nil {
			known_sids = registry.LoadProfileSIDs(fd)
			interfaces = registry.LoadWlanInterfaces(fd)
			fd.Close()
		}
	}

	// Phase 2: open the database and the template workbook. Either
	// failure aborts the analysis.
	opener := self.OpenDatabase
	if opener == nil {
		opener = OpenESE
	}

	database, err := opener(self.DatabasePath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening database %s",
			self.DatabasePath)
	}

	template, err := schema.LoadFile(self.TemplatePath)
	if err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "opening template %s",
			self.TemplatePath)
	}
	defer database.Close()

	// Phase 3: merge registry SIDs into the template's Known SIDS
	// lookup.
	if len(known_sids) > 0 {
		merged, pres := template.Lookups[knownSIDsLookup]
		if !pres {
			merged = make(map[string]string)
			template.Lookups[knownSIDsLookup] = merged
		}
		for sid, username := range known_sids {
			merged[sid] = username
		}
	}

	// Phase 4: SRUM's own id map, needed by lookup_id directives.
	formatter := &Formatter{
		Lookups:     template.Lookups,
		IDMap:       BuildIDMap(ctx, database, template.Lookups[knownSIDsLookup]),
		Interfaces:  interfaces,
		HasRegistry: self.RegistryPath != "",
	}

	// Phase 5: process every data table.
	result := ordereddict.NewDict()
	total_rows := 0

	for _, name := range database.Tables() {
		if systemTables[name] {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		table, err := database.Table(name)
		if err != nil {
			continue
		}

		display_name, rows := self.processTable(
			ctx, table, template, formatter)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Tables with no records never appear in the output.
		if len(rows) < 2 {
			continue
		}

		result.Set(display_name, rows)
		total_rows += len(rows) - 1
	}

	return &Result{
		Tables: result,
		Message: fmt.Sprintf("Processed %v tables (%v rows) from %v",
			result.Len(), humanize.Comma(int64(total_rows)),
			filepath.Base(self.DatabasePath)),
	}, nil
}

func (self *Analyzer) processTable(
	ctx context.Context,
	table Table,
	template *schema.Template,
	formatter *Formatter) (string, [][]string) {

	display_name := table.Name()
	var fields map[string]schema.Field

	table_template, pres := template.Tables[table.Name()]
	if pres {
		display_name = table_template.DisplayName
		fields = table_template.Fields
	}

	columns := table.Columns()

	headers := make([]string, 0, len(columns))
	for _, column := range columns {
		label := column.Name
		field, pres := fields[column.Name]
		if pres && field.Label != "" {
			label = field.Label
		}
		headers = append(headers, label)
	}

	rows := [][]string{headers}

	// A walk error mid table keeps the rows already collected -
	// partial data beats no data.
	_ = table.Walk(ctx, func(record Record) error {
		row := make([]string, 0, len(columns))
		for _, column := range columns {
			value := DecodeCell(record, column)
			if value == ErrValue {
				row = append(row, fmt.Sprintf(
					"WARNING: Invalid Column Name %s",
					column.Name))
				continue
			}

			field, pres := fields[column.Name]
			if pres {
				row = append(row,
					formatter.Format(value, field.Format))
			} else {
				row = append(row, Stringify(value))
			}
		}
		rows = append(rows, row)
		return nil
	})

	return display_name, rows
}
