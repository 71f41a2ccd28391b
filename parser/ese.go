package parser

import (
	"context"
	"os"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/pkg/errors"
	ese "www.velocidex.com/golang/go-ese/parser"
)

// eseDatabase adapts a go-ese catalog to the Database interface.
// go-ese surfaces cell values already decoded from their wire form
// (binary columns arrive hex encoded), so records pass native values
// through DecodeCell.
type eseDatabase struct {
	fd      *os.File
	catalog *ese.Catalog
}

// OpenESE opens an ESE/JET database file read only.
func OpenESE(filename string) (Database, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	st, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}

	ese_ctx, err := ese.NewESEContext(fd, st.Size())
	if err != nil {
		fd.Close()
		return nil, errors.Wrap(err, "reading ESE header")
	}

	catalog, err := ese.ReadCatalog(ese_ctx)
	if err != nil {
		fd.Close()
		return nil, errors.Wrap(err, "reading ESE catalog")
	}

	return &eseDatabase{fd: fd, catalog: catalog}, nil
}

func (self *eseDatabase) Tables() []string {
	return self.catalog.Tables.Keys()
}

func (self *eseDatabase) Table(name string) (Table, error) {
	table_any, pres := self.catalog.Tables.Get(name)
	if !pres {
		return nil, errors.Errorf("no such table %v", name)
	}

	table, ok := table_any.(*ese.Table)
	if !ok {
		return nil, errors.Errorf("invalid catalog entry for table %v", name)
	}
	return &eseTable{catalog: self.catalog, name: name, table: table}, nil
}

func (self *eseDatabase) Close() error {
	return self.fd.Close()
}

type eseTable struct {
	catalog *ese.Catalog
	name    string
	table   *ese.Table
}

func (self *eseTable) Name() string {
	return self.name
}

// Columns come from the catalog so that columns a record happens to
// omit (tagged columns are simply absent from sparse records) still
// appear in the output.
func (self *eseTable) Columns() []Column {
	result := make([]Column, 0, len(self.table.Columns))
	for _, spec := range self.table.Columns {
		result = append(result, Column{
			Name: spec.Name,
			Type: catalogColumnType(spec.Type),
		})
	}
	return result
}

// catalogColumnType maps the catalog's column type name onto our type
// tag. Unknown names get ColumnTypeNil which passes values through
// untyped.
func catalogColumnType(name string) ColumnType {
	normalized := strings.ToLower(name)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "_", "")

	switch normalized {
	case "bit", "boolean":
		return ColumnTypeBit
	case "unsignedbyte", "signedbyte", "byte":
		return ColumnTypeUnsignedByte
	case "short":
		return ColumnTypeShort
	case "unsignedshort":
		return ColumnTypeUnsignedShort
	case "long":
		return ColumnTypeLong
	case "unsignedlong":
		return ColumnTypeUnsignedLong
	case "longlong":
		return ColumnTypeLongLong
	case "currency":
		return ColumnTypeCurrency
	case "single", "ieeesingle", "float":
		return ColumnTypeIEEESingle
	case "double", "ieeedouble":
		return ColumnTypeIEEEDouble
	case "datetime":
		return ColumnTypeDateTime
	case "binary":
		return ColumnTypeBinary
	case "longbinary":
		return ColumnTypeLongBinary
	case "text":
		return ColumnTypeText
	case "longtext":
		return ColumnTypeLongText
	case "slv", "superlargevalue":
		return ColumnTypeSLV
	case "guid":
		return ColumnTypeGUID
	default:
		return ColumnTypeNil
	}
}

func (self *eseTable) Walk(ctx context.Context, cb func(Record) error) error {
	return self.catalog.DumpTable(self.name,
		func(row *ordereddict.Dict) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return cb(&eseRecord{row: row})
		})
}

type eseRecord struct {
	row *ordereddict.Dict
}

func (self *eseRecord) Get(column string) (interface{}, bool) {
	return self.row.Get(column)
}
