// Abstraction over an open ESE database. The SRUM analyzer only needs
// table iteration, column metadata and record walking, so we hide the
// concrete reader behind a small interface. The production
// implementation in ese.go is backed by go-ese; tests substitute an in
// memory database.

package parser

import "context"

// ColumnType is the JET column type tag as stored in the table
// catalog. It dictates how raw cell bytes must be reinterpreted.
type ColumnType uint32

const (
	ColumnTypeNil ColumnType = iota
	ColumnTypeBit
	ColumnTypeUnsignedByte
	ColumnTypeShort
	ColumnTypeLong
	ColumnTypeCurrency
	ColumnTypeIEEESingle
	ColumnTypeIEEEDouble
	ColumnTypeDateTime
	ColumnTypeBinary
	ColumnTypeText
	ColumnTypeLongBinary
	ColumnTypeLongText
	ColumnTypeSLV
	ColumnTypeUnsignedLong
	ColumnTypeLongLong
	ColumnTypeGUID
	ColumnTypeUnsignedShort
)

type Column struct {
	Name string
	Type ColumnType
}

// Record is a single row in a table. Get returns the raw cell for a
// column: either a byte slice in the column's wire encoding, or a
// value the underlying reader has already decoded. A false result
// means the cell is not set.
type Record interface {
	Get(column string) (interface{}, bool)
}

type Table interface {
	Name() string
	Columns() []Column

	// Walk calls cb once per record. Returning an error from cb
	// aborts the walk and is propagated.
	Walk(ctx context.Context, cb func(Record) error) error
}

type Database interface {
	// Tables lists all table names in catalog order, including
	// system tables.
	Tables() []string
	Table(name string) (Table, error)
	Close() error
}
