package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type columnTypeTestCase struct {
	catalog_name string
	expected     ColumnType
}

var columnTypeTestCases = []columnTypeTestCase{
	{"Boolean", ColumnTypeBit},
	{"Unsigned byte", ColumnTypeUnsignedByte},
	{"Short", ColumnTypeShort},
	{"Unsigned short", ColumnTypeUnsignedShort},
	{"Long", ColumnTypeLong},
	{"Unsigned long", ColumnTypeUnsignedLong},
	{"Long long", ColumnTypeLongLong},
	{"Currency", ColumnTypeCurrency},
	{"Single", ColumnTypeIEEESingle},
	{"Double", ColumnTypeIEEEDouble},
	{"DateTime", ColumnTypeDateTime},
	{"Binary", ColumnTypeBinary},
	{"Long Binary", ColumnTypeLongBinary},
	{"Text", ColumnTypeText},
	{"Long Text", ColumnTypeLongText},
	{"GUID", ColumnTypeGUID},

	// Unknown names pass values through untyped.
	{"Something else", ColumnTypeNil},
	{"", ColumnTypeNil},
}

func TestCatalogColumnType(t *testing.T) {
	for _, test_case := range columnTypeTestCases {
		assert.Equal(t, test_case.expected,
			catalogColumnType(test_case.catalog_name),
			test_case.catalog_name)
	}
}
