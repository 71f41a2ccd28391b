package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T) *excelize.File {
	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetSheetName("Sheet1", "Network Usage"))

	cells := map[string]interface{}{
		"A1": "{973F5D5C-1D90-4944-BE8E-24B94231A174}",
		"A2": "AutoIncId", "B2": "TimeStamp", "C2": "AppId",
		"B3": "OLE:%Y-%m-%d %H:%M:%S", "C3": "lookup_id",
		"A4": "Srum ID Number", "B4": "Srum Entry Creation",
	}
	for axis, value := range cells {
		require.NoError(t,
			workbook.SetCellValue("Network Usage", axis, value))
	}

	_, err := workbook.NewSheet("LOOKUP-Known SIDS")
	require.NoError(t, err)
	require.NoError(t, workbook.SetCellValue(
		"LOOKUP-Known SIDS", "A1", "S-1-5-18"))
	require.NoError(t, workbook.SetCellValue(
		"LOOKUP-Known SIDS", "B1", "System"))
	require.NoError(t, workbook.SetCellValue(
		"LOOKUP-Known SIDS", "A2", "S-1-5-19"))
	require.NoError(t, workbook.SetCellValue(
		"LOOKUP-Known SIDS", "B2", "Local Service"))

	// A sheet with an empty A1 declares no table.
	_, err = workbook.NewSheet("Notes")
	require.NoError(t, err)

	return workbook
}

func TestLoad(t *testing.T) {
	template, err := Load(buildWorkbook(t))
	require.NoError(t, err)

	require.Contains(t, template.Tables,
		"{973F5D5C-1D90-4944-BE8E-24B94231A174}")
	table := template.Tables["{973F5D5C-1D90-4944-BE8E-24B94231A174}"]

	assert.Equal(t, "Network Usage", table.DisplayName)
	assert.Len(t, table.Fields, 3)

	assert.Equal(t, "Srum ID Number", table.Fields["AutoIncId"].Label)
	assert.Equal(t, "", table.Fields["AutoIncId"].Format)

	assert.Equal(t, "OLE:%Y-%m-%d %H:%M:%S",
		table.Fields["TimeStamp"].Format)

	// A blank label cell defaults to the source column name.
	assert.Equal(t, "AppId", table.Fields["AppId"].Label)
	assert.Equal(t, "lookup_id", table.Fields["AppId"].Format)

	// The lookup marker is case insensitive and stripped from the
	// table's name.
	assert.Equal(t, map[string]string{
		"S-1-5-18": "System",
		"S-1-5-19": "Local Service",
	}, template.Lookups["Known SIDS"])

	assert.NotContains(t, template.Tables, "Notes")
}

func TestLoadFieldScanStopsAtBlank(t *testing.T) {
	workbook := excelize.NewFile()

	cells := map[string]interface{}{
		"A1": "SomeTable",
		"A2": "First",
		// B2 deliberately blank.
		"C2": "Orphan",
	}
	for axis, value := range cells {
		require.NoError(t,
			workbook.SetCellValue("Sheet1", axis, value))
	}

	template, err := Load(workbook)
	require.NoError(t, err)

	table := template.Tables["SomeTable"]
	assert.Len(t, table.Fields, 1)
	assert.Contains(t, table.Fields, "First")
}

func TestLoadFile(t *testing.T) {
	_, err := LoadFile("no-such-template.xlsx")
	assert.Error(t, err)
}
