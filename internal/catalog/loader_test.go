package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `model,price,Fuel Type,Transmission,Seating_Capacity,Body Type
Maruti Swift,"4,50,000",Petrol,Automatic,5,Hatchback
Hyundai Creta,1200000,Diesel,Manual,5.0,SUV

Kia Carens,1500000,Petrol,Manual,7,
`

func TestLoad_CSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cars.csv")
	require.NoError(t, os.WriteFile(p, []byte(sampleCSV), 0o600))

	tbl, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	swift := tbl.records[0]
	assert.Equal(t, "Maruti Swift", swift.Model)
	assert.Equal(t, 450000.0, swift.Price)
	assert.Equal(t, 5, swift.SeatingCapacity)
	assert.Equal(t, map[string]string{"Body Type": "Hatchback"}, swift.Attributes)

	assert.Equal(t, 5, tbl.records[1].SeatingCapacity)
	assert.Nil(t, tbl.records[2].Attributes)
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Model", "Price", "fuel type", "TRANSMISSION", "Seating_Capacity"},
		{"Tata Nexon", 800000, "Diesel", "Automatic", 5},
		{"Tata Tiago", 450000, "Petrol", "Manual", 5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	p := filepath.Join(t.TempDir(), "cars.xlsx")
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	tbl, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Tata Nexon", tbl.records[0].Model)
	assert.Equal(t, 800000.0, tbl.records[0].Price)
	assert.Equal(t, "Automatic", tbl.records[0].Transmission)
}

func TestFromRows_SchemaErrors(t *testing.T) {
	cases := map[string][][]string{
		"empty":          nil,
		"missing column": {{"model", "price", "Fuel Type", "Transmission"}},
		"bad price": {
			{"model", "price", "Fuel Type", "Transmission", "Seating_Capacity"},
			{"Swift", "cheap", "Petrol", "Manual", "5"},
		},
		"bad seats": {
			{"model", "price", "Fuel Type", "Transmission", "Seating_Capacity"},
			{"Swift", "100", "Petrol", "Manual", "five"},
		},
	}
	for name, rows := range cases {
		_, err := FromRows(rows)
		assert.ErrorIs(t, err, ErrSchema, name)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load("cars.parquet")
	assert.Error(t, err)
}
