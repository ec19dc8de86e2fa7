package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureTable() *Table {
	return NewTable([]Record{
		{Model: "Swift", Price: 450000, FuelType: "Petrol", Transmission: "Automatic", SeatingCapacity: 5},
		{Model: "Baleno", Price: 500000, FuelType: "petrol", Transmission: "AUTOMATIC", SeatingCapacity: 5},
		{Model: "Kwid", Price: 300000, FuelType: "Petrol", Transmission: "Automatic", SeatingCapacity: 5},
		{Model: "City", Price: 600000, FuelType: "Petrol", Transmission: "Automatic", SeatingCapacity: 5},
		{Model: "Nexon", Price: 400000, FuelType: "Diesel", Transmission: "Automatic", SeatingCapacity: 5},
		{Model: "Alto", Price: 250000, FuelType: "Petrol", Transmission: "Manual", SeatingCapacity: 4},
	})
}

func TestRecommend_OnlyQualifyingRows(t *testing.T) {
	e := NewEngine(fixtureTable())
	qualifying := map[string]bool{"Swift": true, "Baleno": true, "Kwid": true}

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		r, err := e.Recommend(500000, "Petrol", "Automatic")
		require.NoError(t, err)
		require.True(t, qualifying[r.Model], "unexpected pick %q", r.Model)
		assert.LessOrEqual(t, r.Price, 500000.0)
		assert.True(t, strings.EqualFold(r.FuelType, "Petrol"))
		assert.True(t, strings.EqualFold(r.Transmission, "Automatic"))
		seen[r.Model] = true
	}
	assert.Greater(t, len(seen), 1, "100 draws over 3 candidates should vary")
}

func TestRecommend_CaseInsensitivePreferences(t *testing.T) {
	e := NewEngine(fixtureTable())
	got := e.Candidates(500000, "PETROL", "automatic")
	assert.Len(t, got, 3)
}

func TestRecommend_BudgetIsInclusive(t *testing.T) {
	e := NewEngine(fixtureTable(), WithIntN(func(n int) int { return 0 }))
	got := e.Candidates(300000, "Petrol", "Automatic")
	require.Len(t, got, 1)
	assert.Equal(t, "Kwid", got[0].Model)
}

func TestRecommend_NoMatch(t *testing.T) {
	e := NewEngine(fixtureTable())

	_, err := e.Recommend(1, "Petrol", "Automatic")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = e.Recommend(1000000, "Electric", "Automatic")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = NewEngine(NewTable(nil)).Recommend(1000000, "Petrol", "Manual")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestRecommend_UsesInjectedSource(t *testing.T) {
	var gotN int
	e := NewEngine(fixtureTable(), WithIntN(func(n int) int {
		gotN = n
		return n - 1
	}))

	r, err := e.Recommend(500000, "Petrol", "Automatic")
	require.NoError(t, err)
	assert.Equal(t, 3, gotN)
	assert.Equal(t, "Kwid", r.Model)
}

func TestRecommend_DoesNotMutateTable(t *testing.T) {
	tbl := fixtureTable()
	e := NewEngine(tbl)

	got := e.Candidates(500000, "Petrol", "Automatic")
	got[0].Model = "Changed"
	assert.Equal(t, "Swift", tbl.records[0].Model)
}

func TestDescribe(t *testing.T) {
	r := Record{Model: "Swift", Price: 450000, FuelType: "Petrol", Transmission: "Automatic", SeatingCapacity: 5}
	assert.Equal(t,
		"Model: Swift\nPrice: ₹450,000.00\nFuel Type: Petrol\nTransmission: Automatic\nSeating Capacity: 5",
		r.Describe())
}
