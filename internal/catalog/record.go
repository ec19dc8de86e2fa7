// Package catalog holds the reference car dataset and the budget recommender.
package catalog

import (
	"fmt"
	"strings"

	"github.com/suPer8Hu/car-advisor/internal/common"
)

// Record is one row of the dataset. Records are never modified after load.
type Record struct {
	Model           string            `json:"model"`
	Price           float64           `json:"price"`
	FuelType        string            `json:"fuel_type"`
	Transmission    string            `json:"transmission"`
	SeatingCapacity int               `json:"seating_capacity"`
	Attributes      map[string]string `json:"attributes,omitempty"`
}

// Describe renders the record for the form and the chat panel.
func (r Record) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model: %s\n", r.Model)
	fmt.Fprintf(&b, "Price: %s\n", common.FormatINR(r.Price))
	fmt.Fprintf(&b, "Fuel Type: %s\n", r.FuelType)
	fmt.Fprintf(&b, "Transmission: %s\n", r.Transmission)
	fmt.Fprintf(&b, "Seating Capacity: %d", r.SeatingCapacity)
	return b.String()
}

// Table is the in-memory dataset, shared read-only by every request.
type Table struct {
	records []Record
}

func NewTable(records []Record) *Table {
	return &Table{records: append([]Record(nil), records...)}
}

func (t *Table) Len() int { return len(t.records) }
