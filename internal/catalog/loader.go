package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Required dataset columns (header match ignores case and surrounding spaces).
const (
	ColModel           = "model"
	ColPrice           = "price"
	ColFuelType        = "Fuel Type"
	ColTransmission    = "Transmission"
	ColSeatingCapacity = "Seating_Capacity"
)

var requiredColumns = []string{ColModel, ColPrice, ColFuelType, ColTransmission, ColSeatingCapacity}

var ErrSchema = errors.New("dataset schema mismatch")

// Load reads a .csv or .xlsx (first sheet) dataset. A missing column or an
// unparsable price/seat count is ErrSchema; callers treat it as fatal.
func Load(path string) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx":
		rows, err = readXLSXRows(path)
	default:
		return nil, fmt.Errorf("catalog: unsupported dataset format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	records, err := FromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return NewTable(records), nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetRows(f.GetSheetName(0))
}

// FromRows converts a header row plus data rows into records.
func FromRows(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrSchema)
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchema, name)
		}
		cols[name] = i
	}
	required := make(map[int]bool, len(cols))
	for _, i := range cols {
		required[i] = true
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		if isBlank(row) {
			continue
		}
		cell := func(name string) string {
			i := cols[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		price, err := parseAmount(cell(ColPrice))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: price %q", ErrSchema, line, cell(ColPrice))
		}
		seats, err := parseSeats(cell(ColSeatingCapacity))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: seating capacity %q", ErrSchema, line, cell(ColSeatingCapacity))
		}

		var attrs map[string]string
		for i, v := range row {
			if required[i] || i >= len(header) || strings.TrimSpace(v) == "" {
				continue
			}
			if attrs == nil {
				attrs = make(map[string]string)
			}
			attrs[strings.TrimSpace(header[i])] = strings.TrimSpace(v)
		}

		records = append(records, Record{
			Model:           cell(ColModel),
			Price:           price,
			FuelType:        cell(ColFuelType),
			Transmission:    cell(ColTransmission),
			SeatingCapacity: seats,
			Attributes:      attrs,
		})
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimPrefix(s, "₹")
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	return strconv.ParseFloat(s, 64)
}

func parseSeats(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
