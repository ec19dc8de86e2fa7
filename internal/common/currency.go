package common

import "github.com/dustin/go-humanize"

// FormatINR renders an amount as rupees with thousands separators and two decimals.
func FormatINR(amount float64) string {
	return "₹" + humanize.FormatFloat("#,###.##", amount)
}
