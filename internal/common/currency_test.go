package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatINR(t *testing.T) {
	cases := map[float64]string{
		0:           "₹0.00",
		999.5:       "₹999.50",
		1234567.891: "₹1,234,567.89",
		500000:      "₹500,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(in), "amount %v", in)
	}
}
