package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentionsBudget(t *testing.T) {
	assert.True(t, MentionsBudget("my budget is 300000"))
	assert.True(t, MentionsBudget("BUDGET: 5"))
	assert.True(t, MentionsBudget("what about budgeting?"))
	assert.False(t, MentionsBudget("hello"))
}

func TestParseBudget(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"my budget is 300000", 300000, true},
		{"budget 200000 or maybe 400000", 200000, true},
		{"budget is 3 lakh", 3, true},
		{"my budget is high", 0, false},
		{"budget is 300,000", 0, false},
		{"budget is 300000.", 0, false},
		{"budget -5", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseBudget(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, ErrBudgetUnparseable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolvePreferences_Defaults(t *testing.T) {
	p := ResolvePreferences("my budget is 300000", "Petrol", "Automatic")
	assert.Equal(t, Preferences{FuelType: "Petrol", Transmission: "Automatic", Assumed: true}, p)
}

func TestResolvePreferences_WholeWordOverrides(t *testing.T) {
	p := ResolvePreferences("budget 500000, diesel and MANUAL please", "Petrol", "Automatic")
	assert.Equal(t, Preferences{FuelType: "Diesel", Transmission: "Manual"}, p)

	p = ResolvePreferences("budget 500000 for a hybrid", "Petrol", "Automatic")
	assert.Equal(t, "Hybrid", p.FuelType)
	assert.Equal(t, "Automatic", p.Transmission)
	assert.True(t, p.Assumed)

	// substrings do not count
	p = ResolvePreferences("budget 500000 semiautomatic petroleum", "Petrol", "Automatic")
	assert.True(t, p.Assumed)
	assert.Equal(t, "Petrol", p.FuelType)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hello", truncateRunes("hello", 10))
	assert.Equal(t, "hel", truncateRunes("hello", 3))
	assert.Equal(t, "₹₹", truncateRunes("₹₹₹", 2))
	assert.Equal(t, "", truncateRunes("", 3))
}
