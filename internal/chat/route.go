package chat

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/suPer8Hu/car-advisor/internal/valuation"
)

// ErrBudgetUnparseable means the message asked about a budget but carried no amount.
var ErrBudgetUnparseable = errors.New("budget mentioned but no amount found")

const budgetKeyword = "budget"

// MentionsBudget reports whether the message should go to the recommender.
func MentionsBudget(message string) bool {
	return strings.Contains(strings.ToLower(message), budgetKeyword)
}

// ParseBudget returns the first whitespace-separated token made only of
// ASCII digits. "300,000" or "300000." do not count.
func ParseBudget(message string) (float64, error) {
	for _, tok := range strings.Fields(message) {
		if !allDigits(tok) {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, ErrBudgetUnparseable
		}
		return v, nil
	}
	return 0, ErrBudgetUnparseable
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Preferences is the fuel type and transmission used for a chat recommendation.
type Preferences struct {
	FuelType     string `json:"fuel_type"`
	Transmission string `json:"transmission"`
	// Assumed is true when either value came from the defaults.
	Assumed bool `json:"assumed"`
}

// ResolvePreferences picks the first fuel type and transmission named as a
// whole word in the message, falling back to the defaults.
func ResolvePreferences(message, defaultFuel, defaultTransmission string) Preferences {
	words := strings.FieldsFunc(message, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	fuel := firstMention(words, valuation.Values(valuation.CategoryFuelType))
	transmission := firstMention(words, valuation.Values(valuation.CategoryTransmission))

	p := Preferences{FuelType: fuel, Transmission: transmission}
	if p.FuelType == "" {
		p.FuelType = defaultFuel
		p.Assumed = true
	}
	if p.Transmission == "" {
		p.Transmission = defaultTransmission
		p.Assumed = true
	}
	return p
}

func firstMention(words, values []string) string {
	for _, w := range words {
		for _, v := range values {
			if strings.EqualFold(w, v) {
				return v
			}
		}
	}
	return ""
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
