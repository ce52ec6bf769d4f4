package adminpanel

import (
	"fmt"
	"strconv"
	"strings"
)

// InferredSession is the label/duration/price derived from a formation code.
type InferredSession struct {
	Label     string
	DaysCount int
	PriceEUR  float64
}

// InferFromCode derives session defaults from a formation code such as
// "F2J-150" (formation, 2 days, 150€) or "P2S-250" (promo, 2 weeks, 250€).
// A "J" unit counts days, an "S" unit counts weeks.
func InferFromCode(code string) (InferredSession, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return InferredSession{}, false
	}

	prefix, priceStr, _ := strings.Cut(code, "-")
	if prefix == "" {
		return InferredSession{}, false
	}

	price, _ := strconv.ParseFloat(priceStr, 64)
	isPromo := strings.HasPrefix(prefix, "P")
	isWeeks := strings.Contains(prefix, "S")

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, prefix)
	num, _ := strconv.Atoi(digits)
	if num <= 0 {
		return InferredSession{}, false
	}

	days := num
	if isWeeks {
		days = num * 7
	}

	var label string
	switch {
	case isPromo:
		label = fmt.Sprintf("Promo spéciale %d jours", days)
	case isWeeks:
		label = fmt.Sprintf("Formation %d semaines", num)
	default:
		label = fmt.Sprintf("Formation %d jours", num)
	}

	return InferredSession{Label: label, DaysCount: days, PriceEUR: price}, true
}
