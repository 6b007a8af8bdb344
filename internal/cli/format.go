// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/rentroll/internal/calendar"
)

// CurrencySymbol prefixes formatted money.
const CurrencySymbol = "¥"

// FormatMoney formats an amount rounded to a whole unit with thousands
// separators, e.g. 131000 -> "¥131,000".
func FormatMoney(v float64) string {
	n := int64(math.Floor(v + 0.5))
	if n < 0 {
		return "-" + CurrencySymbol + FormatNumber(-n)
	}
	return CurrencySymbol + FormatNumber(n)
}

// FormatCompactMoney abbreviates large amounts for cards and charts.
// e.g., 1234 -> "¥1.2K", 12345678 -> "¥12.3M"
func FormatCompactMoney(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%s%s%.1fB", sign, CurrencySymbol, abs/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%s%.1fM", sign, CurrencySymbol, abs/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s%s%.1fK", sign, CurrencySymbol, abs/1_000)
	default:
		return FormatMoney(v)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatArea formats square metres, e.g. 1234.5 -> "1,234.5 m²".
func FormatArea(a float64) string {
	whole := math.Trunc(a)
	frac := math.Round((a - whole) * 10)
	if frac == 0 || frac == 10 {
		return FormatNumber(int64(math.Round(a))) + " m²"
	}
	return fmt.Sprintf("%s.%d m²", FormatNumber(int64(whole)), int64(math.Abs(frac)))
}

// FormatUnitPrice formats a daily price per square metre.
func FormatUnitPrice(p float64) string {
	return fmt.Sprintf("%.2f/m²/day", p)
}

// FormatPercent formats a 0-100 rate as a percentage string.
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return FormatMoney(delta)
}

// FormatMonth renders a month as "Mar 2024".
func FormatMonth(ym calendar.YearMonth) string {
	if !ym.Valid() {
		return "-"
	}
	return fmt.Sprintf("%s %d", ym.Month.String()[:3], ym.Year)
}

// FormatAmountCell renders a budget cell, blank for nothing due.
func FormatAmountCell(v float64) string {
	if math.Abs(v) < 0.5 {
		return ""
	}
	return FormatNumber(int64(math.Floor(v + 0.5)))
}
