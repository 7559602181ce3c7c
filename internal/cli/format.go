// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Fixed2 renders v with exactly two decimals, rounding half away from zero.
// This is the only place projection figures are rounded.
// e.g., 2.555 -> "2.56", -0.125 -> "-0.13", 3 -> "3.00"
// NaN and infinities render as "NaN", "+Inf" and "-Inf".
func Fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// ParseFixed parses a Fixed2 (or FormatUSD / FormatGB) string back into a
// float. Currency symbols, unit suffixes and thousands separators are ignored.
func ParseFixed(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimSuffix(clean, "GB")
	clean = strings.NewReplacer("$", "", ",", "", " ", "").Replace(clean)
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s, err)
	}
	f, _ := d.Float64()
	return f, nil
}

// groupFixed2 adds thousands separators to the integer part of Fixed2(v).
func groupFixed2(v float64) string {
	s := Fixed2(v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Beyond int64; leave ungrouped.
		if neg {
			return "-" + s
		}
		return s
	}
	out := humanize.Comma(n) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatUSD formats a cost as "$1,234.56".
func FormatUSD(cost float64) string {
	s := groupFixed2(cost)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// FormatCost is a compact cost for narrow cells: whole dollars above 1000.
func FormatCost(cost float64) string {
	if cost >= 1000 && !math.IsInf(cost, 1) {
		return "$" + humanize.Comma(decimal.NewFromFloat(cost).Round(0).IntPart())
	}
	return FormatUSD(cost)
}

// FormatGB formats a data size as "1,234.50 GB".
func FormatGB(gb float64) string {
	return groupFixed2(gb) + " GB"
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 fraction as a percentage string.
func FormatPercent(f float64) string {
	return humanize.FormatFloat("#,###.#", f*100) + "%"
}

// FormatBackups formats a backups-per-month figure; Yearly's 1/12 shows as
// "0.083".
func FormatBackups(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', 3, 64)
}

// FormatDelta formats a cost delta with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatUSD(delta)
	}
	return FormatUSD(delta)
}

// FormatHorizon describes a month count, e.g. 13 -> "13 months (2 yrs)".
func FormatHorizon(months int) string {
	if months == 1 {
		return "1 month"
	}
	if months < 12 {
		return fmt.Sprintf("%d months", months)
	}
	years := (months + 11) / 12
	unit := "yrs"
	if years == 1 {
		unit = "yr"
	}
	return fmt.Sprintf("%d months (%d %s)", months, years, unit)
}
