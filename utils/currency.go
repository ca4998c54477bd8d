package utils

import (
	"fmt"
	"strings"
)

// FormatUSD formats an amount as a dollar string with thousands separators.
// Example: 1250.5 -> "$1,250.50"
func FormatUSD(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	negative := strings.HasPrefix(integerPart, "-")
	integerPart = strings.TrimPrefix(integerPart, "-")

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return sign + "$" + strings.Join(groups, ",") + "." + decimalPart
}

// FormatVND formats a whole-dong amount with dot separators.
// Example: 2512000 -> "2.512.000 VND"
func FormatVND(amount int64) string {
	s := fmt.Sprintf("%d", amount)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var groups []string
	for i := len(s); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{s[start:i]}, groups...)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return sign + strings.Join(groups, ".") + " VND"
}
