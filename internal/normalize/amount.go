package normalize

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a money amount sent either as a JSON number or a string.
func ParseAmount(v any) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(value.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(value), true
	case int64:
		return decimal.NewFromInt(value), true
	case int:
		return decimal.NewFromInt(int64(value)), true
	case string:
		trimmed := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
		if trimmed == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(trimmed)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

// FormatAmount renders an amount as a canonical decimal string.
func FormatAmount(v any) (string, bool) {
	d, ok := ParseAmount(v)
	if !ok {
		return "", false
	}
	return d.String(), true
}
