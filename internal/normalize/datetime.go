package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LocalDateTimeLayout is the zone-less timestamp format the upstream API expects.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}

var localLayouts = []string{
	LocalDateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// LocalDateTime converts a browser date or timestamp to the upstream format.
// Date-only values become the start of the day, or its last second when
// endOfDay is set. Zoned timestamps are converted to UTC first.
func LocalDateTime(value string, endOfDay bool) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if day, err := time.Parse(time.DateOnly, value); err == nil {
		if endOfDay {
			day = day.Add(24*time.Hour - time.Second)
		}
		return day.Format(LocalDateTimeLayout), nil
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(LocalDateTimeLayout), nil
		}
	}

	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(LocalDateTimeLayout), nil
		}
	}

	return "", fmt.Errorf("unrecognized date %q", value)
}

// toTime accepts upstream timestamps either as strings or as the
// [year, month, day, hour, minute, second, nanos] arrays some serializers emit.
func toTime(v any) (any, bool) {
	switch value := v.(type) {
	case string:
		trimmed := strings.TrimSpace(value)
		return trimmed, trimmed != ""
	case []any:
		if len(value) < 3 {
			return nil, false
		}
		parts := make([]int, 7)
		for i := 0; i < len(value) && i < 7; i++ {
			n, ok := toInt(value[i])
			if !ok {
				return nil, false
			}
			parts[i] = int(n.(int64))
		}
		t := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
		return t.Format(LocalDateTimeLayout), true
	case json.Number:
		ms, err := value.Int64()
		if err != nil {
			return nil, false
		}
		return time.UnixMilli(ms).UTC().Format(LocalDateTimeLayout), true
	default:
		return nil, false
	}
}
