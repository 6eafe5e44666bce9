package normalize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Kind selects how a mapped value is coerced.
type Kind int

const (
	Passthrough Kind = iota
	String
	Bool
	Int
	Amount
	Time
)

// Rule maps the first non-null source field to Target. Sources may use
// dotted paths into nested objects ("merchant.businessName").
type Rule struct {
	Target  string
	Sources []string
	Default any
	Kind    Kind
}

// FieldMap is the explicit contract between one upstream resource and the
// browser-facing shape. Source keys not named by a rule are dropped.
type FieldMap struct {
	Resource string
	Rules    []Rule
}

func Field(target string, kind Kind, sources ...string) Rule {
	return Rule{Target: target, Sources: sources, Kind: kind}
}

// WithDefault returns a copy of r that falls back to value.
func (r Rule) WithDefault(value any) Rule {
	r.Default = value
	return r
}

func (m FieldMap) Apply(src map[string]any) map[string]any {
	out := make(map[string]any, len(m.Rules))

	for _, rule := range m.Rules {
		value, found := m.lookup(src, rule)
		if !found {
			if rule.Default != nil {
				slog.Debug("field default applied", "resource", m.Resource, "field", rule.Target, "default", rule.Default)
			}
			out[rule.Target] = rule.Default
			continue
		}
		out[rule.Target] = value
	}

	return out
}

func (m FieldMap) ApplyAll(items []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, m.Apply(item))
	}
	return out
}

func (m FieldMap) lookup(src map[string]any, rule Rule) (any, bool) {
	for _, source := range rule.Sources {
		raw, ok := dig(src, source)
		if !ok || raw == nil {
			continue
		}

		value, ok := coerce(raw, rule.Kind)
		if !ok {
			slog.Warn("field not coercible", "resource", m.Resource, "field", rule.Target, "source", source)
			continue
		}
		return value, true
	}
	return nil, false
}

// Decode maps src through m and decodes the result into T.
func Decode[T any](m FieldMap, src map[string]any) (T, error) {
	var out T

	encoded, err := json.Marshal(m.Apply(src))
	if err != nil {
		return out, fmt.Errorf("encode %s: %w", m.Resource, err)
	}
	if err := json.Unmarshal(encoded, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", m.Resource, err)
	}

	return out, nil
}

func DecodeAll[T any](m FieldMap, items []map[string]any) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		value, err := Decode[T](m, item)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func dig(src map[string]any, path string) (any, bool) {
	current := any(src)
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func coerce(v any, kind Kind) (any, bool) {
	switch kind {
	case String:
		return toString(v)
	case Bool:
		return toBool(v)
	case Int:
		return toInt(v)
	case Amount:
		if s, ok := FormatAmount(v); ok {
			return s, true
		}
		return nil, false
	case Time:
		return toTime(v)
	default:
		return v, true
	}
}

func toString(v any) (any, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case json.Number:
		return value.String(), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(value), true
	default:
		return nil, false
	}
}

func toBool(v any) (any, bool) {
	switch value := v.(type) {
	case bool:
		return value, true
	case string:
		switch strings.ToUpper(strings.TrimSpace(value)) {
		case "TRUE", "1", "ACTIVE", "ENABLED", "YES":
			return true, true
		case "FALSE", "0", "INACTIVE", "DISABLED", "NO":
			return false, true
		}
	case json.Number:
		n, err := value.Int64()
		return n != 0, err == nil
	case float64:
		return value != 0, true
	}
	return nil, false
}

func toInt(v any) (any, bool) {
	switch value := v.(type) {
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n, true
		}
		if f, err := value.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(value), true
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return n, true
		}
	}
	return nil, false
}
