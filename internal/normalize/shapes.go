package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Shape names one accepted layout of an upstream list response.
type Shape int

const (
	// ShapeArray is a bare JSON array.
	ShapeArray Shape = iota + 1
	// ShapeDataArray is {"data": [...]} with optional page fields beside it.
	ShapeDataArray
	// ShapeNestedData is {"data": {"data"|"content": [...], ...page fields}}.
	ShapeNestedData
	// ShapePage is a page object {"content": [...], "number", "size", ...}.
	ShapePage
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeDataArray:
		return "data-array"
	case ShapeNestedData:
		return "nested-data"
	case ShapePage:
		return "page"
	default:
		return "unknown"
	}
}

var ErrUnrecognizedShape = errors.New("unrecognized upstream response shape")

type ShapeError struct {
	Resource string
	Accepted []Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v (accepted %v)", e.Resource, ErrUnrecognizedShape, e.Accepted)
}

func (e *ShapeError) Unwrap() error {
	return ErrUnrecognizedShape
}

// List is an extracted upstream collection plus whatever page metadata came
// with it.
type List struct {
	Items []map[string]any
	Shape Shape
	Meta  *PageMeta
}

// PageMeta holds upstream page fields as sent, in the upstream page base.
type PageMeta struct {
	PageNumber    int
	PageSize      int
	TotalElements int64
	TotalPages    int
	Last          *bool
}

// ExtractList decodes raw as one of the accepted shapes and fails with a
// *ShapeError when none matches.
func ExtractList(resource string, raw json.RawMessage, accepted ...Shape) (List, error) {
	value, err := decodeValue(raw)
	if err != nil {
		return List{}, fmt.Errorf("%s: %w", resource, err)
	}

	for _, shape := range accepted {
		if list, ok := matchShape(shape, value); ok {
			list.Shape = shape
			return list, nil
		}
	}

	return List{}, &ShapeError{Resource: resource, Accepted: accepted}
}

// envelopeKeys are the only keys an object may carry beside "data" and
// still be unwrapped as a response envelope.
var envelopeKeys = map[string]struct{}{
	"data":      {},
	"success":   {},
	"message":   {},
	"status":    {},
	"timestamp": {},
}

// ExtractObject accepts an envelope {"data": {...}} whose other keys are all
// envelope keys, or a bare object. A bare resource that happens to have a
// "data" field is returned whole.
func ExtractObject(resource string, raw json.RawMessage) (map[string]any, error) {
	value, err := decodeValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", resource, err)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, &ShapeError{Resource: resource}
	}

	if inner, ok := obj["data"].(map[string]any); ok && isEnvelope(obj) {
		return inner, nil
	}

	return obj, nil
}

func isEnvelope(obj map[string]any) bool {
	for key := range obj {
		if _, ok := envelopeKeys[key]; !ok {
			return false
		}
	}
	return true
}

func decodeValue(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("empty upstream response")
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	return value, nil
}

func matchShape(shape Shape, value any) (List, bool) {
	switch shape {
	case ShapeArray:
		items, ok := objectArray(value)
		return List{Items: items}, ok

	case ShapeDataArray:
		obj, ok := value.(map[string]any)
		if !ok {
			return List{}, false
		}
		items, ok := objectArray(obj["data"])
		if !ok {
			return List{}, false
		}
		return List{Items: items, Meta: pageMeta(obj)}, true

	case ShapeNestedData:
		obj, ok := value.(map[string]any)
		if !ok {
			return List{}, false
		}
		inner, ok := obj["data"].(map[string]any)
		if !ok {
			return List{}, false
		}
		for _, key := range []string{"data", "content", "items"} {
			if items, ok := objectArray(inner[key]); ok {
				return List{Items: items, Meta: pageMeta(inner)}, true
			}
		}
		return List{}, false

	case ShapePage:
		obj, ok := value.(map[string]any)
		if !ok {
			return List{}, false
		}
		items, ok := objectArray(obj["content"])
		if !ok {
			return List{}, false
		}
		return List{Items: items, Meta: pageMeta(obj)}, true
	}

	return List{}, false
}

func objectArray(v any) ([]map[string]any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}

	items := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, false
		}
		items = append(items, obj)
	}
	return items, true
}

func pageMeta(obj map[string]any) *PageMeta {
	number, hasNumber := firstInt(obj, "pageNumber", "number", "page")
	total, hasTotal := firstInt(obj, "totalElements", "total", "totalCount")
	if !hasNumber && !hasTotal {
		return nil
	}

	size, _ := firstInt(obj, "pageSize", "size", "perPage")
	pages, _ := firstInt(obj, "totalPages")

	meta := &PageMeta{
		PageNumber:    int(number),
		PageSize:      int(size),
		TotalElements: total,
		TotalPages:    int(pages),
	}
	if last, ok := obj["last"].(bool); ok {
		meta.Last = &last
	}
	return meta
}

func firstInt(obj map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok || raw == nil {
			continue
		}
		if n, ok := toInt(raw); ok {
			return n.(int64), true
		}
	}
	return 0, false
}
