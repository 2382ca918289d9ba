package copier

import (
	"fmt"
	"productapi/internal/core/domain" // It needs to know about domain.Product
)

func DeepCopy[T any](src T) (T, error) {
	var zero T

	copied := deepCopyValue(any(src))
	if result, ok := copied.(T); ok {
		return result, nil
	}

	return zero, fmt.Errorf("deep copy failed: expected %T, got %T", zero, copied)
}

// deepCopyValue copies the shapes decoded JSON can take; anything else is returned as-is
func deepCopyValue(src any) any {
	if src == nil {
		return nil
	}

	switch v := src.(type) {
	case domain.Product:
		if v == nil {
			return domain.Product(nil)
		}
		dst := make(domain.Product, len(v))
		for key, val := range v {
			dst[key] = deepCopyValue(val)
		}
		return dst

	case domain.Collection:
		if v == nil {
			return domain.Collection(nil)
		}
		dst := make(domain.Collection, len(v))
		for i, p := range v {
			dst[i] = deepCopyValue(p).(domain.Product)
		}
		return dst

	case map[string]any:
		if v == nil {
			return map[string]any(nil)
		}
		dst := make(map[string]any, len(v))
		for key, val := range v {
			dst[key] = deepCopyValue(val)
		}
		return dst

	case []any:
		if v == nil {
			return []any(nil)
		}
		dst := make([]any, len(v))
		for i, val := range v {
			dst[i] = deepCopyValue(val)
		}
		return dst

	default:
		// strings, numbers and bools are immutable
		return v
	}
}
