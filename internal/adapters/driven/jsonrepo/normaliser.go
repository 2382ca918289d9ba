package jsonrepo

import (
	"fmt"
	"math"
	"productapi/internal/core/domain"
	"productapi/internal/core/service/product"
)

// dataNormaliser is an unexported struct responsible for transforming data between its raw form (from JSON) and its canonical in-memory form
type dataNormaliser struct{}

func newDataNormaliser() *dataNormaliser {
	return &dataNormaliser{}
}

func (n *dataNormaliser) normalise(value any) any {
	switch v := value.(type) {
	case float64:
		// if the number has no fractional part and fits, convert and return to int
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int(v)
		}
		// otherwise keep the float
		return v

	case []any:
		return n.transformSlice(v, n.normalise)

	case map[string]any:
		return n.transformMap(v, n.normalise)

	case domain.Product:
		return domain.Product(n.transformMap(v, n.normalise))

	default:
		// strings, bools and nil stay as they are
		return v
	}
}

// toCollection turns a decoded JSON document into a collection. Only an array of objects is accepted.
func (n *dataNormaliser) toCollection(raw any) (domain.Collection, error) {
	if raw == nil {
		return domain.Collection{}, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, want an array", product.ErrParse, raw)
	}

	collection := make(domain.Collection, 0, len(items))
	for i, item := range items {
		itemMap, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item at index %d is %T, want an object", product.ErrParse, i, item)
		}
		collection = append(collection, n.product(itemMap))
	}

	return collection, nil
}

func (n *dataNormaliser) product(m map[string]any) domain.Product {
	return domain.Product(n.transformMap(m, n.normalise))
}

// transformSlice takes a collection and applies a transformer function to each item returning a same length collection - think .map() in JS
func (n *dataNormaliser) transformSlice(slice []any, transformer func(any) any) []any {
	result := make([]any, len(slice))

	for i, item := range slice {
		result[i] = transformer(item)
	}

	return result
}

func (n *dataNormaliser) transformMap(m map[string]any, transformer func(any) any) map[string]any {
	normalisedMap := make(map[string]any, len(m))

	for key, value := range m {
		normalisedMap[key] = transformer(value)
	}

	return normalisedMap
}
