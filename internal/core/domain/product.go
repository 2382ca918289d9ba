package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
)

// IDField is the key every stored product carries.
const IDField = "id"

// Product is a single record of the collection: an id plus whatever fields the caller sent.
type Product map[string]any

// Collection is the ordered set of products, persisted as one JSON array.
type Collection []Product

// ID returns the canonical form of the product's id, if it has one.
func (p Product) ID() (string, bool) {
	id, ok := p[IDField]
	if !ok || id == nil {
		return "", false
	}

	return CanonicalID(id)
}

func (p Product) SetID(id int) {
	p[IDField] = id
}

// MatchesID reports whether the product's id loosely equals queryID, so "2" matches 2.
func (p Product) MatchesID(queryID string) bool {
	id, ok := p.ID()
	if !ok {
		return false
	}

	want, ok := CanonicalID(queryID)
	if !ok {
		return false
	}

	return id == want
}

// Merge returns a new product holding p's fields overwritten by fields, keeping p's id.
func (p Product) Merge(fields map[string]any) Product {
	merged := make(Product, len(p)+len(fields))
	maps.Copy(merged, p)
	maps.Copy(merged, fields)

	if id, ok := p[IDField]; ok {
		merged[IDField] = id
	} else {
		delete(merged, IDField)
	}

	return merged
}

func NewFromMap(data map[string]any) (Product, error) {
	if data == nil {
		return nil, errors.New("cannot create product from nil data")
	}

	return Product(data), nil
}

// CanonicalID reduces an id to the representation used for loose comparison.
// Numbers and numeric strings become their shortest decimal form, other strings are kept verbatim.
func CanonicalID(v any) (string, bool) {
	switch id := v.(type) {
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	case float64:
		return formatNumber(id), true
	case json.Number:
		if f, err := id.Float64(); err == nil {
			return formatNumber(f), true
		}
		return id.String(), true
	case string:
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			return "", false
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return formatNumber(f), true
		}
		return id, true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", id), true
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}

// NextID picks the id for a product about to be appended. It is never below the
// collection length and always above every integer id already in use.
func (c Collection) NextID() int {
	next := len(c)

	for _, p := range c {
		id, ok := p.ID()
		if !ok {
			continue
		}

		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}

		if n+1 > next {
			next = n + 1
		}
	}

	return next
}

// FilterByID returns the products whose id loosely equals queryID, in collection order.
func (c Collection) FilterByID(queryID string) Collection {
	matches := make(Collection, 0)

	for _, p := range c {
		if p.MatchesID(queryID) {
			matches = append(matches, p)
		}
	}

	return matches
}
