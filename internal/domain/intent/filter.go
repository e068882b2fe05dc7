// Package intent turns a free-text Portuguese message into a structured
// filter over listings. Every function here is pure: no I/O, no logging and
// no shared state, so callers may invoke them concurrently.
package intent

import (
	"strings"

	"imoveis/internal/domain/listings"
)

// Intent is the structured reading of one message.
type Intent struct {
	Category     listings.Category `json:"category,omitempty"`
	PropertyType string            `json:"propertyType,omitempty"`
	Price        *PriceFilter      `json:"price,omitempty"`
	Location     LocationMatch     `json:"location"`
}

// IsZero reports whether the message carried no recognizable constraint.
func (i Intent) IsZero() bool {
	return i.Category == "" && i.PropertyType == "" && i.Price == nil && i.Location.IsZero()
}

// Parse extracts every constraint of message. Location names are drawn from
// items.
func Parse(message string, items []*listings.Listing) Intent {
	text := Normalize(message)
	if strings.TrimSpace(text) == "" {
		return Intent{}
	}
	price, _ := extractPrice(text)
	return Intent{
		Category:     detectCategory(text),
		PropertyType: detectPropertyType(text),
		Price:        price,
		Location:     matchLocation(text, items),
	}
}

// Apply narrows items to the listings satisfying the intent. The property type
// only filters when strictType is set. A matched neighborhood takes precedence
// over a matched city. Nil entries are dropped. The input slice is never
// modified.
func (i Intent) Apply(items []*listings.Listing, strictType bool) []*listings.Listing {
	result := make([]*listings.Listing, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if i.keeps(item, strictType) {
			result = append(result, item)
		}
	}
	return result
}

func (i Intent) keeps(item *listings.Listing, strictType bool) bool {
	if i.Category != "" && item.Category != i.Category {
		return false
	}
	if i.PropertyType != "" && strictType {
		haystack := Normalize(item.Title + " " + item.Description)
		if !strings.Contains(haystack, i.PropertyType) {
			return false
		}
	}
	if i.Price != nil && !i.Price.Contains(item.ActivePrice()) {
		return false
	}
	switch {
	case i.Location.Neighborhood != "":
		return item.Location.Neighborhood == i.Location.Neighborhood
	case i.Location.City != "":
		return item.Location.City == i.Location.City
	}
	return true
}

// ApplyFilters parses message against items and returns the matching subset.
func ApplyFilters(items []*listings.Listing, message string, strictType bool) []*listings.Listing {
	return Parse(message, items).Apply(items, strictType)
}
