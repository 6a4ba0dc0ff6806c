package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LineItem позиция заказа, снимок товара на момент покупки
type LineItem struct {
	ProductID     string  `json:"productId" validate:"required"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price" validate:"gte=0"`
	TotalPrice    float64 `json:"totalPrice" validate:"gte=0"`
	Quantity      int64   `json:"quantity" validate:"gt=0"`
	SelectedColor string  `json:"selectedColor"`
	SelectedSize  string  `json:"selectedSize"`
}

// RawItems is the serialized line-item snapshot as it sits in storage.
// Older rows may hold the array double-encoded as a JSON string.
type RawItems []byte

func (r RawItems) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(r)) == 0 {
		return []byte("[]"), nil
	}
	if json.Valid(r) {
		return append([]byte(nil), r...), nil
	}
	// keep the response well-formed even for corrupted rows
	return json.Marshal(string(r))
}

func (r *RawItems) UnmarshalJSON(b []byte) error {
	if r == nil {
		return fmt.Errorf("domain: RawItems: UnmarshalJSON on nil pointer")
	}
	*r = append((*r)[:0], b...)
	return nil
}

// EncodeLineItems serializes items for storage.
func EncodeLineItems(items []LineItem) (RawItems, error) {
	if items == nil {
		items = []LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode line items: %w", err)
	}
	return RawItems(b), nil
}

// ParseLineItems decodes a stored snapshot. Both a JSON array and a JSON string
// wrapping an array are accepted.
func ParseLineItems(raw RawItems) ([]LineItem, error) {
	data := bytes.TrimSpace(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return nil, fmt.Errorf("parse line items: %w", err)
		}
		data = bytes.TrimSpace([]byte(text))
		if len(data) == 0 {
			return nil, nil
		}
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse line items: %w", err)
	}
	return items, nil
}
