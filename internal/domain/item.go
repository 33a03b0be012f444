package domain

import (
	"strings"
	"unicode/utf8"
)

const MaxItemNameLength = 128

// Item is a menu entry. Price is in minor currency units.
type Item struct {
	ID    int64
	Name  string
	Price int64
}

// NewItem creates an item with business rules applied
func NewItem(name string, price int64) (*Item, error) {
	item := &Item{
		Name:  strings.TrimSpace(name),
		Price: price,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *Item) Validate() error {
	verr := &ValidationError{}
	if i.Name == "" {
		verr.Add("name", "item name is required")
	} else if utf8.RuneCountInString(i.Name) > MaxItemNameLength {
		verr.Add("name", "item name must not exceed 128 characters")
	}
	if i.Price < 0 {
		verr.Add("price", "item price must not be negative")
	}
	return verr.OrNil()
}
