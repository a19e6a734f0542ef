// Package types provides core types for the diner order pipeline
package types

import (
	"errors"
	"fmt"
)

// ErrUnknownDish is returned when a dish code falls outside the menu
var ErrUnknownDish = errors.New("unknown dish code")

// Dish represents a menu item
type Dish int

const (
	DishNone Dish = iota
	DishPizza
	DishSoup
	DishSteak
	DishSalad
	DishSushi
)

// Menu bounds for dish codes carried by real orders
const (
	FirstDish = DishPizza
	LastDish  = DishSushi
)

// String returns the display name of the dish
func (d Dish) String() string {
	switch d {
	case DishNone:
		return "None"
	case DishPizza:
		return "Pizza"
	case DishSoup:
		return "Soup"
	case DishSteak:
		return "Steak"
	case DishSalad:
		return "Salad"
	case DishSushi:
		return "Sushi"
	default:
		return "Unknown"
	}
}

// ParseDish converts a menu code into a Dish. DishNone is not orderable.
func ParseDish(code int) (Dish, error) {
	if code < int(FirstDish) || code > int(LastDish) {
		return DishNone, fmt.Errorf("%w: %d (want %d..%d)", ErrUnknownDish, code, FirstDish, LastDish)
	}
	return Dish(code), nil
}

// Menu returns every orderable dish in code order
func Menu() []Dish {
	dishes := make([]Dish, 0, int(LastDish-FirstDish)+1)
	for d := FirstDish; d <= LastDish; d++ {
		dishes = append(dishes, d)
	}
	return dishes
}

// Order is an immutable customer order
type Order struct {
	ID   int  `json:"id" yaml:"id"`
	Dish Dish `json:"dish" yaml:"dish"`
}

// String implements fmt.Stringer
func (o Order) String() string {
	return fmt.Sprintf("#%d %s", o.ID, o.Dish)
}

// OrderIDs extracts the ids of the given orders, preserving order
func OrderIDs(orders []Order) []int {
	ids := make([]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}
