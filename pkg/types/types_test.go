package types_test

import (
	"errors"
	"testing"

	"github.com/poltergeist/diner/pkg/types"
)

func TestDishString(t *testing.T) {
	tests := []struct {
		dish types.Dish
		want string
	}{
		{types.DishNone, "None"},
		{types.DishPizza, "Pizza"},
		{types.DishSoup, "Soup"},
		{types.DishSteak, "Steak"},
		{types.DishSalad, "Salad"},
		{types.DishSushi, "Sushi"},
		{types.Dish(42), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.dish.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseDish(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		want    types.Dish
		wantErr bool
	}{
		{"pizza", 1, types.DishPizza, false},
		{"sushi", 5, types.DishSushi, false},
		{"none is not orderable", 0, types.DishNone, true},
		{"above menu", 6, types.DishNone, true},
		{"negative", -1, types.DishNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseDish(tt.code)
			if tt.wantErr {
				if !errors.Is(err, types.ErrUnknownDish) {
					t.Fatalf("expected ErrUnknownDish, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMenu(t *testing.T) {
	menu := types.Menu()
	if len(menu) != 5 {
		t.Fatalf("expected 5 dishes, got %d", len(menu))
	}
	if menu[0] != types.DishPizza || menu[4] != types.DishSushi {
		t.Errorf("unexpected menu bounds: %v", menu)
	}
}

func TestEventOrder(t *testing.T) {
	o := types.Order{ID: 3, Dish: types.DishSoup}

	arrived := types.Event{Kind: types.EventOrderArrived, Orders: []types.Order{o}}
	if got, ok := arrived.Order(); !ok || got != o {
		t.Errorf("expected %v, got %v (ok=%v)", o, got, ok)
	}

	delivered := types.Event{Kind: types.EventOrdersDelivered, Orders: []types.Order{o}}
	if _, ok := delivered.Order(); ok {
		t.Error("delivery batches should not report a single order")
	}
}

func TestSummaryUndelivered(t *testing.T) {
	s := types.Summary{
		Produced:    12,
		Delivered:   10,
		LeftPending: []types.Order{{ID: 12}},
		LeftReady:   []types.Order{{ID: 11}},
	}
	if s.Undelivered() != 2 {
		t.Errorf("expected 2 undelivered, got %d", s.Undelivered())
	}
	if s.Produced != s.Delivered+s.Undelivered() {
		t.Error("summary does not balance")
	}
}
