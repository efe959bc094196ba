package sale

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tiendita/pos-core/internal/models"
)

func testProduct(id, name string, price int64, stock int) *models.ProductModel {
	p := &models.ProductModel{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		IsActive: true,
	}
	p.ID = id
	return p
}

func TestBuildItemsTotals(t *testing.T) {
	lines := []saleLine{
		{product: testProduct("p1", "coffee", 2500, 10), quantity: 2},
		{product: testProduct("p2", "bread", 800, 5), quantity: 3},
	}
	items, total, err := buildItems(lines)
	if err != nil {
		t.Fatalf("buildItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if want := decimal.NewFromInt(5000); !items[0].Subtotal.Equal(want) {
		t.Errorf("coffee subtotal = %s, want %s", items[0].Subtotal, want)
	}
	if want := decimal.NewFromInt(2400); !items[1].Subtotal.Equal(want) {
		t.Errorf("bread subtotal = %s, want %s", items[1].Subtotal, want)
	}
	if want := decimal.NewFromInt(7400); !total.Equal(want) {
		t.Errorf("total = %s, want %s", total, want)
	}
}

func TestBuildItemsRejectsOverdraw(t *testing.T) {
	lines := []saleLine{
		{product: testProduct("p1", "coffee", 2500, 1), quantity: 2},
	}
	if _, _, err := buildItems(lines); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("buildItems = %v, want ErrInsufficientStock", err)
	}
}

func TestBuildItemsRejectsInactive(t *testing.T) {
	p := testProduct("p1", "legacy item", 100, 10)
	p.IsActive = false
	if _, _, err := buildItems([]saleLine{{product: p, quantity: 1}}); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("buildItems = %v, want ErrProductUnavailable", err)
	}
	if _, _, err := buildItems([]saleLine{{product: nil, quantity: 1}}); !errors.Is(err, ErrProductUnavailable) {
		t.Fatalf("buildItems with nil product = %v, want ErrProductUnavailable", err)
	}
}

// Exact-decimal check: 0.1 + 0.2 style prices must not drift.
func TestBuildItemsDecimalExactness(t *testing.T) {
	price, _ := decimal.NewFromString("0.10")
	p := testProduct("p1", "candy", 0, 100)
	p.Price = price

	lines := []saleLine{{product: p, quantity: 3}}
	_, total, err := buildItems(lines)
	if err != nil {
		t.Fatalf("buildItems: %v", err)
	}
	want, _ := decimal.NewFromString("0.30")
	if !total.Equal(want) {
		t.Errorf("total = %s, want %s", total, want)
	}
}
