package entity

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestQuotationTotals(t *testing.T) {
	cement := &Material{ID: "m1", Name: "Portland Cement", Unit: "bags", UnitCost: decimal.RequireFromString("12.50")}
	rebar := &Material{ID: "m2", Name: "Rebar #4", Unit: "pieces", UnitCost: decimal.RequireFromString("8.75")}

	a, err := NewQuotationItem(cement, 10, decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("NewQuotationItem: %v", err)
	}
	if !a.TotalPrice.Equal(decimal.RequireFromString("125")) {
		t.Errorf("expected total 125, got %s", a.TotalPrice)
	}
	if !a.PriceAfterDiscount.Equal(decimal.RequireFromString("112.5")) {
		t.Errorf("expected 112.5 after discount, got %s", a.PriceAfterDiscount)
	}

	b, err := NewQuotationItem(rebar, 4, decimal.Zero)
	if err != nil {
		t.Fatalf("NewQuotationItem: %v", err)
	}

	q := &Quotation{ClientName: "Acme Builders", Items: []QuotationItem{a, b}}
	q.Recalculate()

	if !q.Subtotal.Equal(decimal.RequireFromString("160")) {
		t.Errorf("subtotal: expected 160, got %s", q.Subtotal)
	}
	if !q.TotalDiscount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("discount: expected 12.5, got %s", q.TotalDiscount)
	}
	if !q.GrandTotal.Equal(decimal.RequireFromString("147.5")) {
		t.Errorf("grand total: expected 147.5, got %s", q.GrandTotal)
	}
}

func TestQuotationItemValidation(t *testing.T) {
	m := &Material{ID: "m1", UnitCost: decimal.NewFromInt(1)}
	if _, err := NewQuotationItem(m, 0, decimal.Zero); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewQuotationItem(m, 1, decimal.NewFromInt(101)); !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("expected ErrInvalidDiscount, got %v", err)
	}
	if _, err := NewQuotationItem(m, 1, decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidDiscount) {
		t.Errorf("expected ErrInvalidDiscount, got %v", err)
	}
}
