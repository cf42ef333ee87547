package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var (
	ErrInvalidDiscount = errors.New("discount must be between 0 and 100")
	ErrEmptyQuotation  = errors.New("quotation needs at least one item")
)

var hundred = decimal.NewFromInt(100)

// QuotationItem one priced line of a quotation
type QuotationItem struct {
	MaterialID         string          `json:"materialId"`
	MaterialName       string          `json:"materialName"`
	Unit               string          `json:"unit"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	Discount           decimal.Decimal `json:"discount"`
	PriceAfterDiscount decimal.Decimal `json:"priceAfterDiscount"`
}

// NewQuotationItem prices quantity units of m with a percent discount.
func NewQuotationItem(m *Material, quantity int, discount decimal.Decimal) (QuotationItem, error) {
	if quantity <= 0 {
		return QuotationItem{}, ErrInvalidQuantity
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return QuotationItem{}, ErrInvalidDiscount
	}
	total := m.UnitCost.Mul(decimal.NewFromInt(int64(quantity)))
	after := total.Sub(total.Mul(discount).Div(hundred))
	return QuotationItem{
		MaterialID:         m.ID,
		MaterialName:       m.Name,
		Unit:               m.Unit,
		Quantity:           quantity,
		UnitPrice:          m.UnitCost,
		TotalPrice:         total.Round(2),
		Discount:           discount,
		PriceAfterDiscount: after.Round(2),
	}, nil
}

// Quotation priced offer for a client
type Quotation struct {
	ID            string                            `json:"id" gorm:"primaryKey;size:32"`
	ClientName    string                            `json:"clientName" gorm:"size:200;not null"`
	Date          datatypes.Date                    `json:"date" gorm:"not null"`
	Items         datatypes.JSONSlice[QuotationItem] `json:"items"`
	Subtotal      decimal.Decimal                   `json:"subtotal" gorm:"type:decimal(14,2);not null;default:0"`
	TotalDiscount decimal.Decimal                   `json:"totalDiscount" gorm:"type:decimal(14,2);not null;default:0"`
	GrandTotal    decimal.Decimal                   `json:"grandTotal" gorm:"type:decimal(14,2);not null;default:0"`
	CreatedBy     string                            `json:"createdBy" gorm:"size:64"`
	CreatedAt     time.Time                         `json:"createdAt"`
}

func (Quotation) TableName() string {
	return "quotations"
}

// Recalculate derives the totals from the items.
func (q *Quotation) Recalculate() {
	subtotal := decimal.Zero
	grand := decimal.Zero
	for _, item := range q.Items {
		subtotal = subtotal.Add(item.TotalPrice)
		grand = grand.Add(item.PriceAfterDiscount)
	}
	q.Subtotal = subtotal
	q.GrandTotal = grand
	q.TotalDiscount = subtotal.Sub(grand)
}
