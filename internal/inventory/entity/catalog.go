package entity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Material status
const (
	StatusInStock    = "in-stock"
	StatusLowStock   = "low-stock"
	StatusOutOfStock = "out-of-stock"
)

// Transaction types
const (
	TxTypeCheckIn  = "check-in"
	TxTypeCheckOut = "check-out"
)

// DefaultMaxStock is applied to new materials that do not set one.
const DefaultMaxStock = 1000

const qrImageBase = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data="

var (
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTxType     = errors.New("transaction type must be check-in or check-out")
)

// Units accepted for a material.
var Units = []string{
	"pieces", "bags", "tons", "cubic yards", "linear feet", "square feet",
	"gallons", "boxes", "rolls", "sheets", "bundles", "pallets",
	"kilograms", "gram", "liters", "milliliters",
}

func ValidUnit(unit string) bool {
	for _, u := range Units {
		if u == unit {
			return true
		}
	}
	return false
}

// Category top level of the catalog
type Category struct {
	ID               string    `json:"id" gorm:"primaryKey;size:32"`
	Name             string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description      string    `json:"description" gorm:"type:text"`
	CreatedBy        string    `json:"createdBy" gorm:"size:64"`
	CreatedAt        time.Time `json:"createdAt"`
	SubcategoryCount int64     `json:"subcategoryCount" gorm:"->;-:migration"`
}

func (Category) TableName() string {
	return "categories"
}

// Subcategory groups materials under a category
type Subcategory struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	CategoryID    string    `json:"categoryId" gorm:"size:32;not null;uniqueIndex:idx_subcategory_name"`
	Name          string    `json:"name" gorm:"size:128;not null;uniqueIndex:idx_subcategory_name"`
	Description   string    `json:"description" gorm:"type:text"`
	CreatedBy     string    `json:"createdBy" gorm:"size:64"`
	CreatedAt     time.Time `json:"createdAt"`
	MaterialCount int64     `json:"materialCount" gorm:"->;-:migration"`
}

func (Subcategory) TableName() string {
	return "subcategories"
}

// Material stock-keeping item
type Material struct {
	ID            string          `json:"id" gorm:"primaryKey;size:32"`
	CategoryID    string          `json:"categoryId" gorm:"size:32;index"`
	SubcategoryID string          `json:"subcategoryId" gorm:"size:32;not null;uniqueIndex:idx_material_name"`
	Name          string          `json:"name" gorm:"size:128;not null;uniqueIndex:idx_material_name"`
	Description   string          `json:"description" gorm:"type:text"`
	Unit          string          `json:"unit" gorm:"size:32;not null"`
	CurrentStock  int             `json:"currentStock" gorm:"not null;default:0"`
	MinStock      int             `json:"minStock" gorm:"not null;default:0"`
	MaxStock      int             `json:"maxStock" gorm:"not null;default:1000"`
	UnitCost      decimal.Decimal `json:"unitCost" gorm:"type:decimal(12,2);not null;default:0"`
	Supplier      string          `json:"supplier" gorm:"size:128"`
	Location      string          `json:"location" gorm:"size:128"`
	QRCode        string          `json:"qrCode" gorm:"size:160;uniqueIndex"`
	Status        string          `json:"status" gorm:"size:20;not null;index"`
	LastUpdated   time.Time       `json:"lastUpdated"`
	CreatedBy     string          `json:"createdBy" gorm:"size:64"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (Material) TableName() string {
	return "materials"
}

// DeriveStatus is the only place a material status is computed.
func DeriveStatus(currentStock, minStock int) string {
	switch {
	case currentStock <= 0:
		return StatusOutOfStock
	case currentStock <= minStock:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ApplyStock sets the stock floored at zero and recomputes status.
func (m *Material) ApplyStock(stock int, at time.Time) {
	if stock < 0 {
		stock = 0
	}
	m.CurrentStock = stock
	m.Status = DeriveStatus(stock, m.MinStock)
	m.LastUpdated = at
}

// StockPercentage is current/max capped at 100.
func (m *Material) StockPercentage() float64 {
	if m.MaxStock <= 0 {
		return 0
	}
	p := float64(m.CurrentStock) / float64(m.MaxStock) * 100
	if p > 100 {
		return 100
	}
	return p
}

// NextStock validates a movement against the current stock and returns the resulting stock.
func NextStock(current int, txType string, quantity int) (int, error) {
	if quantity <= 0 {
		return current, ErrInvalidQuantity
	}
	switch txType {
	case TxTypeCheckIn:
		return current + quantity, nil
	case TxTypeCheckOut:
		if quantity > current {
			return current, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, current)
		}
		next := current - quantity
		if next < 0 {
			next = 0
		}
		return next, nil
	}
	return current, ErrInvalidTxType
}

// GenerateQRCode builds QR-<NAME>-<ms suffix>.
func GenerateQRCode(name string, now time.Time) string {
	slug := strings.Join(strings.Fields(strings.ToUpper(name)), "-")
	return fmt.Sprintf("QR-%s-%03d", slug, now.UnixMilli()%1000)
}

// QRImageURL points at the external QR renderer.
func QRImageURL(code string) string {
	return qrImageBase + url.QueryEscape(code)
}

// Transaction stock movement
type Transaction struct {
	ID               string    `json:"id" gorm:"primaryKey;size:32"`
	MaterialID       string    `json:"materialId" gorm:"size:32;not null;index"`
	Type             string    `json:"type" gorm:"size:16;not null;index"`
	Quantity         int       `json:"quantity" gorm:"not null"`
	Reason           string    `json:"reason" gorm:"type:text;not null"`
	ConstructionSite string    `json:"constructionSite" gorm:"size:128;index"`
	User             string    `json:"user" gorm:"column:user_name;size:128;index"`
	UserID           string    `json:"userId" gorm:"size:32;index"`
	UserRole         string    `json:"userRole" gorm:"size:20"`
	StockAfter       int       `json:"stockAfter"`
	IdempotencyKey   *string   `json:"idempotencyKey,omitempty" gorm:"size:64;uniqueIndex"`
	Timestamp        time.Time `json:"timestamp" gorm:"column:occurred_at;not null;index"`
}

func (Transaction) TableName() string {
	return "transactions"
}
