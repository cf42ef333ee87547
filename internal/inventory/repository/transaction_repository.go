package repository

import (
	"context"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

// List returns transactions newest first, optionally for one material.
func (r *TransactionRepository) List(ctx context.Context, materialID string) ([]entity.Transaction, error) {
	var txs []entity.Transaction
	query := r.db.WithContext(ctx)
	if materialID != "" {
		query = query.Where("material_id = ?", materialID)
	}
	err := query.Order("occurred_at DESC").Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	return translate(r.db.WithContext(ctx).Create(tx).Error)
}

// FindByIdempotencyKey returns the transaction a key was first used for.
func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error) {
	var tx entity.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "idempotency_key = ?", key).Error; err != nil {
		return nil, translate(err)
	}
	return &tx, nil
}

// ReportFilter selects transactions for a report. Zero values are ignored.
type ReportFilter struct {
	StartDate        *time.Time
	EndDate          *time.Time
	ConstructionSite string
	Employee         string
	MaterialID       string
	Type             string
}

// ReportRow is a transaction joined with its material's pricing.
type ReportRow struct {
	entity.Transaction `gorm:"embedded"`
	MaterialName       string          `json:"materialName"`
	UnitCost           decimal.Decimal `json:"unitCost"`
}

// Report lists matching transactions newest first. EndDate is inclusive of the whole day.
func (r *TransactionRepository) Report(ctx context.Context, f ReportFilter) ([]ReportRow, error) {
	query := r.db.WithContext(ctx).
		Table("transactions").
		Select("transactions.*, COALESCE(materials.name, '') AS material_name, COALESCE(materials.unit_cost, 0) AS unit_cost").
		Joins("LEFT JOIN materials ON materials.id = transactions.material_id")

	if f.StartDate != nil {
		query = query.Where("transactions.occurred_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		y, m, d := f.EndDate.Date()
		next := time.Date(y, m, d, 0, 0, 0, 0, f.EndDate.Location()).AddDate(0, 0, 1)
		query = query.Where("transactions.occurred_at < ?", next)
	}
	if f.ConstructionSite != "" {
		query = query.Where("transactions.construction_site = ?", f.ConstructionSite)
	}
	if f.Employee != "" {
		query = query.Where("transactions.user_name = ?", f.Employee)
	}
	if f.MaterialID != "" {
		query = query.Where("transactions.material_id = ?", f.MaterialID)
	}
	if f.Type != "" {
		query = query.Where("transactions.type = ?", f.Type)
	}

	var rows []ReportRow
	err := query.Order("transactions.occurred_at DESC").Scan(&rows).Error
	return rows, err
}
