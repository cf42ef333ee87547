package repository

import (
	"context"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"gorm.io/gorm"
)

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) List(ctx context.Context) ([]entity.Quotation, error) {
	var quotations []entity.Quotation
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&quotations).Error
	return quotations, err
}

func (r *QuotationRepository) FindByID(ctx context.Context, id string) (*entity.Quotation, error) {
	var q entity.Quotation
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (r *QuotationRepository) Create(ctx context.Context, q *entity.Quotation) error {
	return translate(r.db.WithContext(ctx).Create(q).Error)
}

func (r *QuotationRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Delete(&entity.Quotation{}, "id = ?", id))
}
