package repository

import (
	"context"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// WithTx binds the repository to an open transaction.
func (r *MaterialRepository) WithTx(tx *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: tx}
}

// MaterialFilter narrows a material listing.
type MaterialFilter struct {
	SubcategoryID string
	CategoryID    string
	Status        string
}

func (r *MaterialRepository) List(ctx context.Context, f MaterialFilter) ([]entity.Material, error) {
	var materials []entity.Material
	query := r.db.WithContext(ctx).Model(&entity.Material{})
	if f.SubcategoryID != "" {
		query = query.Where("subcategory_id = ?", f.SubcategoryID)
	}
	if f.CategoryID != "" {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	err := query.Order("name ASC").Find(&materials).Error
	return materials, err
}

// ListZeroStock returns materials that are fully depleted.
func (r *MaterialRepository) ListZeroStock(ctx context.Context) ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.WithContext(ctx).
		Where("current_stock <= 0").
		Order("last_updated DESC").
		Find(&materials).Error
	return materials, err
}

// ListBelowMinimum returns low and out-of-stock materials.
func (r *MaterialRepository) ListBelowMinimum(ctx context.Context) ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.WithContext(ctx).
		Where("current_stock <= min_stock").
		Order("current_stock ASC, name ASC").
		Find(&materials).Error
	return materials, err
}

func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	var material entity.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &material, nil
}

// FindByIDs loads materials keyed by id.
func (r *MaterialRepository) FindByIDs(ctx context.Context, ids []string) (map[string]entity.Material, error) {
	result := make(map[string]entity.Material, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var materials []entity.Material
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&materials).Error; err != nil {
		return nil, err
	}
	for _, m := range materials {
		result[m.ID] = m
	}
	return result, nil
}

// FindByQRCode is an exact match on the printed code.
func (r *MaterialRepository) FindByQRCode(ctx context.Context, code string) (*entity.Material, error) {
	var material entity.Material
	if err := r.db.WithContext(ctx).First(&material, "qr_code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &material, nil
}

// LockByID selects the row FOR UPDATE. Must run inside a transaction.
func (r *MaterialRepository) LockByID(ctx context.Context, id string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&material, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &material, nil
}

func (r *MaterialRepository) Create(ctx context.Context, material *entity.Material) error {
	return translate(r.db.WithContext(ctx).Create(material).Error)
}

// UpdateStock persists the stock columns only.
func (r *MaterialRepository) UpdateStock(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).
		Model(&entity.Material{}).
		Where("id = ?", material.ID).
		Updates(map[string]interface{}{
			"current_stock": material.CurrentStock,
			"status":        material.Status,
			"last_updated":  material.LastUpdated,
		}).Error
}

// Delete removes the material and its transaction history.
func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("material_id = ?", id).Delete(&entity.Transaction{}).Error; err != nil {
			return err
		}
		return deleted(tx.Delete(&entity.Material{}, "id = ?", id))
	})
}
