package repository

import (
	"context"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories with their subcategory count.
func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).
		Model(&entity.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM subcategories s WHERE s.category_id = categories.id) AS subcategory_count").
		Order("categories.name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

// Delete removes the category and everything filed under it.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subIDs := tx.Model(&entity.Subcategory{}).Select("id").Where("category_id = ?", id)
		materialIDs := tx.Model(&entity.Material{}).Select("id").Where("subcategory_id IN (?)", subIDs)

		if err := tx.Where("material_id IN (?)", materialIDs).Delete(&entity.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subcategory_id IN (?)", subIDs).Delete(&entity.Material{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&entity.Subcategory{}).Error; err != nil {
			return err
		}
		return deleted(tx.Delete(&entity.Category{}, "id = ?", id))
	})
}

type SubcategoryRepository struct {
	db *gorm.DB
}

func NewSubcategoryRepository(db *gorm.DB) *SubcategoryRepository {
	return &SubcategoryRepository{db: db}
}

// List returns subcategories, optionally limited to one category, with their material count.
func (r *SubcategoryRepository) List(ctx context.Context, categoryID string) ([]entity.Subcategory, error) {
	var subcategories []entity.Subcategory
	query := r.db.WithContext(ctx).
		Model(&entity.Subcategory{}).
		Select("subcategories.*, (SELECT COUNT(*) FROM materials m WHERE m.subcategory_id = subcategories.id) AS material_count")
	if categoryID != "" {
		query = query.Where("subcategories.category_id = ?", categoryID)
	}
	err := query.Order("subcategories.name ASC").Find(&subcategories).Error
	return subcategories, err
}

func (r *SubcategoryRepository) FindByID(ctx context.Context, id string) (*entity.Subcategory, error) {
	var sub entity.Subcategory
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *SubcategoryRepository) Create(ctx context.Context, sub *entity.Subcategory) error {
	return translate(r.db.WithContext(ctx).Create(sub).Error)
}

// Delete removes the subcategory with its materials and their transactions.
func (r *SubcategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		materialIDs := tx.Model(&entity.Material{}).Select("id").Where("subcategory_id = ?", id)
		if err := tx.Where("material_id IN (?)", materialIDs).Delete(&entity.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subcategory_id = ?", id).Delete(&entity.Material{}).Error; err != nil {
			return err
		}
		return deleted(tx.Delete(&entity.Subcategory{}, "id = ?", id))
	})
}
