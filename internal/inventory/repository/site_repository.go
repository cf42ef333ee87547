package repository

import (
	"context"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"gorm.io/gorm"
)

type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) List(ctx context.Context) ([]entity.ConstructionSite, error) {
	var sites []entity.ConstructionSite
	err := r.db.WithContext(ctx).Order("name ASC").Find(&sites).Error
	return sites, err
}

func (r *SiteRepository) FindByID(ctx context.Context, id string) (*entity.ConstructionSite, error) {
	var site entity.ConstructionSite
	if err := r.db.WithContext(ctx).First(&site, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &site, nil
}

// FindByName matches the label stored on transactions.
func (r *SiteRepository) FindByName(ctx context.Context, name string) (*entity.ConstructionSite, error) {
	var site entity.ConstructionSite
	if err := r.db.WithContext(ctx).First(&site, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &site, nil
}

func (r *SiteRepository) Create(ctx context.Context, site *entity.ConstructionSite) error {
	return translate(r.db.WithContext(ctx).Create(site).Error)
}

func (r *SiteRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Delete(&entity.ConstructionSite{}, "id = ?", id))
}
