package service

import (
	"context"
	"strings"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
)

// SiteService manages construction sites. Sites are created and deleted, never edited.
type SiteService struct {
	repo *repository.SiteRepository
}

func NewSiteService(repo *repository.SiteRepository) *SiteService {
	return &SiteService{repo: repo}
}

// CreateSiteRequest accepts either location or address.
type CreateSiteRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Address  string `json:"address"`
	IsActive *bool  `json:"isActive"`
}

func (s *SiteService) List(ctx context.Context) ([]entity.ConstructionSite, error) {
	return s.repo.List(ctx)
}

func (s *SiteService) Create(ctx context.Context, req CreateSiteRequest, actor Actor) (*entity.ConstructionSite, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	site := &entity.ConstructionSite{
		ID:        newID(),
		Name:      name,
		Location:  strings.TrimSpace(req.Location),
		Address:   strings.TrimSpace(req.Address),
		IsActive:  req.IsActive == nil || *req.IsActive,
		CreatedBy: actor.Username,
		CreatedAt: time.Now(),
	}
	site.Normalize()
	if err := s.repo.Create(ctx, site); err != nil {
		return nil, duplicate(err, "a construction site with this name already exists")
	}
	return site, nil
}

func (s *SiteService) Delete(ctx context.Context, id string) error {
	return missing(s.repo.Delete(ctx, id), "Construction site")
}
