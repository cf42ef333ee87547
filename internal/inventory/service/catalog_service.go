package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/shopspring/decimal"
)

// CatalogService manages the category, subcategory and material hierarchy.
type CatalogService struct {
	categories    *repository.CategoryRepository
	subcategories *repository.SubcategoryRepository
	materials     *repository.MaterialRepository
	now           func() time.Time
}

func NewCatalogService(categories *repository.CategoryRepository, subcategories *repository.SubcategoryRepository, materials *repository.MaterialRepository) *CatalogService {
	return &CatalogService{
		categories:    categories,
		subcategories: subcategories,
		materials:     materials,
		now:           time.Now,
	}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreateSubcategoryRequest struct {
	CategoryID  string `json:"categoryId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateMaterialRequest materials.php POST body
type CreateMaterialRequest struct {
	SubcategoryID string          `json:"subcategoryId" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit" binding:"required"`
	CurrentStock  int             `json:"currentStock" binding:"gte=0"`
	MinStock      int             `json:"minStock" binding:"gte=0"`
	MaxStock      int             `json:"maxStock" binding:"gte=0"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	Supplier      string          `json:"supplier"`
	Location      string          `json:"location"`
}

// MaterialQuery filters materials.php GET.
type MaterialQuery struct {
	SubcategoryID string `form:"subcategoryId"`
	CategoryID    string `form:"categoryId"`
	Status        string `form:"status"`
	Q             string `form:"q"`
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req CreateCategoryRequest, actor Actor) (*entity.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	category := &entity.Category{
		ID:          newID(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   actor.Username,
		CreatedAt:   s.now(),
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, duplicate(err, "a category with this name already exists")
	}
	return category, nil
}

// DeleteCategory cascades to subcategories, materials and their transactions.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return missing(s.categories.Delete(ctx, id), "Category")
}

func (s *CatalogService) ListSubcategories(ctx context.Context, categoryID string) ([]entity.Subcategory, error) {
	return s.subcategories.List(ctx, categoryID)
}

func (s *CatalogService) CreateSubcategory(ctx context.Context, req CreateSubcategoryRequest, actor Actor) (*entity.Subcategory, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		return nil, missing(err, "Category")
	}
	sub := &entity.Subcategory{
		ID:          newID(),
		CategoryID:  req.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   actor.Username,
		CreatedAt:   s.now(),
	}
	if err := s.subcategories.Create(ctx, sub); err != nil {
		return nil, duplicate(err, "a subcategory with this name already exists in the category")
	}
	return sub, nil
}

func (s *CatalogService) DeleteSubcategory(ctx context.Context, id string) error {
	return missing(s.subcategories.Delete(ctx, id), "Subcategory")
}

// ListMaterials applies the parent filters in SQL and the text query in memory.
func (s *CatalogService) ListMaterials(ctx context.Context, q MaterialQuery) ([]entity.Material, error) {
	materials, err := s.materials.List(ctx, repository.MaterialFilter{
		SubcategoryID: q.SubcategoryID,
		CategoryID:    q.CategoryID,
		Status:        q.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return entity.FilterMaterials(materials, q.Q), nil
}

func (s *CatalogService) ListZeroStock(ctx context.Context) ([]entity.Material, error) {
	return s.materials.ListZeroStock(ctx)
}

func (s *CatalogService) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	m, err := s.materials.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "Material")
	}
	return m, nil
}

// FindByQR is an exact lookup on the trimmed code.
func (s *CatalogService) FindByQR(ctx context.Context, code string) (*entity.Material, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("qrCode is required")
	}
	m, err := s.materials.FindByQRCode(ctx, code)
	if err != nil {
		return nil, missing(err, "Material")
	}
	return m, nil
}

func (s *CatalogService) CreateMaterial(ctx context.Context, req CreateMaterialRequest, actor Actor) (*entity.Material, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if !entity.ValidUnit(req.Unit) {
		return nil, invalid("unit %q is not supported", req.Unit)
	}
	if req.UnitCost.IsNegative() {
		return nil, invalid("unitCost cannot be negative")
	}
	sub, err := s.subcategories.FindByID(ctx, req.SubcategoryID)
	if err != nil {
		return nil, missing(err, "Subcategory")
	}

	maxStock := req.MaxStock
	if maxStock == 0 {
		maxStock = entity.DefaultMaxStock
	}
	now := s.now()
	material := &entity.Material{
		ID:            newID(),
		CategoryID:    sub.CategoryID,
		SubcategoryID: sub.ID,
		Name:          name,
		Description:   strings.TrimSpace(req.Description),
		Unit:          req.Unit,
		MinStock:      req.MinStock,
		MaxStock:      maxStock,
		UnitCost:      req.UnitCost.Round(2),
		Supplier:      strings.TrimSpace(req.Supplier),
		Location:      strings.TrimSpace(req.Location),
		CreatedBy:     actor.Username,
		CreatedAt:     now,
	}
	material.ApplyStock(req.CurrentStock, now)

	// the QR suffix is short; a clash moves it on by one millisecond
	for attempt := 0; ; attempt++ {
		material.QRCode = entity.GenerateQRCode(name, now.Add(time.Duration(attempt)*time.Millisecond))
		err := s.materials.Create(ctx, material)
		if err == nil {
			return material, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) || attempt+1 >= qrCodeAttempts || !s.qrCodeTaken(ctx, material.QRCode) {
			return nil, duplicate(err, "a material with this name or QR code already exists")
		}
	}
}

const qrCodeAttempts = 5

func (s *CatalogService) qrCodeTaken(ctx context.Context, code string) bool {
	_, err := s.materials.FindByQRCode(ctx, code)
	return err == nil
}

// DeleteMaterial removes the material and its transaction history.
func (s *CatalogService) DeleteMaterial(ctx context.Context, id string) error {
	return missing(s.materials.Delete(ctx, id), "Material")
}
