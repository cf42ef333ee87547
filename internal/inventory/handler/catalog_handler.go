package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
)

// CatalogHandler serves categories, subcategories and materials.
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ListCategories GET /categories.php
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if categories == nil {
		categories = []entity.Category{}
	}
	Success(c, categories)
}

// CreateCategory POST /categories.php
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	category, err := h.svc.CreateCategory(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, category)
}

// DeleteCategory DELETE /categories.php
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	Deleted(c)
}

// ListSubcategories GET /subcategories.php?categoryId=
func (h *CatalogHandler) ListSubcategories(c *gin.Context) {
	subs, err := h.svc.ListSubcategories(c.Request.Context(), c.Query("categoryId"))
	if err != nil {
		handleError(c, err)
		return
	}
	if subs == nil {
		subs = []entity.Subcategory{}
	}
	Success(c, subs)
}

func (h *CatalogHandler) CreateSubcategory(c *gin.Context) {
	var req service.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	sub, err := h.svc.CreateSubcategory(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, sub)
}

func (h *CatalogHandler) DeleteSubcategory(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteSubcategory(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	Deleted(c)
}

// ListMaterials GET /materials.php?subcategoryId=&categoryId=&status=&q=
func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	var q service.MaterialQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		BadRequest(c, "Invalid query: "+err.Error())
		return
	}
	materials, err := h.svc.ListMaterials(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, materials)
}

func (h *CatalogHandler) CreateMaterial(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	material, err := h.svc.CreateMaterial(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, material)
}

func (h *CatalogHandler) DeleteMaterial(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteMaterial(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	Deleted(c)
}

// ListZeroStock GET /zero_stock_materials.php
func (h *CatalogHandler) ListZeroStock(c *gin.Context) {
	materials, err := h.svc.ListZeroStock(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if materials == nil {
		materials = []entity.Material{}
	}
	Success(c, materials)
}

// FindByQR GET /get_material_by_qr.php?qrCode=
func (h *CatalogHandler) FindByQR(c *gin.Context) {
	material, err := h.svc.FindByQR(c.Request.Context(), c.Query("qrCode"))
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, material)
}
