package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/sse"
	"github.com/rajithaprasad/hardwareProject/internal/middleware"
	"go.uber.org/zap"
)

// Handlers groups the API handlers
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Catalog    *CatalogHandler
	Stock      *StockHandler
	Site       *SiteHandler
	Note       *NoteHandler
	Attendance *AttendanceHandler
	Tool       *ToolHandler
	Quotation  *QuotationHandler
	Report     *ReportHandler
	Upload     *UploadHandler
	SSE        *SSEHandler
}

// NewHandlers builds every handler over svc.
func NewHandlers(svc *service.Services, hub *sse.Hub, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	errorLogger = logger.Named("handler")
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Catalog:    NewCatalogHandler(svc.Catalog),
		Stock:      NewStockHandler(svc.Stock),
		Site:       NewSiteHandler(svc.Site),
		Note:       NewNoteHandler(svc.Note, svc.ManagerNote),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Tool:       NewToolHandler(svc.Tool),
		Quotation:  NewQuotationHandler(svc.Quotation),
		Report:     NewReportHandler(svc.Report),
		Upload:     NewUploadHandler(svc.Upload, svc.Tool),
		SSE:        NewSSEHandler(hub),
	}
}

// RegisterRoutes mounts the API under /api. Everything but login sits behind JWT auth.
func (h *Handlers) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	api := r.Group("/api")
	api.POST("/login.php", h.Auth.Login)

	authed := api.Group("", middleware.JWTAuth(jwtSecret))
	modify := middleware.RequireCapability(entity.CapModify)
	reporting := middleware.RequireRole(entity.RoleManager, entity.RoleDirector, entity.RoleSecretary)

	authed.GET("/categories.php", h.Catalog.ListCategories)
	authed.POST("/categories.php", modify, h.Catalog.CreateCategory)
	authed.DELETE("/categories.php", modify, h.Catalog.DeleteCategory)

	authed.GET("/subcategories.php", h.Catalog.ListSubcategories)
	authed.POST("/subcategories.php", modify, h.Catalog.CreateSubcategory)
	authed.DELETE("/subcategories.php", modify, h.Catalog.DeleteSubcategory)

	authed.GET("/materials.php", h.Catalog.ListMaterials)
	authed.POST("/materials.php", modify, h.Catalog.CreateMaterial)
	authed.DELETE("/materials.php", modify, h.Catalog.DeleteMaterial)
	authed.GET("/zero_stock_materials.php", h.Catalog.ListZeroStock)
	authed.GET("/get_material_by_qr.php", h.Catalog.FindByQR)

	// capability depends on the transaction type and is checked by the service
	authed.GET("/transactions.php", h.Stock.List)
	authed.POST("/transactions.php", h.Stock.Record)

	authed.GET("/construction_sites.php", h.Site.List)
	authed.POST("/construction_sites.php", modify, h.Site.Create)
	authed.DELETE("/construction_sites.php", modify, h.Site.Delete)

	authed.GET("/users.php", h.User.List)
	authed.POST("/users.php", modify, h.User.Create)
	authed.DELETE("/users.php", modify, h.User.Delete)

	authed.GET("/attendance.php", h.Attendance.List)
	authed.POST("/attendance_start.php", h.Attendance.Start)
	authed.POST("/attendance_end.php", h.Attendance.End)
	authed.GET("/attendance_summary.php", h.Attendance.Summary)

	authed.GET("/tools.php", h.Tool.List)
	authed.POST("/tools.php", modify, h.Tool.Create)
	authed.DELETE("/tools.php", modify, h.Tool.Delete)
	authed.POST("/tool_assign.php", modify, h.Tool.Assign)
	authed.POST("/tool_unassign.php", modify, h.Tool.Unassign)

	authed.GET("/notes.php", h.Note.List)
	authed.POST("/notes.php", h.Note.Create)
	authed.DELETE("/notes.php", h.Note.Delete)
	authed.GET("/manager_notes.php", h.Note.ListManagerNotes)
	authed.POST("/manager_notes.php", modify, h.Note.CreateManagerNote)
	authed.DELETE("/manager_notes.php", modify, h.Note.DeleteManagerNote)
	authed.POST("/manager_note_read.php", h.Note.MarkManagerNoteRead)

	authed.GET("/quotations.php", reporting, h.Quotation.List)
	authed.POST("/quotations.php", reporting, h.Quotation.Create)
	authed.DELETE("/quotations.php", modify, h.Quotation.Delete)
	authed.GET("/quotation_export.php", reporting, h.Quotation.Export)

	authed.GET("/reports.php", reporting, h.Report.Generate)
	authed.GET("/report_export.php", modify, h.Report.Export)

	authed.POST("/upload.php", h.Upload.Upload)
	authed.GET("/events.php", h.SSE.Stream)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// IDRequest DELETE body
type IDRequest struct {
	ID string `json:"id" form:"id"`
}

var errorLogger = zap.NewNop()

// Success writes data as is
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes data with 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Deleted acknowledges a delete
func Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Error writes the error envelope. The HTTP status is code/100.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
		Error:   message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// Unprocessable is a well-formed request that breaks a business rule.
func Unprocessable(c *gin.Context, message string) {
	Error(c, 42200, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// handleError maps service and repository errors onto the envelope codes.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		Conflict(c, err.Error())
	case errors.Is(err, entity.ErrInsufficientStock), errors.Is(err, service.ErrNoData):
		Unprocessable(c, err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, entity.ErrInvalidQuantity),
		errors.Is(err, entity.ErrInvalidTxType),
		errors.Is(err, entity.ErrInvalidDiscount),
		errors.Is(err, entity.ErrEmptyQuotation):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		Error(c, 50300, err.Error())
	default:
		errorLogger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		InternalError(c, "Internal server error")
	}
}

// actor builds the service caller from the JWT context.
func actor(c *gin.Context) service.Actor {
	return service.Actor{
		ID:       c.GetString(middleware.CtxUserID),
		Username: c.GetString(middleware.CtxUsername),
		FullName: c.GetString(middleware.CtxFullName),
		Role:     c.GetString(middleware.CtxRole),
	}
}

// bindID reads the id from a JSON body or the query string.
func bindID(c *gin.Context) (string, bool) {
	var req IDRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "Invalid request body: "+err.Error())
			return "", false
		}
	}
	if req.ID == "" {
		req.ID = c.Query("id")
	}
	if req.ID == "" {
		BadRequest(c, "id is required")
		return "", false
	}
	return req.ID, true
}
