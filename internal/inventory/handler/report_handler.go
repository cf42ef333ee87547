package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/service"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// QuotationHandler serves quotations.php and its export.
type QuotationHandler struct {
	svc *service.QuotationService
}

func NewQuotationHandler(svc *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{svc: svc}
}

// List GET /quotations.php, or one quotation with ?id=
func (h *QuotationHandler) List(c *gin.Context) {
	if id := c.Query("id"); id != "" {
		q, err := h.svc.Get(c.Request.Context(), id)
		if err != nil {
			handleError(c, err)
			return
		}
		Success(c, q)
		return
	}
	quotations, err := h.svc.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if quotations == nil {
		quotations = []entity.Quotation{}
	}
	Success(c, quotations)
}

func (h *QuotationHandler) Create(c *gin.Context) {
	var req service.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	q, err := h.svc.Create(c.Request.Context(), req, actor(c))
	if err != nil {
		handleError(c, err)
		return
	}
	Created(c, q)
}

func (h *QuotationHandler) Delete(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	Deleted(c)
}

// Export GET /quotation_export.php?id=
func (h *QuotationHandler) Export(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		BadRequest(c, "id is required")
		return
	}
	f, filename, err := h.svc.Export(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	writeWorkbook(c, f, filename)
}

// ReportHandler serves reports.php and its export.
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Generate GET /reports.php?startDate=&endDate=&constructionSite=&employee=&materialId=&type=
func (h *ReportHandler) Generate(c *gin.Context) {
	var q service.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		BadRequest(c, "Invalid query: "+err.Error())
		return
	}
	report, err := h.svc.Generate(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	Success(c, report)
}

// Export GET /report_export.php with the reports.php filters
func (h *ReportHandler) Export(c *gin.Context) {
	var q service.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		BadRequest(c, "Invalid query: "+err.Error())
		return
	}
	f, filename, err := h.svc.Export(c.Request.Context(), q)
	if err != nil {
		handleError(c, err)
		return
	}
	writeWorkbook(c, f, filename)
}

func writeWorkbook(c *gin.Context, f *excelize.File, filename string) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		handleError(c, fmt.Errorf("write workbook: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(200, xlsxContentType, buf.Bytes())
}
