package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

// QuotationService prices materials for clients.
type QuotationService struct {
	quotations *repository.QuotationRepository
	materials  *repository.MaterialRepository
	now        func() time.Time
}

func NewQuotationService(quotations *repository.QuotationRepository, materials *repository.MaterialRepository) *QuotationService {
	return &QuotationService{quotations: quotations, materials: materials, now: time.Now}
}

type QuotationItemRequest struct {
	MaterialID string          `json:"materialId" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,gt=0"`
	Discount   decimal.Decimal `json:"discount"`
}

// CreateQuotationRequest date is YYYY-MM-DD and defaults to today.
type CreateQuotationRequest struct {
	ClientName string                 `json:"clientName" binding:"required"`
	Date       string                 `json:"date"`
	Items      []QuotationItemRequest `json:"items" binding:"required,dive"`
}

func (s *QuotationService) List(ctx context.Context) ([]entity.Quotation, error) {
	return s.quotations.List(ctx)
}

func (s *QuotationService) Get(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := s.quotations.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "Quotation")
	}
	return q, nil
}

// Create prices each item at the material's current unit cost.
func (s *QuotationService) Create(ctx context.Context, req CreateQuotationRequest, actor Actor) (*entity.Quotation, error) {
	client := strings.TrimSpace(req.ClientName)
	if client == "" {
		return nil, invalid("client name is required")
	}
	if len(req.Items) == 0 {
		return nil, entity.ErrEmptyQuotation
	}

	date := s.now()
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return nil, invalid("date must be YYYY-MM-DD")
		}
		date = d
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.MaterialID)
	}
	materials, err := s.materials.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load materials: %w", err)
	}

	items := make([]entity.QuotationItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		m, ok := materials[reqItem.MaterialID]
		if !ok {
			return nil, notFound("Material " + reqItem.MaterialID)
		}
		item, err := entity.NewQuotationItem(&m, reqItem.Quantity, reqItem.Discount)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Name, err)
		}
		items = append(items, item)
	}

	q := &entity.Quotation{
		ID:         newID(),
		ClientName: client,
		Date:       datatypes.Date(date),
		Items:      datatypes.JSONSlice[entity.QuotationItem](items),
		CreatedBy:  actor.Username,
		CreatedAt:  s.now(),
	}
	q.Recalculate()
	if err := s.quotations.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	return q, nil
}

func (s *QuotationService) Delete(ctx context.Context, id string) error {
	return missing(s.quotations.Delete(ctx, id), "Quotation")
}

// Export renders a stored quotation as a workbook.
func (s *QuotationService) Export(ctx context.Context, id string) (*excelize.File, string, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	f, err := QuotationWorkbook(q)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("Quotation_%s_%s.xlsx", sanitizeFilename(q.ClientName), time.Time(q.Date).Format(dateLayout))
	return f, filename, nil
}

var quotationHeaders = []string{"#", "Material", "Unit", "Quantity", "Unit Price", "Total", "Discount %", "After Discount"}

// QuotationWorkbook lays out the items followed by the totals.
func QuotationWorkbook(q *entity.Quotation) (*excelize.File, error) {
	const sheet = "Quotation"
	f, err := newWorkbook(sheet, quotationHeaders, []float64{5, 30, 12, 10, 12, 14, 12, 16})
	if err != nil {
		return nil, err
	}
	for i, item := range q.Items {
		setRow(f, sheet, i+2,
			i+1,
			item.MaterialName,
			item.Unit,
			item.Quantity,
			item.UnitPrice.InexactFloat64(),
			item.TotalPrice.InexactFloat64(),
			item.Discount.InexactFloat64(),
			item.PriceAfterDiscount.InexactFloat64(),
		)
	}

	row := len(q.Items) + 3
	setRow(f, sheet, row, "", "Client", q.ClientName)
	setRow(f, sheet, row+1, "", "Date", time.Time(q.Date).Format(dateLayout))
	setRow(f, sheet, row+2, "", "Subtotal", "", "", "", q.Subtotal.InexactFloat64())
	setRow(f, sheet, row+3, "", "Total discount", "", "", "", q.TotalDiscount.InexactFloat64())
	setRow(f, sheet, row+4, "", "Grand total", "", "", "", "", "", q.GrandTotal.InexactFloat64())
	boldRow(f, sheet, row+4, len(quotationHeaders))
	return f, nil
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
