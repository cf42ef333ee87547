package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService builds transaction reports.
type ReportService struct {
	transactions *repository.TransactionRepository
}

func NewReportService(transactions *repository.TransactionRepository) *ReportService {
	return &ReportService{transactions: transactions}
}

// ReportQuery reports.php filters. Dates are YYYY-MM-DD and endDate covers the whole day.
type ReportQuery struct {
	StartDate        string `form:"startDate"`
	EndDate          string `form:"endDate"`
	ConstructionSite string `form:"constructionSite"`
	Employee         string `form:"employee"`
	MaterialID       string `form:"materialId"`
	Type             string `form:"type"`
}

// ReportLine is one transaction with its cost.
type ReportLine struct {
	repository.ReportRow
	LineCost decimal.Decimal `json:"lineCost"`
}

// Report is the reports.php body.
type Report struct {
	Rows          []ReportLine    `json:"rows"`
	Count         int             `json:"count"`
	TotalCheckIn  int             `json:"totalCheckIn"`
	TotalCheckOut int             `json:"totalCheckOut"`
	TotalCost     decimal.Decimal `json:"totalCost"`
}

// Filter converts the query into repository terms.
func (q ReportQuery) Filter() (repository.ReportFilter, error) {
	f := repository.ReportFilter{
		ConstructionSite: q.ConstructionSite,
		Employee:         q.Employee,
		MaterialID:       q.MaterialID,
		Type:             q.Type,
	}
	if q.Type != "" && q.Type != entity.TxTypeCheckIn && q.Type != entity.TxTypeCheckOut {
		return f, entity.ErrInvalidTxType
	}
	if q.StartDate != "" {
		d, err := time.ParseInLocation(dateLayout, q.StartDate, time.Local)
		if err != nil {
			return f, invalid("startDate must be YYYY-MM-DD")
		}
		f.StartDate = &d
	}
	if q.EndDate != "" {
		d, err := time.ParseInLocation(dateLayout, q.EndDate, time.Local)
		if err != nil {
			return f, invalid("endDate must be YYYY-MM-DD")
		}
		f.EndDate = &d
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return f, invalid("endDate cannot be before startDate")
	}
	return f, nil
}

func (s *ReportService) Generate(ctx context.Context, q ReportQuery) (*Report, error) {
	filter, err := q.Filter()
	if err != nil {
		return nil, err
	}
	rows, err := s.transactions.Report(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}
	return BuildReport(rows), nil
}

// BuildReport prices each row and totals the report.
func BuildReport(rows []repository.ReportRow) *Report {
	report := &Report{Rows: make([]ReportLine, 0, len(rows)), TotalCost: decimal.Zero}
	for _, row := range rows {
		line := ReportLine{
			ReportRow: row,
			LineCost:  row.UnitCost.Mul(decimal.NewFromInt(int64(row.Quantity))).Round(2),
		}
		report.Rows = append(report.Rows, line)
		report.TotalCost = report.TotalCost.Add(line.LineCost)
		switch row.Type {
		case entity.TxTypeCheckIn:
			report.TotalCheckIn += row.Quantity
		case entity.TxTypeCheckOut:
			report.TotalCheckOut += row.Quantity
		}
	}
	report.Count = len(report.Rows)
	return report
}

// Export fails with ErrNoData when nothing matches the filters.
func (s *ReportService) Export(ctx context.Context, q ReportQuery) (*excelize.File, string, error) {
	report, err := s.Generate(ctx, q)
	if err != nil {
		return nil, "", err
	}
	f, err := ReportWorkbook(report)
	if err != nil {
		return nil, "", err
	}
	return f, fmt.Sprintf("Report_%s.xlsx", time.Now().Format("20060102_150405")), nil
}

var reportHeaders = []string{"Date", "Material", "Type", "Quantity", "Unit Cost", "Line Cost", "Construction Site", "User", "Reason"}

// ReportWorkbook lays out the report rows with a total line.
func ReportWorkbook(report *Report) (*excelize.File, error) {
	if len(report.Rows) == 0 {
		return nil, ErrNoData
	}
	const sheet = "Report"
	f, err := newWorkbook(sheet, reportHeaders, []float64{20, 28, 10, 10, 12, 12, 22, 18, 30})
	if err != nil {
		return nil, err
	}
	for i, line := range report.Rows {
		setRow(f, sheet, i+2,
			line.Timestamp.Format("2006-01-02 15:04"),
			line.MaterialName,
			line.Type,
			line.Quantity,
			line.UnitCost.InexactFloat64(),
			line.LineCost.InexactFloat64(),
			line.ConstructionSite,
			line.User,
			line.Reason,
		)
	}
	total := len(report.Rows) + 2
	setRow(f, sheet, total, "Total", fmt.Sprintf("%d transactions", report.Count), "", "", "", report.TotalCost.InexactFloat64())
	boldRow(f, sheet, total, len(reportHeaders))
	return f, nil
}
