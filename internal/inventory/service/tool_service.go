package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// ToolService tracks tools and who holds them.
type ToolService struct {
	tools *repository.ToolRepository
	users *repository.UserRepository
	now   func() time.Time
}

func NewToolService(tools *repository.ToolRepository, users *repository.UserRepository) *ToolService {
	return &ToolService{tools: tools, users: users, now: time.Now}
}

// CreateToolRequest dates are YYYY-MM-DD; entryDate defaults to today.
type CreateToolRequest struct {
	ToolBrand    string   `json:"toolBrand" binding:"required"`
	SerialNumber string   `json:"serialNumber" binding:"required"`
	Quantity     int      `json:"quantity" binding:"gte=0"`
	EntryDate    string   `json:"entryDate"`
	ExitDate     string   `json:"exitDate"`
	Documents    []string `json:"documents"`
	Photos       []string `json:"photos"`
}

type AssignToolRequest struct {
	ToolID     string `json:"toolId" binding:"required"`
	EmployeeID string `json:"employeeId" binding:"required"`
}

// List shows employees only the tools they hold.
func (s *ToolService) List(ctx context.Context, actor Actor, assignedTo string) ([]entity.Tool, error) {
	if actor.IsEmployee() {
		assignedTo = actor.ID
	}
	return s.tools.List(ctx, assignedTo)
}

func (s *ToolService) Create(ctx context.Context, req CreateToolRequest, actor Actor) (*entity.Tool, error) {
	brand := strings.TrimSpace(req.ToolBrand)
	serial := strings.TrimSpace(req.SerialNumber)
	if brand == "" || serial == "" {
		return nil, invalid("toolBrand and serialNumber are required")
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	entry := s.now()
	if req.EntryDate != "" {
		d, err := time.Parse(dateLayout, req.EntryDate)
		if err != nil {
			return nil, invalid("entryDate must be YYYY-MM-DD")
		}
		entry = d
	}
	tool := &entity.Tool{
		ID:           newID(),
		ToolBrand:    brand,
		SerialNumber: serial,
		Quantity:     quantity,
		EntryDate:    datatypes.Date(entry),
		Documents:    pq.StringArray(nonEmpty(req.Documents)),
		Photos:       pq.StringArray(nonEmpty(req.Photos)),
		CreatedBy:    actor.Username,
		CreatedAt:    s.now(),
	}
	if req.ExitDate != "" {
		d, err := time.Parse(dateLayout, req.ExitDate)
		if err != nil {
			return nil, invalid("exitDate must be YYYY-MM-DD")
		}
		ey, em, ed := entry.Date()
		if d.Before(time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)) {
			return nil, invalid("exitDate cannot be before entryDate")
		}
		exit := datatypes.Date(d)
		tool.ExitDate = &exit
	}

	if err := s.tools.Create(ctx, tool); err != nil {
		return nil, fmt.Errorf("create tool: %w", err)
	}
	return tool, nil
}

// Assign hands a tool to an employee account.
func (s *ToolService) Assign(ctx context.Context, req AssignToolRequest) (*entity.Tool, error) {
	tool, err := s.tools.FindByID(ctx, req.ToolID)
	if err != nil {
		return nil, missing(err, "Tool")
	}
	employee, err := s.users.FindByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, missing(err, "Employee")
	}
	if employee.Role != entity.RoleEmployee {
		return nil, invalid("tools can only be assigned to employees")
	}
	tool.Assign(employee.ID, employee.FullName)
	if err := s.tools.UpdateAssignment(ctx, tool); err != nil {
		return nil, fmt.Errorf("assign tool: %w", err)
	}
	return tool, nil
}

func (s *ToolService) Unassign(ctx context.Context, toolID string) (*entity.Tool, error) {
	tool, err := s.tools.FindByID(ctx, toolID)
	if err != nil {
		return nil, missing(err, "Tool")
	}
	tool.Unassign()
	if err := s.tools.UpdateAssignment(ctx, tool); err != nil {
		return nil, fmt.Errorf("unassign tool: %w", err)
	}
	return tool, nil
}

// AttachFiles appends uploaded document and photo urls.
func (s *ToolService) AttachFiles(ctx context.Context, toolID string, documents, photos []string) error {
	return missing(s.tools.AppendFiles(ctx, toolID, nonEmpty(documents), nonEmpty(photos)), "Tool")
}

func (s *ToolService) Delete(ctx context.Context, id string) error {
	return missing(s.tools.Delete(ctx, id), "Tool")
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
