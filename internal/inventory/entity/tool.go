package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Tool equipment lent to employees
type Tool struct {
	ID                   string          `json:"id" gorm:"primaryKey;size:32"`
	ToolBrand            string          `json:"toolBrand" gorm:"size:128;not null"`
	SerialNumber         string          `json:"serialNumber" gorm:"size:128;not null;index"`
	Quantity             int             `json:"quantity" gorm:"not null;default:1"`
	EntryDate            datatypes.Date  `json:"entryDate" gorm:"not null"`
	ExitDate             *datatypes.Date `json:"exitDate,omitempty"`
	Documents            pq.StringArray  `json:"documents" gorm:"type:text[]"`
	Photos               pq.StringArray  `json:"photos" gorm:"type:text[]"`
	AssignedEmployeeID   *string         `json:"assignedEmployeeId,omitempty" gorm:"size:32;index"`
	AssignedEmployeeName string          `json:"assignedEmployeeName,omitempty" gorm:"size:128"`
	CreatedBy            string          `json:"createdBy" gorm:"size:64"`
	CreatedAt            time.Time       `json:"createdAt"`
}

func (Tool) TableName() string {
	return "tools"
}

// Assign hands the tool to an employee.
func (t *Tool) Assign(employeeID, employeeName string) {
	t.AssignedEmployeeID = &employeeID
	t.AssignedEmployeeName = employeeName
}

// Unassign returns the tool to the store.
func (t *Tool) Unassign() {
	t.AssignedEmployeeID = nil
	t.AssignedEmployeeName = ""
}

// IsAssignedTo reports whether employeeID currently holds the tool.
func (t *Tool) IsAssignedTo(employeeID string) bool {
	return t.AssignedEmployeeID != nil && *t.AssignedEmployeeID == employeeID
}
