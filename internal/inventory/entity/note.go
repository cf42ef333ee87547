package entity

import "time"

// Note field note written by staff at a site
type Note struct {
	ID                   string    `json:"id" gorm:"primaryKey;size:32"`
	EmployeeID           string    `json:"employeeId" gorm:"size:32;not null;index"`
	EmployeeName         string    `json:"employeeName" gorm:"size:128"`
	ConstructionSiteID   string    `json:"constructionSiteId" gorm:"size:32;not null;index"`
	ConstructionSiteName string    `json:"constructionSiteName" gorm:"size:128"`
	Title                string    `json:"title" gorm:"size:200;not null"`
	Content              string    `json:"content" gorm:"type:text;not null"`
	ImageURL             string    `json:"imageUrl,omitempty" gorm:"size:512"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (Note) TableName() string {
	return "notes"
}

// ManagerNote message from a manager to one employee
type ManagerNote struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:32"`
	Title              string    `json:"title" gorm:"size:200;not null"`
	Content            string    `json:"content" gorm:"type:text;not null"`
	TargetEmployeeID   string    `json:"targetEmployeeId" gorm:"size:32;not null;index"`
	TargetEmployeeName string    `json:"targetEmployeeName" gorm:"size:128"`
	CreatedBy          string    `json:"createdBy" gorm:"size:32;not null"`
	CreatedByName      string    `json:"createdByName" gorm:"size:128"`
	IsRead             bool      `json:"isRead" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (ManagerNote) TableName() string {
	return "manager_notes"
}
