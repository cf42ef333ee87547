package entity

import "time"

// ConstructionSite a place materials are withdrawn for
type ConstructionSite struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Location  string    `json:"location" gorm:"size:255"`
	Address   string    `json:"address" gorm:"size:255"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedBy string    `json:"createdBy" gorm:"size:64"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ConstructionSite) TableName() string {
	return "construction_sites"
}

// Normalize keeps location and address in sync; location wins when both are set.
func (s *ConstructionSite) Normalize() {
	if s.Location == "" {
		s.Location = s.Address
	}
	if s.Address == "" {
		s.Address = s.Location
	}
}
