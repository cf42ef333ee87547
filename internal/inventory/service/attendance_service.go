package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"gorm.io/datatypes"
)

// AttendanceService clocks employees in and out of sites.
type AttendanceService struct {
	records       *repository.AttendanceRepository
	sites         *repository.SiteRepository
	maxShiftHours float64
	now           func() time.Time
}

func NewAttendanceService(records *repository.AttendanceRepository, sites *repository.SiteRepository, maxShiftHours float64) *AttendanceService {
	return &AttendanceService{records: records, sites: sites, maxShiftHours: maxShiftHours, now: time.Now}
}

type StartWorkRequest struct {
	ConstructionSiteID string `json:"constructionSiteId" binding:"required"`
}

// List shows employees their own records; other roles see all, or one employee's.
func (s *AttendanceService) List(ctx context.Context, actor Actor, employeeID string) ([]entity.AttendanceRecord, error) {
	if actor.IsEmployee() {
		employeeID = actor.ID
	}
	return s.records.List(ctx, employeeID)
}

// Start opens a shift. An employee can have only one shift in progress.
func (s *AttendanceService) Start(ctx context.Context, req StartWorkRequest, actor Actor) (*entity.AttendanceRecord, error) {
	if _, err := s.records.FindOpen(ctx, actor.ID); err == nil {
		return nil, fmt.Errorf("%w: you already have a shift in progress", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find open shift: %w", err)
	}
	site, err := s.sites.FindByID(ctx, req.ConstructionSiteID)
	if err != nil {
		return nil, missing(err, "Construction site")
	}

	now := s.now()
	record := &entity.AttendanceRecord{
		ID:                   newID(),
		EmployeeID:           actor.ID,
		EmployeeName:         actor.DisplayName(),
		ConstructionSiteID:   site.ID,
		ConstructionSiteName: site.Name,
		Date:                 datatypes.Date(now),
		StartTime:            &now,
		Status:               entity.AttendanceInProgress,
		CreatedAt:            now,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create attendance: %w", err)
	}
	return record, nil
}

// End closes the actor's open shift and records the hours worked.
func (s *AttendanceService) End(ctx context.Context, actor Actor) (*entity.AttendanceRecord, error) {
	record, err := s.records.FindOpen(ctx, actor.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid("no shift in progress")
	}
	if err != nil {
		return nil, fmt.Errorf("find open shift: %w", err)
	}
	record.Close(s.now(), 0)
	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("close attendance: %w", err)
	}
	return record, nil
}

// Summary totals hours for the same set of records List would return.
func (s *AttendanceService) Summary(ctx context.Context, actor Actor, employeeID string) (entity.AttendanceSummary, error) {
	records, err := s.List(ctx, actor, employeeID)
	if err != nil {
		return entity.AttendanceSummary{}, err
	}
	return entity.Summarize(records, s.now()), nil
}

// CloseStale ends shifts left open longer than the configured maximum.
func (s *AttendanceService) CloseStale(ctx context.Context) (int, error) {
	if s.maxShiftHours <= 0 {
		return 0, nil
	}
	now := s.now()
	cutoff := now.Add(-time.Duration(s.maxShiftHours * float64(time.Hour)))
	stale, err := s.records.ListStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale shifts: %w", err)
	}
	closed := 0
	for i := range stale {
		stale[i].Close(now, s.maxShiftHours)
		if err := s.records.Update(ctx, &stale[i]); err != nil {
			return closed, fmt.Errorf("close shift %s: %w", stale[i].ID, err)
		}
		closed++
	}
	return closed, nil
}
