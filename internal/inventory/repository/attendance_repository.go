package repository

import (
	"context"
	"time"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"gorm.io/gorm"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns records newest first; employeeID limits them to one employee.
func (r *AttendanceRepository) List(ctx context.Context, employeeID string) ([]entity.AttendanceRecord, error) {
	var records []entity.AttendanceRecord
	query := r.db.WithContext(ctx)
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}
	err := query.Order("date DESC, start_time DESC").Find(&records).Error
	return records, err
}

// FindOpen returns the employee's in-progress shift.
func (r *AttendanceRepository) FindOpen(ctx context.Context, employeeID string) (*entity.AttendanceRecord, error) {
	var record entity.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, entity.AttendanceInProgress).
		Order("start_time DESC").
		First(&record).Error
	if err != nil {
		return nil, translate(err)
	}
	return &record, nil
}

// ListStale returns in-progress shifts started before the cutoff.
func (r *AttendanceRepository) ListStale(ctx context.Context, startedBefore time.Time) ([]entity.AttendanceRecord, error) {
	var records []entity.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time < ?", entity.AttendanceInProgress, startedBefore).
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) Create(ctx context.Context, record *entity.AttendanceRecord) error {
	return translate(r.db.WithContext(ctx).Create(record).Error)
}

func (r *AttendanceRepository) Update(ctx context.Context, record *entity.AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}
