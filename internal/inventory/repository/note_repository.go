package repository

import (
	"context"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// List returns notes newest first; employeeID limits them to one author.
func (r *NoteRepository) List(ctx context.Context, employeeID string) ([]entity.Note, error) {
	var notes []entity.Note
	query := r.db.WithContext(ctx)
	if employeeID != "" {
		query = query.Where("employee_id = ?", employeeID)
	}
	err := query.Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*entity.Note, error) {
	var note entity.Note
	if err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &note, nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	return translate(r.db.WithContext(ctx).Create(note).Error)
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Delete(&entity.Note{}, "id = ?", id))
}

type ManagerNoteRepository struct {
	db *gorm.DB
}

func NewManagerNoteRepository(db *gorm.DB) *ManagerNoteRepository {
	return &ManagerNoteRepository{db: db}
}

// List returns manager notes newest first; targetID limits them to one recipient.
func (r *ManagerNoteRepository) List(ctx context.Context, targetID string) ([]entity.ManagerNote, error) {
	var notes []entity.ManagerNote
	query := r.db.WithContext(ctx)
	if targetID != "" {
		query = query.Where("target_employee_id = ?", targetID)
	}
	err := query.Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func (r *ManagerNoteRepository) FindByID(ctx context.Context, id string) (*entity.ManagerNote, error) {
	var note entity.ManagerNote
	if err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &note, nil
}

func (r *ManagerNoteRepository) Create(ctx context.Context, note *entity.ManagerNote) error {
	return translate(r.db.WithContext(ctx).Create(note).Error)
}

func (r *ManagerNoteRepository) MarkRead(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).
		Model(&entity.ManagerNote{}).
		Where("id = ?", id).
		Update("is_read", true))
}

func (r *ManagerNoteRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Delete(&entity.ManagerNote{}, "id = ?", id))
}
