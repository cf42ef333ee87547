package repository

import (
	"context"

	"github.com/lib/pq"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"gorm.io/gorm"
)

type ToolRepository struct {
	db *gorm.DB
}

func NewToolRepository(db *gorm.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

// List returns tools; assignedTo limits them to one holder.
func (r *ToolRepository) List(ctx context.Context, assignedTo string) ([]entity.Tool, error) {
	var tools []entity.Tool
	query := r.db.WithContext(ctx)
	if assignedTo != "" {
		query = query.Where("assigned_employee_id = ?", assignedTo)
	}
	err := query.Order("created_at DESC").Find(&tools).Error
	return tools, err
}

func (r *ToolRepository) FindByID(ctx context.Context, id string) (*entity.Tool, error) {
	var tool entity.Tool
	if err := r.db.WithContext(ctx).First(&tool, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &tool, nil
}

func (r *ToolRepository) Create(ctx context.Context, tool *entity.Tool) error {
	return translate(r.db.WithContext(ctx).Create(tool).Error)
}

// UpdateAssignment persists the holder columns, including clearing them.
func (r *ToolRepository) UpdateAssignment(ctx context.Context, tool *entity.Tool) error {
	return r.db.WithContext(ctx).
		Model(&entity.Tool{}).
		Where("id = ?", tool.ID).
		Updates(map[string]interface{}{
			"assigned_employee_id":   tool.AssignedEmployeeID,
			"assigned_employee_name": tool.AssignedEmployeeName,
		}).Error
}

// AppendFiles adds document and photo urls to the tool.
func (r *ToolRepository) AppendFiles(ctx context.Context, id string, documents, photos []string) error {
	updates := map[string]interface{}{}
	if len(documents) > 0 {
		updates["documents"] = gorm.Expr("array_cat(COALESCE(documents, '{}'), ?::text[])", pq.StringArray(documents))
	}
	if len(photos) > 0 {
		updates["photos"] = gorm.Expr("array_cat(COALESCE(photos, '{}'), ?::text[])", pq.StringArray(photos))
	}
	if len(updates) == 0 {
		return nil
	}
	return deleted(r.db.WithContext(ctx).Model(&entity.Tool{}).Where("id = ?", id).Updates(updates))
}

func (r *ToolRepository) Delete(ctx context.Context, id string) error {
	return deleted(r.db.WithContext(ctx).Delete(&entity.Tool{}, "id = ?", id))
}
