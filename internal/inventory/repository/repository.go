package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

const uniqueViolation = "23505"

// Repositories groups every repository over one connection
type Repositories struct {
	db          *gorm.DB
	User        *UserRepository
	Category    *CategoryRepository
	Subcategory *SubcategoryRepository
	Material    *MaterialRepository
	Transaction *TransactionRepository
	Site        *SiteRepository
	Note        *NoteRepository
	ManagerNote *ManagerNoteRepository
	Attendance  *AttendanceRepository
	Tool        *ToolRepository
	Quotation   *QuotationRepository
}

// NewRepositories wires all repositories to db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		User:        NewUserRepository(db),
		Category:    NewCategoryRepository(db),
		Subcategory: NewSubcategoryRepository(db),
		Material:    NewMaterialRepository(db),
		Transaction: NewTransactionRepository(db),
		Site:        NewSiteRepository(db),
		Note:        NewNoteRepository(db),
		ManagerNote: NewManagerNoteRepository(db),
		Attendance:  NewAttendanceRepository(db),
		Tool:        NewToolRepository(db),
		Quotation:   NewQuotationRepository(db),
	}
}

// DB exposes the handle services open transactions on.
func (r *Repositories) DB() *gorm.DB {
	return r.db
}

// Models lists every table for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&entity.User{},
		&entity.Category{},
		&entity.Subcategory{},
		&entity.Material{},
		&entity.Transaction{},
		&entity.ConstructionSite{},
		&entity.Note{},
		&entity.ManagerNote{},
		&entity.AttendanceRecord{},
		&entity.Tool{},
		&entity.Quotation{},
	}
}

// IsUniqueViolation reports a postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case IsUniqueViolation(err), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func deleted(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
