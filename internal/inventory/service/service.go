package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rajithaprasad/hardwareProject/internal/config"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/repository"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/sse"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrForbidden          = errors.New("permission denied")
	ErrValidation         = errors.New("invalid request")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrStorageUnavailable = errors.New("file storage is not configured")
	ErrNoData             = errors.New("No data to export")
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID       string
	Username string
	FullName string
	Role     string
}

// Can checks a role capability.
func (a Actor) Can(capability string) bool {
	return entity.CapabilitiesFor(a.Role).Allows(capability)
}

// IsEmployee reports whether the actor only sees their own records.
func (a Actor) IsEmployee() bool {
	return a.Role == entity.RoleEmployee
}

// DisplayName is the name recorded on rows the actor creates.
func (a Actor) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Username
}

// Services groups the inventory services
type Services struct {
	Auth        *AuthService
	User        *UserService
	Catalog     *CatalogService
	Stock       *StockService
	Site        *SiteService
	Note        *NoteService
	ManagerNote *ManagerNoteService
	Attendance  *AttendanceService
	Tool        *ToolService
	Quotation   *QuotationService
	Report      *ReportService
	Upload      *UploadService
}

// NewServices wires every service. rdb may be nil; stock idempotency then relies on the database alone.
func NewServices(repos *repository.Repositories, rdb *redis.Client, hub *sse.Hub, cfg *config.Config, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}

	var store ObjectStore
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio disabled", zap.Error(err))
		} else {
			store = minioClient
		}
	}

	return &Services{
		Auth:        NewAuthService(repos.User, cfg.JWT, cfg.Bootstrap, logger),
		User:        NewUserService(repos.User),
		Catalog:     NewCatalogService(repos.Category, repos.Subcategory, repos.Material),
		Stock:       NewStockService(repos, rdb, hub, logger),
		Site:        NewSiteService(repos.Site),
		Note:        NewNoteService(repos.Note, repos.Site),
		ManagerNote: NewManagerNoteService(repos.ManagerNote, repos.User, hub),
		Attendance:  NewAttendanceService(repos.Attendance, repos.Site, cfg.Alert.MaxShiftHours),
		Tool:        NewToolService(repos.Tool, repos.User),
		Quotation:   NewQuotationService(repos.Quotation, repos.Material),
		Report:      NewReportService(repos.Transaction),
		Upload:      NewUploadService(store, cfg.MinIO, logger),
	}
}

// newID returns a 32 character hex id.
func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%s not found: %w", what, repository.ErrNotFound)
}

// missing turns a repository miss into a named not-found error.
func missing(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(what)
	}
	return err
}

// duplicate maps a unique violation to a conflict naming the field.
func duplicate(err error, msg string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	}
	return err
}
