package dashboard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
	"github.com/shopspring/decimal"
)

// ErrInvalidForm wraps every client-side validation failure.
var ErrInvalidForm = errors.New("invalid form")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("unit", func(fl validator.FieldLevel) bool {
		return entity.ValidUnit(fl.Field().String())
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entity.ValidRole(fl.Field().String())
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validateForm returns the first failing field as a readable message.
func validateForm(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return fmt.Errorf("%w: %s", ErrInvalidForm, fieldMessage(fieldErrs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "unit":
		return "unit must be one of: " + strings.Join(entity.Units, ", ")
	case "role":
		return "role must be one of: " + strings.Join(entity.Roles, ", ")
	case "datetime":
		return fe.Field() + " must be a YYYY-MM-DD date"
	case "url":
		return fe.Field() + " must be a URL"
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}

type CategoryForm struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

type SubcategoryForm struct {
	CategoryID  string `json:"categoryId" validate:"required"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

type MaterialForm struct {
	SubcategoryID string          `json:"subcategoryId" validate:"required"`
	Name          string          `json:"name" validate:"notblank"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit" validate:"required,unit"`
	CurrentStock  int             `json:"currentStock" validate:"gte=0"`
	MinStock      int             `json:"minStock" validate:"gte=0"`
	MaxStock      int             `json:"maxStock" validate:"gte=0"`
	UnitCost      decimal.Decimal `json:"unitCost"`
	Supplier      string          `json:"supplier"`
	Location      string          `json:"location"`
}

type SiteForm struct {
	Name     string `json:"name" validate:"notblank"`
	Location string `json:"location"`
	Address  string `json:"address"`
	IsActive *bool  `json:"isActive,omitempty"`
}

type UserForm struct {
	Username string `json:"username" validate:"notblank"`
	FullName string `json:"full_name" validate:"notblank"`
	Role     string `json:"role" validate:"required,role"`
	Password string `json:"password" validate:"required,min=4"`
}

type ToolForm struct {
	ToolBrand    string `json:"toolBrand" validate:"notblank"`
	SerialNumber string `json:"serialNumber" validate:"notblank"`
	Quantity     int    `json:"quantity" validate:"omitempty,gte=1"`
	EntryDate    string `json:"entryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExitDate     string `json:"exitDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type NoteForm struct {
	ConstructionSiteID string `json:"constructionSiteId" validate:"required"`
	Title              string `json:"title" validate:"notblank"`
	Content            string `json:"content" validate:"notblank"`
	ImageURL           string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// TransactionForm is the input of an open transaction modal.
// The construction site is checked separately since only check-out needs it.
type TransactionForm struct {
	Quantity         int    `json:"quantity" validate:"gt=0"`
	Reason           string `json:"reason" validate:"notblank"`
	ConstructionSite string `json:"constructionSite"`
}

// WithdrawForm is the last step of the QR wizard.
type WithdrawForm struct {
	Quantity         int    `json:"quantity" validate:"gte=1"`
	ConstructionSite string `json:"constructionSite" validate:"notblank"`
	Reason           string `json:"reason" validate:"notblank"`
}
