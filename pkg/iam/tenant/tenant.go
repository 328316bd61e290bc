package tenant

import (
	"net/http"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// ============================================================================
// Tenant Entity
// ============================================================================

// TenantStatus defines the lifecycle states of a cooperative.
type TenantStatus string

const (
	TenantStatusActive          TenantStatus = "ACTIVE"
	TenantStatusInactive        TenantStatus = "INACTIVE"
	TenantStatusSuspended       TenantStatus = "SUSPENDED"
	TenantStatusPendingApproval TenantStatus = "PENDING_APPROVAL"
)

// Tenant is a TKBM cooperative operating at one Indonesian port. All worker,
// job, equipment and billing records hang off a tenant.
type Tenant struct {
	ID           kernel.TenantID `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Code         string          `db:"code" json:"code"`
	City         string          `db:"city" json:"city"`
	Province     string          `db:"province" json:"province"`
	PortName     string          `db:"port_name" json:"port_name"`
	ContactEmail string          `db:"contact_email" json:"contact_email"`
	ContactPhone string          `db:"contact_phone" json:"contact_phone"`
	Status       TenantStatus    `db:"status" json:"status"`
	MemberCount  int             `db:"member_count" json:"member_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsActive reports whether the cooperative is operating.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Approve activates a cooperative awaiting registration approval.
func (t *Tenant) Approve() error {
	if t.Status != TenantStatusPendingApproval {
		return ErrInvalidStatus().WithDetail("current_status", string(t.Status))
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	return nil
}

// Suspend halts an active cooperative.
func (t *Tenant) Suspend() error {
	if t.Status != TenantStatusActive {
		return ErrInvalidStatus().WithDetail("current_status", string(t.Status))
	}
	t.Status = TenantStatusSuspended
	t.UpdatedAt = time.Now()
	return nil
}

// Reactivate restores a suspended or inactive cooperative.
func (t *Tenant) Reactivate() error {
	if t.Status != TenantStatusSuspended && t.Status != TenantStatusInactive {
		return ErrInvalidStatus().WithDetail("current_status", string(t.Status))
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = time.Now()
	return nil
}

// ============================================================================
// Query Descriptor
// ============================================================================

// QueryDescriptor wires tenants into the list query engine. Search covers
// name, code, city and province; the time window runs over the last update.
func QueryDescriptor() query.Descriptor[*Tenant] {
	return query.Descriptor[*Tenant]{
		SearchText: func(t *Tenant) []string {
			return []string{t.Name, t.Code, t.City, t.Province}
		},
		Status: func(t *Tenant) string {
			return string(t.Status)
		},
		Timestamp: func(t *Tenant) (time.Time, bool) {
			return t.UpdatedAt, !t.UpdatedAt.IsZero()
		},
		Province: func(t *Tenant) string {
			return t.Province
		},
	}
}

// ============================================================================
// DTOs
// ============================================================================

// TenantDetailsDTO is the cooperative view exposed to other modules.
type TenantDetailsDTO struct {
	ID          kernel.TenantID `json:"id"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	City        string          `json:"city"`
	Province    string          `json:"province"`
	PortName    string          `json:"port_name"`
	Status      TenantStatus    `json:"status"`
	MemberCount int             `json:"member_count"`
	IsActive    bool            `json:"is_active"`
}

// ToDTO converts the Tenant entity to TenantDetailsDTO.
func (t *Tenant) ToDTO() TenantDetailsDTO {
	return TenantDetailsDTO{
		ID:          t.ID,
		Name:        t.Name,
		Code:        t.Code,
		City:        t.City,
		Province:    t.Province,
		PortName:    t.PortName,
		Status:      t.Status,
		MemberCount: t.MemberCount,
		IsActive:    t.IsActive(),
	}
}

// CreateTenantRequest is the payload for registering a cooperative.
type CreateTenantRequest struct {
	Name         string `json:"name" validate:"required,min=3"`
	Code         string `json:"code" validate:"required,min=2"`
	City         string `json:"city" validate:"required"`
	Province     string `json:"province" validate:"required"`
	PortName     string `json:"port_name"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
}

// UpdateTenantRequest is the payload for editing a cooperative.
type UpdateTenantRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=3"`
	City         *string `json:"city,omitempty"`
	Province     *string `json:"province,omitempty"`
	PortName     *string `json:"port_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("TENANT")

var (
	CodeTenantNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Cooperative not found")
	CodeTenantAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Cooperative already exists")
	CodeTenantInactive      = ErrRegistry.Register("INACTIVE", errx.TypeBusiness, http.StatusForbidden, "Cooperative is not active")
	CodeInvalidStatus       = ErrRegistry.Register("INVALID_STATUS", errx.TypeBusiness, http.StatusConflict, "Invalid status transition")
	CodeUnknownProvince     = ErrRegistry.Register("UNKNOWN_PROVINCE", errx.TypeValidation, http.StatusBadRequest, "Unknown province")
)

func ErrTenantNotFound() *errx.Error {
	return ErrRegistry.New(CodeTenantNotFound)
}

func ErrTenantAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeTenantAlreadyExists)
}

func ErrTenantInactive() *errx.Error {
	return ErrRegistry.New(CodeTenantInactive)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrUnknownProvince() *errx.Error {
	return ErrRegistry.New(CodeUnknownProvince)
}
