package pbm

import (
	"net/http"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// ============================================================================
// PBM Entity
// ============================================================================

// Status values exposed to the list filter.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// PBM is a stevedoring company (Perusahaan Bongkar Muat) contracting workers
// from one cooperative.
type PBM struct {
	ID            kernel.PBMID    `db:"id" json:"id"`
	TenantID      kernel.TenantID `db:"tenant_id" json:"tenant_id"`
	Name          string          `db:"name" json:"name"`
	CompanyCode   string          `db:"company_code" json:"company_code"`
	ContactPerson string          `db:"contact_person" json:"contact_person"`
	Phone         string          `db:"phone" json:"phone"`
	Email         string          `db:"email" json:"email"`
	Address       string          `db:"address" json:"address"`
	IsActive      bool            `db:"is_active" json:"is_active"`
	Province      string          `db:"province" json:"province"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// StatusLabel projects the active flag onto the categorical filter domain.
func (p *PBM) StatusLabel() string {
	if p.IsActive {
		return StatusActive
	}
	return StatusInactive
}

// Deactivate ends the partnership.
func (p *PBM) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// Reactivate restores a partnership.
func (p *PBM) Reactivate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
}

// ============================================================================
// Query Descriptor
// ============================================================================

// QueryDescriptor wires PBM partners into the list query engine. The time
// window runs over the registration date.
func QueryDescriptor() query.Descriptor[*PBM] {
	return query.Descriptor[*PBM]{
		SearchText: func(p *PBM) []string {
			return []string{p.Name, p.CompanyCode, p.ContactPerson}
		},
		Status: func(p *PBM) string {
			return p.StatusLabel()
		},
		Timestamp: func(p *PBM) (time.Time, bool) {
			return p.CreatedAt, !p.CreatedAt.IsZero()
		},
		Province: func(p *PBM) string {
			return p.Province
		},
	}
}

// ============================================================================
// DTOs
// ============================================================================

// CreatePBMRequest is the payload for registering a PBM partner.
type CreatePBMRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	CompanyCode   string `json:"company_code" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address"`
}

// UpdatePBMRequest is the payload for editing a PBM partner.
type UpdatePBMRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Address       *string `json:"address,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("PBM")

var (
	CodePBMNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "PBM partner not found")
	CodePBMAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "PBM partner already registered")
	CodePBMInactive      = ErrRegistry.Register("INACTIVE", errx.TypeBusiness, http.StatusConflict, "PBM partner is inactive")
)

func ErrPBMNotFound() *errx.Error {
	return ErrRegistry.New(CodePBMNotFound)
}

func ErrPBMAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodePBMAlreadyExists)
}

func ErrPBMInactive() *errx.Error {
	return ErrRegistry.New(CodePBMInactive)
}
