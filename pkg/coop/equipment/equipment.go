package equipment

import (
	"net/http"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// ============================================================================
// Heavy Equipment Entity
// ============================================================================

// EquipmentStatus tracks the operational state of a unit.
type EquipmentStatus string

const (
	StatusAvailable    EquipmentStatus = "AVAILABLE"
	StatusInUse        EquipmentStatus = "IN_USE"
	StatusMaintenance  EquipmentStatus = "MAINTENANCE"
	StatusOutOfService EquipmentStatus = "OUT_OF_SERVICE"
)

var validStatuses = map[EquipmentStatus]bool{
	StatusAvailable:    true,
	StatusInUse:        true,
	StatusMaintenance:  true,
	StatusOutOfService: true,
}

// ValidStatus reports whether s is a known equipment status.
func ValidStatus(s EquipmentStatus) bool {
	return validStatuses[s]
}

// HeavyEquipmentUnit is a crane, forklift or other heavy unit owned by one
// cooperative. FirstImageUploadedAt stays nil until a photo of the unit has
// been registered, so the list time window cannot place such units in any
// bounded period.
type HeavyEquipmentUnit struct {
	ID                   kernel.EquipmentID `db:"id" json:"id"`
	TenantID             kernel.TenantID    `db:"tenant_id" json:"tenant_id"`
	Category             string             `db:"category" json:"category"`
	Name                 string             `db:"name" json:"name"`
	InventoryNumber      string             `db:"inventory_number" json:"inventory_number"`
	Brand                string             `db:"brand" json:"brand"`
	Model                string             `db:"model" json:"model"`
	Capacity             string             `db:"capacity" json:"capacity"`
	Status               EquipmentStatus    `db:"status" json:"status"`
	IsActive             bool               `db:"is_active" json:"is_active"`
	FirstImageUploadedAt *time.Time         `db:"first_image_uploaded_at" json:"first_image_uploaded_at,omitempty"`
	Province             string             `db:"province" json:"province"`
	CreatedAt            time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `db:"updated_at" json:"updated_at"`
}

// ChangeStatus moves the unit to a new operational status.
func (h *HeavyEquipmentUnit) ChangeStatus(to EquipmentStatus) error {
	if !ValidStatus(to) {
		return ErrInvalidStatus().WithDetail("status", string(to))
	}
	h.Status = to
	h.UpdatedAt = time.Now()
	return nil
}

// RecordFirstImage stamps the upload time of the unit's first photo. Later
// uploads never move the stamp.
func (h *HeavyEquipmentUnit) RecordFirstImage(at time.Time) {
	if h.FirstImageUploadedAt != nil {
		return
	}
	h.FirstImageUploadedAt = &at
	h.UpdatedAt = time.Now()
}

// Deactivate retires the unit from the fleet.
func (h *HeavyEquipmentUnit) Deactivate() {
	h.IsActive = false
	h.UpdatedAt = time.Now()
}

// Reactivate returns a retired unit to the fleet.
func (h *HeavyEquipmentUnit) Reactivate() {
	h.IsActive = true
	h.UpdatedAt = time.Now()
}

// ============================================================================
// Query Descriptor
// ============================================================================

// QueryDescriptor wires equipment units into the list query engine. Units
// without a registered photo report an unknown timestamp and only surface
// in the unbounded period.
func QueryDescriptor() query.Descriptor[*HeavyEquipmentUnit] {
	return query.Descriptor[*HeavyEquipmentUnit]{
		SearchText: func(h *HeavyEquipmentUnit) []string {
			return []string{h.Name, h.InventoryNumber, h.Brand, h.Model}
		},
		Status: func(h *HeavyEquipmentUnit) string {
			return string(h.Status)
		},
		Timestamp: func(h *HeavyEquipmentUnit) (time.Time, bool) {
			if h.FirstImageUploadedAt == nil {
				return time.Time{}, false
			}
			return *h.FirstImageUploadedAt, true
		},
		Province: func(h *HeavyEquipmentUnit) string {
			return h.Province
		},
	}
}

// ============================================================================
// DTOs
// ============================================================================

// CreateEquipmentRequest is the payload for registering a unit.
type CreateEquipmentRequest struct {
	Category        string `json:"category" validate:"required"`
	Name            string `json:"name" validate:"required,min=2"`
	InventoryNumber string `json:"inventory_number" validate:"required"`
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	Capacity        string `json:"capacity"`
}

// UpdateEquipmentRequest is the payload for editing a unit.
type UpdateEquipmentRequest struct {
	Category *string `json:"category,omitempty"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Brand    *string `json:"brand,omitempty"`
	Model    *string `json:"model,omitempty"`
	Capacity *string `json:"capacity,omitempty"`
}

// ChangeStatusRequest is the payload for moving a unit between statuses.
type ChangeStatusRequest struct {
	Status EquipmentStatus `json:"status" validate:"required"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("EQUIPMENT")

var (
	CodeEquipmentNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Equipment unit not found")
	CodeEquipmentAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Inventory number already registered")
	CodeInvalidStatus          = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Unknown equipment status")
)

func ErrEquipmentNotFound() *errx.Error {
	return ErrRegistry.New(CodeEquipmentNotFound)
}

func ErrEquipmentAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeEquipmentAlreadyExists)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}
