package equipmentsrv

import (
	"context"
	"strings"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/equipment"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// EquipmentService coordinates the heavy equipment fleet of a cooperative.
type EquipmentService struct {
	equipmentRepo equipment.EquipmentRepository
	engine        *query.Engine[*equipment.HeavyEquipmentUnit]
}

// NewEquipmentService creates a new equipment service instance.
func NewEquipmentService(equipmentRepo equipment.EquipmentRepository) *EquipmentService {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		engine:        query.NewEngine(equipment.QueryDescriptor()),
	}
}

// ListEquipment filters, sorts and aggregates the caller's visible units.
func (s *EquipmentService) ListEquipment(ctx context.Context, auth *kernel.AuthContext, c query.Criteria) (query.Result[*equipment.HeavyEquipmentUnit], error) {
	var (
		units []*equipment.HeavyEquipmentUnit
		err   error
	)

	if auth.TenantID.IsEmpty() {
		units, err = s.equipmentRepo.FindAll(ctx)
	} else {
		units, err = s.equipmentRepo.FindByTenant(ctx, auth.TenantID)
		c = c.WithoutRegion()
	}
	if err != nil {
		return query.Result[*equipment.HeavyEquipmentUnit]{}, err
	}

	return s.engine.Run(units, c), nil
}

// GetEquipment fetches one unit, enforcing tenant boundaries.
func (s *EquipmentService) GetEquipment(ctx context.Context, auth *kernel.AuthContext, id kernel.EquipmentID) (*equipment.HeavyEquipmentUnit, error) {
	unit, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardTenant(auth, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// CreateEquipment registers a unit for the caller's cooperative.
func (s *EquipmentService) CreateEquipment(ctx context.Context, auth *kernel.AuthContext, req equipment.CreateEquipmentRequest) (*equipment.HeavyEquipmentUnit, error) {
	if auth.TenantID.IsEmpty() {
		return nil, iam.ErrForbidden().WithDetail("reason", "equipment is registered by its own cooperative")
	}

	inventoryNumber := strings.ToUpper(strings.TrimSpace(req.InventoryNumber))
	taken, err := s.equipmentRepo.ExistsByInventoryNumber(ctx, auth.TenantID, inventoryNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, equipment.ErrEquipmentAlreadyExists().WithDetail("inventory_number", inventoryNumber)
	}

	now := time.Now()
	unit := equipment.HeavyEquipmentUnit{
		ID:              kernel.NewEquipmentID(),
		TenantID:        auth.TenantID,
		Category:        req.Category,
		Name:            req.Name,
		InventoryNumber: inventoryNumber,
		Brand:           req.Brand,
		Model:           req.Model,
		Capacity:        req.Capacity,
		Status:          equipment.StatusAvailable,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.equipmentRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"equipment_id":     unit.ID.String(),
		"tenant_id":        unit.TenantID.String(),
		"inventory_number": unit.InventoryNumber,
	}).Info("equipment unit registered")

	return &unit, nil
}

// UpdateEquipment edits a unit's mutable fields.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, auth *kernel.AuthContext, id kernel.EquipmentID, req equipment.UpdateEquipmentRequest) (*equipment.HeavyEquipmentUnit, error) {
	unit, err := s.GetEquipment(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if req.Category != nil {
		unit.Category = *req.Category
	}
	if req.Name != nil {
		unit.Name = *req.Name
	}
	if req.Brand != nil {
		unit.Brand = *req.Brand
	}
	if req.Model != nil {
		unit.Model = *req.Model
	}
	if req.Capacity != nil {
		unit.Capacity = *req.Capacity
	}
	unit.UpdatedAt = time.Now()

	if err := s.equipmentRepo.Save(ctx, *unit); err != nil {
		return nil, err
	}

	return unit, nil
}

// ChangeEquipmentStatus moves a unit between operational statuses.
func (s *EquipmentService) ChangeEquipmentStatus(ctx context.Context, auth *kernel.AuthContext, id kernel.EquipmentID, to equipment.EquipmentStatus) (*equipment.HeavyEquipmentUnit, error) {
	unit, err := s.GetEquipment(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if err := unit.ChangeStatus(to); err != nil {
		return nil, err
	}

	if err := s.equipmentRepo.Save(ctx, *unit); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"equipment_id": unit.ID.String(),
		"status":       string(unit.Status),
	}).Info("equipment status changed")

	return unit, nil
}

// RecordFirstImage stamps a unit's first photo upload time. The stamp is
// idempotent.
func (s *EquipmentService) RecordFirstImage(ctx context.Context, auth *kernel.AuthContext, id kernel.EquipmentID) (*equipment.HeavyEquipmentUnit, error) {
	unit, err := s.GetEquipment(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	unit.RecordFirstImage(time.Now())

	if err := s.equipmentRepo.Save(ctx, *unit); err != nil {
		return nil, err
	}

	return unit, nil
}

// DeactivateEquipment retires a unit without deleting its history.
func (s *EquipmentService) DeactivateEquipment(ctx context.Context, auth *kernel.AuthContext, id kernel.EquipmentID) error {
	unit, err := s.GetEquipment(ctx, auth, id)
	if err != nil {
		return err
	}

	unit.Deactivate()
	return s.equipmentRepo.Save(ctx, *unit)
}

func (s *EquipmentService) guardTenant(auth *kernel.AuthContext, unit *equipment.HeavyEquipmentUnit) error {
	if auth.TenantID.IsEmpty() {
		return nil
	}
	if unit.TenantID != auth.TenantID {
		return iam.ErrForbidden().WithDetail("reason", "equipment belongs to another cooperative")
	}
	return nil
}
