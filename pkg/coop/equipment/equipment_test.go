package equipment

import (
	"testing"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnit() *HeavyEquipmentUnit {
	now := time.Now()
	return &HeavyEquipmentUnit{
		ID:              kernel.NewEquipmentID(),
		TenantID:        kernel.NewTenantID(),
		Category:        "Crane",
		Name:            "Harbour Mobile Crane 01",
		InventoryNumber: "HMC-001",
		Brand:           "Liebherr",
		Model:           "LHM 550",
		Capacity:        "144 ton",
		Status:          StatusAvailable,
		IsActive:        true,
		Province:        "DKI Jakarta",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestChangeStatus(t *testing.T) {
	unit := newUnit()

	require.NoError(t, unit.ChangeStatus(StatusInUse))
	assert.Equal(t, StatusInUse, unit.Status)

	require.NoError(t, unit.ChangeStatus(StatusMaintenance))
	require.NoError(t, unit.ChangeStatus(StatusOutOfService))
	require.NoError(t, unit.ChangeStatus(StatusAvailable))
}

func TestChangeStatusRejectsUnknownValue(t *testing.T) {
	unit := newUnit()

	err := unit.ChangeStatus(EquipmentStatus("BROKEN"))
	assert.Error(t, err)
	assert.Equal(t, StatusAvailable, unit.Status)
}

func TestRecordFirstImageIsIdempotent(t *testing.T) {
	unit := newUnit()
	require.Nil(t, unit.FirstImageUploadedAt)

	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	unit.RecordFirstImage(first)
	require.NotNil(t, unit.FirstImageUploadedAt)
	assert.Equal(t, first, *unit.FirstImageUploadedAt)

	// A second upload never moves the stamp.
	unit.RecordFirstImage(first.Add(48 * time.Hour))
	assert.Equal(t, first, *unit.FirstImageUploadedAt)
}

func TestQueryDescriptorTimestamp(t *testing.T) {
	d := QueryDescriptor()

	unit := newUnit()
	_, known := d.Timestamp(unit)
	assert.False(t, known, "unit without a photo has no known timestamp")

	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	unit.RecordFirstImage(at)
	ts, known := d.Timestamp(unit)
	assert.True(t, known)
	assert.Equal(t, at, ts)
}

func TestQueryDescriptorSearchFields(t *testing.T) {
	d := QueryDescriptor()
	unit := newUnit()

	fields := d.SearchText(unit)
	assert.Contains(t, fields, "Harbour Mobile Crane 01")
	assert.Contains(t, fields, "HMC-001")
	assert.Contains(t, fields, "Liebherr")
	assert.Contains(t, fields, "LHM 550")
}

func TestEngineExcludesUnstampedUnitsFromBoundedPeriods(t *testing.T) {
	engine := query.NewEngine(QueryDescriptor())

	stamped := newUnit()
	stamped.RecordFirstImage(time.Now())
	unstamped := newUnit()
	unstamped.InventoryNumber = "HMC-002"

	units := []*HeavyEquipmentUnit{stamped, unstamped}

	c := query.NewCriteria()
	c.Period = query.Period30D
	result := engine.Run(units, c)
	assert.Equal(t, 1, result.Stats.Total)

	c.Period = query.PeriodAll
	result = engine.Run(units, c)
	assert.Equal(t, 2, result.Stats.Total)
}
