package member

import (
	"net/http"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/errx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// ============================================================================
// Member Entity
// ============================================================================

// Position is a member's function within the cooperative.
type Position string

const (
	PositionWorker     Position = "WORKER"
	PositionTeamLeader Position = "TEAM_LEADER"
)

// Status values exposed to the list filter. Members carry an active flag in
// storage; the filter works on its categorical projection.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Member is a registered dock worker of one cooperative. Province is
// denormalized from the owning tenant so regional filtering does not need a
// join at query time.
type Member struct {
	ID           kernel.MemberID `db:"id" json:"id"`
	TenantID     kernel.TenantID `db:"tenant_id" json:"tenant_id"`
	MemberNumber string          `db:"member_number" json:"member_number"`
	FullName     string          `db:"full_name" json:"full_name"`
	NIK          string          `db:"nik" json:"nik"`
	Phone        string          `db:"phone" json:"phone"`
	Position     Position        `db:"position" json:"position"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	JoinDate     time.Time       `db:"join_date" json:"join_date"`
	Province     string          `db:"province" json:"province"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// StatusLabel projects the active flag onto the categorical filter domain.
func (m *Member) StatusLabel() string {
	if m.IsActive {
		return StatusActive
	}
	return StatusInactive
}

// IsTeamLeader reports whether the member can be assigned a team.
func (m *Member) IsTeamLeader() bool {
	return m.Position == PositionTeamLeader
}

// Promote makes a worker a team leader.
func (m *Member) Promote() error {
	if m.Position == PositionTeamLeader {
		return ErrAlreadyTeamLeader().WithDetail("member_id", m.ID.String())
	}
	m.Position = PositionTeamLeader
	m.UpdatedAt = time.Now()
	return nil
}

// Deactivate removes the member from active rotation.
func (m *Member) Deactivate() {
	m.IsActive = false
	m.UpdatedAt = time.Now()
}

// Reactivate restores a deactivated member.
func (m *Member) Reactivate() {
	m.IsActive = true
	m.UpdatedAt = time.Now()
}

// ============================================================================
// Query Descriptor
// ============================================================================

// QueryDescriptor wires members into the list query engine. The time window
// runs over the join date.
func QueryDescriptor() query.Descriptor[*Member] {
	return query.Descriptor[*Member]{
		SearchText: func(m *Member) []string {
			return []string{m.FullName, m.MemberNumber, m.Phone}
		},
		Status: func(m *Member) string {
			return m.StatusLabel()
		},
		Timestamp: func(m *Member) (time.Time, bool) {
			return m.JoinDate, !m.JoinDate.IsZero()
		},
		Province: func(m *Member) string {
			return m.Province
		},
	}
}

// ============================================================================
// DTOs
// ============================================================================

// CreateMemberRequest is the payload for registering a member.
type CreateMemberRequest struct {
	MemberNumber string `json:"member_number" validate:"required"`
	FullName     string `json:"full_name" validate:"required,min=2"`
	NIK          string `json:"nik" validate:"required,len=16"`
	Phone        string `json:"phone"`
	Position     string `json:"position"`
	JoinDate     string `json:"join_date"` // YYYY-MM-DD, defaults to today
}

// UpdateMemberRequest is the payload for editing a member.
type UpdateMemberRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("MEMBER")

var (
	CodeMemberNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Member not found")
	CodeMemberAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Member already registered")
	CodeInvalidPosition     = ErrRegistry.Register("INVALID_POSITION", errx.TypeValidation, http.StatusBadRequest, "Invalid member position")
	CodeAlreadyTeamLeader   = ErrRegistry.Register("ALREADY_TEAM_LEADER", errx.TypeBusiness, http.StatusConflict, "Member is already a team leader")
	CodeNotTeamLeader       = ErrRegistry.Register("NOT_TEAM_LEADER", errx.TypeBusiness, http.StatusConflict, "Member is not a team leader")
)

func ErrMemberNotFound() *errx.Error {
	return ErrRegistry.New(CodeMemberNotFound)
}

func ErrMemberAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeMemberAlreadyExists)
}

func ErrInvalidPosition() *errx.Error {
	return ErrRegistry.New(CodeInvalidPosition)
}

func ErrAlreadyTeamLeader() *errx.Error {
	return ErrRegistry.New(CodeAlreadyTeamLeader)
}

func ErrNotTeamLeader() *errx.Error {
	return ErrRegistry.New(CodeNotTeamLeader)
}
