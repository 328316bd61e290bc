package kernel

import "github.com/google/uuid"

// ============================================================================
// Typed identifiers
// ============================================================================
//
// Every aggregate gets its own ID type so a MemberID can never be passed where
// a JobID is expected. They are plain strings underneath (UUIDs in practice)
// so sqlx can scan them directly.

type (
	UserID      string
	TenantID    string
	MemberID    string
	JobID       string
	PBMID       string
	EquipmentID string
	InvoiceID   string
)

func NewUserID() UserID           { return UserID(uuid.NewString()) }
func NewTenantID() TenantID       { return TenantID(uuid.NewString()) }
func NewMemberID() MemberID       { return MemberID(uuid.NewString()) }
func NewJobID() JobID             { return JobID(uuid.NewString()) }
func NewPBMID() PBMID             { return PBMID(uuid.NewString()) }
func NewEquipmentID() EquipmentID { return EquipmentID(uuid.NewString()) }
func NewInvoiceID() InvoiceID     { return InvoiceID(uuid.NewString()) }

func (id UserID) String() string      { return string(id) }
func (id TenantID) String() string    { return string(id) }
func (id MemberID) String() string    { return string(id) }
func (id JobID) String() string       { return string(id) }
func (id PBMID) String() string       { return string(id) }
func (id EquipmentID) String() string { return string(id) }
func (id InvoiceID) String() string   { return string(id) }

func (id UserID) IsEmpty() bool   { return id == "" }
func (id TenantID) IsEmpty() bool { return id == "" }
func (id MemberID) IsEmpty() bool { return id == "" }
