package membersrv

import (
	"context"
	"strings"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// MemberService coordinates dock worker management. Tenant-scoped actors see
// only their own cooperative's members; the superadmin sees all of them and
// may narrow by region.
type MemberService struct {
	memberRepo member.MemberRepository
	engine     *query.Engine[*member.Member]
}

// NewMemberService creates a new member service instance.
func NewMemberService(memberRepo member.MemberRepository) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		engine:     query.NewEngine(member.QueryDescriptor()),
	}
}

// ListMembers filters, sorts and aggregates the caller's visible members.
func (s *MemberService) ListMembers(ctx context.Context, auth *kernel.AuthContext, c query.Criteria) (query.Result[*member.Member], error) {
	var (
		members []*member.Member
		err     error
	)

	if auth.TenantID.IsEmpty() {
		members, err = s.memberRepo.FindAll(ctx)
	} else {
		// The collection is already confined to one cooperative, so the
		// region predicate has nothing left to narrow.
		members, err = s.memberRepo.FindByTenant(ctx, auth.TenantID)
		c = c.WithoutRegion()
	}
	if err != nil {
		return query.Result[*member.Member]{}, err
	}

	return s.engine.Run(members, c), nil
}

// GetMember fetches one member, enforcing tenant boundaries.
func (s *MemberService) GetMember(ctx context.Context, auth *kernel.AuthContext, id kernel.MemberID) (*member.Member, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardTenant(auth, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateMember registers a dock worker in the caller's cooperative.
func (s *MemberService) CreateMember(ctx context.Context, auth *kernel.AuthContext, req member.CreateMemberRequest) (*member.Member, error) {
	if auth.TenantID.IsEmpty() {
		return nil, iam.ErrForbidden().WithDetail("reason", "members are registered by their own cooperative")
	}

	position := member.PositionWorker
	if req.Position != "" {
		p := member.Position(strings.ToUpper(strings.TrimSpace(req.Position)))
		if p != member.PositionWorker && p != member.PositionTeamLeader {
			return nil, member.ErrInvalidPosition().WithDetail("position", req.Position)
		}
		position = p
	}

	memberNumber := strings.TrimSpace(req.MemberNumber)
	taken, err := s.memberRepo.ExistsByMemberNumber(ctx, auth.TenantID, memberNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, member.ErrMemberAlreadyExists().WithDetail("member_number", memberNumber)
	}

	now := time.Now()
	joinDate := now
	if req.JoinDate != "" {
		parsed, err := time.Parse("2006-01-02", req.JoinDate)
		if err == nil {
			joinDate = parsed
		}
	}

	m := member.Member{
		ID:           kernel.NewMemberID(),
		TenantID:     auth.TenantID,
		MemberNumber: memberNumber,
		FullName:     req.FullName,
		NIK:          req.NIK,
		Phone:        req.Phone,
		Position:     position,
		IsActive:     true,
		JoinDate:     joinDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.memberRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"member_id":     m.ID.String(),
		"tenant_id":     m.TenantID.String(),
		"member_number": m.MemberNumber,
	}).Info("member registered")

	return &m, nil
}

// UpdateMember edits a member's mutable fields.
func (s *MemberService) UpdateMember(ctx context.Context, auth *kernel.AuthContext, id kernel.MemberID, req member.UpdateMemberRequest) (*member.Member, error) {
	m, err := s.GetMember(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		m.FullName = *req.FullName
	}
	if req.Phone != nil {
		m.Phone = *req.Phone
	}
	if req.IsActive != nil {
		if *req.IsActive {
			m.Reactivate()
		} else {
			m.Deactivate()
		}
	}
	m.UpdatedAt = time.Now()

	if err := s.memberRepo.Save(ctx, *m); err != nil {
		return nil, err
	}

	return m, nil
}

// PromoteMember makes a worker a team leader.
func (s *MemberService) PromoteMember(ctx context.Context, auth *kernel.AuthContext, id kernel.MemberID) (*member.Member, error) {
	m, err := s.GetMember(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if err := m.Promote(); err != nil {
		return nil, err
	}

	if err := s.memberRepo.Save(ctx, *m); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"member_id": m.ID.String(),
	}).Info("member promoted to team leader")

	return m, nil
}

// DeactivateMember removes a member from active rotation.
func (s *MemberService) DeactivateMember(ctx context.Context, auth *kernel.AuthContext, id kernel.MemberID) error {
	m, err := s.GetMember(ctx, auth, id)
	if err != nil {
		return err
	}

	m.Deactivate()
	return s.memberRepo.Save(ctx, *m)
}

func (s *MemberService) guardTenant(auth *kernel.AuthContext, m *member.Member) error {
	if auth.TenantID.IsEmpty() {
		return nil
	}
	if m.TenantID != auth.TenantID {
		return iam.ErrForbidden().WithDetail("reason", "member belongs to another cooperative")
	}
	return nil
}
