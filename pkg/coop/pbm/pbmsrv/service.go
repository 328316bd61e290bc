package pbmsrv

import (
	"context"
	"strings"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// PBMService coordinates stevedoring company partnerships.
type PBMService struct {
	pbmRepo pbm.PBMRepository
	engine  *query.Engine[*pbm.PBM]
}

// NewPBMService creates a new PBM service instance.
func NewPBMService(pbmRepo pbm.PBMRepository) *PBMService {
	return &PBMService{
		pbmRepo: pbmRepo,
		engine:  query.NewEngine(pbm.QueryDescriptor()),
	}
}

// ListPBMs filters, sorts and aggregates the caller's visible PBM partners.
func (s *PBMService) ListPBMs(ctx context.Context, auth *kernel.AuthContext, c query.Criteria) (query.Result[*pbm.PBM], error) {
	var (
		pbms []*pbm.PBM
		err  error
	)

	if auth.TenantID.IsEmpty() {
		pbms, err = s.pbmRepo.FindAll(ctx)
	} else {
		pbms, err = s.pbmRepo.FindByTenant(ctx, auth.TenantID)
		c = c.WithoutRegion()
	}
	if err != nil {
		return query.Result[*pbm.PBM]{}, err
	}

	return s.engine.Run(pbms, c), nil
}

// GetPBM fetches one PBM partner, enforcing tenant boundaries.
func (s *PBMService) GetPBM(ctx context.Context, auth *kernel.AuthContext, id kernel.PBMID) (*pbm.PBM, error) {
	p, err := s.pbmRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardTenant(auth, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePBM registers a PBM partner for the caller's cooperative.
func (s *PBMService) CreatePBM(ctx context.Context, auth *kernel.AuthContext, req pbm.CreatePBMRequest) (*pbm.PBM, error) {
	if auth.TenantID.IsEmpty() {
		return nil, iam.ErrForbidden().WithDetail("reason", "PBM partners are registered by their own cooperative")
	}

	companyCode := strings.ToUpper(strings.TrimSpace(req.CompanyCode))
	taken, err := s.pbmRepo.ExistsByCompanyCode(ctx, auth.TenantID, companyCode)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, pbm.ErrPBMAlreadyExists().WithDetail("company_code", companyCode)
	}

	now := time.Now()
	p := pbm.PBM{
		ID:            kernel.NewPBMID(),
		TenantID:      auth.TenantID,
		Name:          req.Name,
		CompanyCode:   companyCode,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Address:       req.Address,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.pbmRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"pbm_id":       p.ID.String(),
		"tenant_id":    p.TenantID.String(),
		"company_code": p.CompanyCode,
	}).Info("pbm partner registered")

	return &p, nil
}

// UpdatePBM edits a PBM partner's mutable fields.
func (s *PBMService) UpdatePBM(ctx context.Context, auth *kernel.AuthContext, id kernel.PBMID, req pbm.UpdatePBMRequest) (*pbm.PBM, error) {
	p, err := s.GetPBM(ctx, auth, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.ContactPerson != nil {
		p.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Email != nil {
		p.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.IsActive != nil {
		if *req.IsActive {
			p.Reactivate()
		} else {
			p.Deactivate()
		}
	}
	p.UpdatedAt = time.Now()

	if err := s.pbmRepo.Save(ctx, *p); err != nil {
		return nil, err
	}

	return p, nil
}

// DeactivatePBM ends a partnership without deleting its history.
func (s *PBMService) DeactivatePBM(ctx context.Context, auth *kernel.AuthContext, id kernel.PBMID) error {
	p, err := s.GetPBM(ctx, auth, id)
	if err != nil {
		return err
	}

	p.Deactivate()
	return s.pbmRepo.Save(ctx, *p)
}

func (s *PBMService) guardTenant(auth *kernel.AuthContext, p *pbm.PBM) error {
	if auth.TenantID.IsEmpty() {
		return nil
	}
	if p.TenantID != auth.TenantID {
		return iam.ErrForbidden().WithDetail("reason", "PBM partner belongs to another cooperative")
	}
	return nil
}
