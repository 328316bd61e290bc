package tenantsrv

import (
	"context"
	"strings"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/scopes"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/query"
)

// TenantService coordinates cooperative management. Listing runs through the
// shared query engine; only the superadmin sees cooperatives at all.
type TenantService struct {
	tenantRepo tenant.TenantRepository
	engine     *query.Engine[*tenant.Tenant]
}

// NewTenantService creates a new tenant service instance.
func NewTenantService(tenantRepo tenant.TenantRepository) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		engine:     query.NewEngine(tenant.QueryDescriptor()),
	}
}

// ListTenants filters, sorts and aggregates all cooperatives.
func (s *TenantService) ListTenants(ctx context.Context, auth *kernel.AuthContext, c query.Criteria) (query.Result[*tenant.Tenant], error) {
	if !auth.HasScope(scopes.ScopeTenantsRead) {
		return query.Result[*tenant.Tenant]{}, iam.ErrForbidden().
			WithDetail("required_scope", scopes.ScopeTenantsRead)
	}

	tenants, err := s.tenantRepo.FindAll(ctx)
	if err != nil {
		return query.Result[*tenant.Tenant]{}, err
	}

	return s.engine.Run(tenants, c), nil
}

// GetTenant fetches one cooperative. Tenant-scoped actors may only read
// their own.
func (s *TenantService) GetTenant(ctx context.Context, auth *kernel.AuthContext, id kernel.TenantID) (*tenant.Tenant, error) {
	if !auth.TenantID.IsEmpty() && auth.TenantID != id {
		return nil, iam.ErrForbidden().WithDetail("reason", "cannot read another cooperative")
	}
	return s.tenantRepo.FindByID(ctx, id)
}

// CreateTenant registers a cooperative. New registrations start in
// PENDING_APPROVAL and must be approved before their users can work.
func (s *TenantService) CreateTenant(ctx context.Context, auth *kernel.AuthContext, req tenant.CreateTenantRequest) (*tenant.Tenant, error) {
	if !auth.HasScope(scopes.ScopeTenantsWrite) {
		return nil, iam.ErrForbidden().WithDetail("required_scope", scopes.ScopeTenantsWrite)
	}

	if !query.KnownProvince(req.Province) {
		return nil, tenant.ErrUnknownProvince().WithDetail("province", req.Province)
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	taken, err := s.tenantRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, tenant.ErrTenantAlreadyExists().WithDetail("code", code)
	}

	now := time.Now()
	t := tenant.Tenant{
		ID:           kernel.NewTenantID(),
		Name:         req.Name,
		Code:         code,
		City:         req.City,
		Province:     req.Province,
		PortName:     req.PortName,
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone: req.ContactPhone,
		Status:       tenant.TenantStatusPendingApproval,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.tenantRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"tenant_id": t.ID.String(),
		"code":      t.Code,
		"province":  t.Province,
	}).Info("cooperative registered")

	return &t, nil
}

// UpdateTenant edits a cooperative's profile.
func (s *TenantService) UpdateTenant(ctx context.Context, auth *kernel.AuthContext, id kernel.TenantID, req tenant.UpdateTenantRequest) (*tenant.Tenant, error) {
	if !auth.HasScope(scopes.ScopeTenantsWrite) {
		return nil, iam.ErrForbidden().WithDetail("required_scope", scopes.ScopeTenantsWrite)
	}

	t, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Province != nil {
		if !query.KnownProvince(*req.Province) {
			return nil, tenant.ErrUnknownProvince().WithDetail("province", *req.Province)
		}
		t.Province = *req.Province
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.City != nil {
		t.City = *req.City
	}
	if req.PortName != nil {
		t.PortName = *req.PortName
	}
	if req.ContactEmail != nil {
		t.ContactEmail = strings.ToLower(strings.TrimSpace(*req.ContactEmail))
	}
	if req.ContactPhone != nil {
		t.ContactPhone = *req.ContactPhone
	}
	t.UpdatedAt = time.Now()

	if err := s.tenantRepo.Save(ctx, *t); err != nil {
		return nil, err
	}

	return t, nil
}

// ApproveTenant activates a cooperative awaiting registration approval.
func (s *TenantService) ApproveTenant(ctx context.Context, auth *kernel.AuthContext, id kernel.TenantID) (*tenant.Tenant, error) {
	return s.transition(ctx, auth, id, (*tenant.Tenant).Approve, "cooperative approved")
}

// SuspendTenant halts an active cooperative.
func (s *TenantService) SuspendTenant(ctx context.Context, auth *kernel.AuthContext, id kernel.TenantID) (*tenant.Tenant, error) {
	return s.transition(ctx, auth, id, (*tenant.Tenant).Suspend, "cooperative suspended")
}

// ReactivateTenant restores a suspended cooperative.
func (s *TenantService) ReactivateTenant(ctx context.Context, auth *kernel.AuthContext, id kernel.TenantID) (*tenant.Tenant, error) {
	return s.transition(ctx, auth, id, (*tenant.Tenant).Reactivate, "cooperative reactivated")
}

func (s *TenantService) transition(ctx context.Context, auth *kernel.AuthContext, id kernel.TenantID, apply func(*tenant.Tenant) error, logMsg string) (*tenant.Tenant, error) {
	if !auth.HasScope(scopes.ScopeTenantsWrite) {
		return nil, iam.ErrForbidden().WithDetail("required_scope", scopes.ScopeTenantsWrite)
	}

	t, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(t); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, *t); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"tenant_id": t.ID.String(),
		"status":    string(t.Status),
	}).Info(logMsg)

	return t, nil
}
