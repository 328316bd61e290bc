package member

import (
	"context"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
)

// MemberRepository defines the persistence contract for members. Find
// methods return the province of the owning cooperative on every row.
type MemberRepository interface {
	FindByID(ctx context.Context, id kernel.MemberID) (*Member, error)
	FindByTenant(ctx context.Context, tenantID kernel.TenantID) ([]*Member, error)
	FindAll(ctx context.Context) ([]*Member, error)
	Save(ctx context.Context, m Member) error
	Delete(ctx context.Context, id kernel.MemberID) error
	ExistsByMemberNumber(ctx context.Context, tenantID kernel.TenantID, memberNumber string) (bool, error)
}
