// Package fixtures seeds the demo dataset: the eight port cooperatives with
// their admin accounts, sample partners, members, job requests and invoices.
// Seeding is meant for development mode and is skipped when tenants already
// exist.
package fixtures

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/billing"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/equipment"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/kernel"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/ptrx"
)

// Seeder writes the demo dataset through the regular repositories.
type Seeder struct {
	tenantRepo    tenant.TenantRepository
	userRepo      user.UserRepository
	pbmRepo       pbm.PBMRepository
	memberRepo    member.MemberRepository
	jobRepo       job.JobRepository
	invoiceRepo   billing.InvoiceRepository
	equipmentRepo equipment.EquipmentRepository
	passwordSvc   user.PasswordService
}

// NewSeeder creates a new fixture seeder.
func NewSeeder(
	tenantRepo tenant.TenantRepository,
	userRepo user.UserRepository,
	pbmRepo pbm.PBMRepository,
	memberRepo member.MemberRepository,
	jobRepo job.JobRepository,
	invoiceRepo billing.InvoiceRepository,
	equipmentRepo equipment.EquipmentRepository,
	passwordSvc user.PasswordService,
) *Seeder {
	return &Seeder{
		tenantRepo:    tenantRepo,
		userRepo:      userRepo,
		pbmRepo:       pbmRepo,
		memberRepo:    memberRepo,
		jobRepo:       jobRepo,
		invoiceRepo:   invoiceRepo,
		equipmentRepo: equipmentRepo,
		passwordSvc:   passwordSvc,
	}
}

type cooperative struct {
	name     string
	code     string
	city     string
	province string
	portName string
}

// The eight port cooperatives, one per province bucket.
var cooperatives = []cooperative{
	{"Koperasi TKBM Tanjung Priok", "JKT", "Jakarta Utara", "DKI Jakarta", "Pelabuhan Tanjung Priok"},
	{"Koperasi TKBM Tanjung Perak", "SBY", "Surabaya", "Jawa Timur", "Pelabuhan Tanjung Perak"},
	{"Koperasi TKBM Belawan", "MDN", "Medan", "Sumatera Utara", "Pelabuhan Belawan"},
	{"Koperasi TKBM Tanjung Emas", "SMG", "Semarang", "Jawa Tengah", "Pelabuhan Tanjung Emas"},
	{"Koperasi TKBM Samarinda", "SMD", "Samarinda", "Kalimantan Timur", "Pelabuhan Samarinda"},
	{"Koperasi TKBM Pontianak", "PNK", "Pontianak", "Kalimantan Barat", "Pelabuhan Dwikora"},
	{"Koperasi TKBM Makassar", "MKS", "Makassar", "Sulawesi Selatan", "Pelabuhan Soekarno-Hatta"},
	{"Koperasi TKBM Batam", "BTM", "Batam", "Kepulauan Riau", "Pelabuhan Batu Ampar"},
}

// DemoPassword is the shared password of every seeded account.
const DemoPassword = "password123"

// Seed writes the demo dataset. It is a no-op when any tenant already
// exists, so repeated startups never duplicate data.
func (s *Seeder) Seed(ctx context.Context) error {
	existing, err := s.tenantRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logx.Info("fixtures skipped, tenants already present")
		return nil
	}

	hash, err := s.passwordSvc.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	now := time.Now()

	if err := s.seedSuperadmin(ctx, hash, now); err != nil {
		return err
	}

	for i, c := range cooperatives {
		t := tenant.Tenant{
			ID:           kernel.NewTenantID(),
			Name:         c.name,
			Code:         c.code,
			City:         c.city,
			Province:     c.province,
			PortName:     c.portName,
			ContactEmail: fmt.Sprintf("admin@tkbm-%s.co.id", strings.ToLower(c.code)),
			ContactPhone: fmt.Sprintf("+62-21-555-%04d", 1000+i),
			Status:       tenant.TenantStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.tenantRepo.Save(ctx, t); err != nil {
			return err
		}

		if err := s.seedAdmin(ctx, t, hash, now); err != nil {
			return err
		}

		// Operational sample data only for the first two ports keeps the
		// demo dataset small.
		if i < 2 {
			if err := s.seedOperations(ctx, t, now); err != nil {
				return err
			}
		}
	}

	logx.WithFields(logx.Fields{"tenants": len(cooperatives)}).Info("demo fixtures seeded")
	return nil
}

func (s *Seeder) seedSuperadmin(ctx context.Context, hash string, now time.Time) error {
	superadmin := user.User{
		ID:           kernel.NewUserID(),
		Username:     "superadmin",
		Email:        "superadmin@tkbm.co.id",
		FullName:     "Administrator Nasional",
		Role:         iam.RoleSuperadmin,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.userRepo.Save(ctx, superadmin)
}

func (s *Seeder) seedAdmin(ctx context.Context, t tenant.Tenant, hash string, now time.Time) error {
	tenantID := t.ID
	admin := user.User{
		ID:           kernel.NewUserID(),
		TenantID:     &tenantID,
		Username:     fmt.Sprintf("admin.%s", strings.ToLower(t.Code)),
		Email:        fmt.Sprintf("admin@tkbm-%s.co.id", strings.ToLower(t.Code)),
		FullName:     fmt.Sprintf("Admin %s", t.Name),
		Role:         iam.RoleAdmin,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.userRepo.Save(ctx, admin)
}

func (s *Seeder) seedOperations(ctx context.Context, t tenant.Tenant, now time.Time) error {
	partner := pbm.PBM{
		ID:            kernel.NewPBMID(),
		TenantID:      t.ID,
		Name:          fmt.Sprintf("PT Bongkar Muat %s", t.City),
		CompanyCode:   fmt.Sprintf("PBM-%s-01", t.Code),
		ContactPerson: "Budi Santoso",
		Phone:         "+62-812-3456-7890",
		Email:         fmt.Sprintf("ops@pbm-%s.co.id", strings.ToLower(t.Code)),
		Address:       fmt.Sprintf("Kawasan %s", t.PortName),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.pbmRepo.Save(ctx, partner); err != nil {
		return err
	}

	leader := member.Member{
		ID:           kernel.NewMemberID(),
		TenantID:     t.ID,
		MemberNumber: fmt.Sprintf("%s-0001", t.Code),
		FullName:     "Ahmad Hidayat",
		NIK:          "3171000000000001",
		Phone:        "+62-813-1111-2222",
		Position:     member.PositionTeamLeader,
		IsActive:     true,
		JoinDate:     now.AddDate(-2, 0, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	worker := member.Member{
		ID:           kernel.NewMemberID(),
		TenantID:     t.ID,
		MemberNumber: fmt.Sprintf("%s-0002", t.Code),
		FullName:     "Joko Prasetyo",
		NIK:          "3171000000000002",
		Phone:        "+62-813-3333-4444",
		Position:     member.PositionWorker,
		IsActive:     true,
		JoinDate:     now.AddDate(-1, -3, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, m := range []member.Member{leader, worker} {
		if err := s.memberRepo.Save(ctx, m); err != nil {
			return err
		}
	}

	crane := equipment.HeavyEquipmentUnit{
		ID:              kernel.NewEquipmentID(),
		TenantID:        t.ID,
		Category:        "Crane",
		Name:            fmt.Sprintf("Harbour Mobile Crane %s", t.Code),
		InventoryNumber: fmt.Sprintf("HMC-%s-01", t.Code),
		Brand:           "Liebherr",
		Model:           "LHM 550",
		Capacity:        "144 ton",
		Status:          equipment.StatusAvailable,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.equipmentRepo.Save(ctx, crane); err != nil {
		return err
	}

	pending := job.JobRequest{
		ID:              kernel.NewJobID(),
		TenantID:        t.ID,
		JobCode:         fmt.Sprintf("PJ-%s-001", t.Code),
		PBMID:           partner.ID,
		JobType:         "Bongkar Curah",
		ShipName:        "MV Sinar Jaya",
		PortLocation:    t.PortName,
		ScheduledDate:   now.AddDate(0, 0, 7),
		RequiredWorkers: 12,
		ContactPerson:   partner.ContactPerson,
		Status:          job.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       ptrx.Time(now),
	}
	completed := job.JobRequest{
		ID:              kernel.NewJobID(),
		TenantID:        t.ID,
		JobCode:         fmt.Sprintf("PJ-%s-002", t.Code),
		PBMID:           partner.ID,
		JobType:         "Muat Peti Kemas",
		ShipName:        "KM Nusantara",
		PortLocation:    t.PortName,
		ScheduledDate:   now.AddDate(0, 0, -14),
		RequiredWorkers: 8,
		ContactPerson:   partner.ContactPerson,
		TeamLeaderID:    &leader.ID,
		Status:          job.StatusCompletedApproved,
		CreatedAt:       now.AddDate(0, 0, -20),
		UpdatedAt:       ptrx.Time(now),
	}
	for _, j := range []job.JobRequest{pending, completed} {
		if err := s.jobRepo.Save(ctx, j); err != nil {
			return err
		}
	}

	issuedAt := now.AddDate(0, 0, -10)
	dueDate := issuedAt.AddDate(0, 0, 14)
	paidAt := now.AddDate(0, 0, -2)
	paid := billing.Invoice{
		ID:            kernel.NewInvoiceID(),
		TenantID:      t.ID,
		InvoiceNumber: fmt.Sprintf("INV-%s-%d-001", t.Code, now.Year()),
		PBMID:         partner.ID,
		JobCode:       completed.JobCode,
		JobType:       completed.JobType,
		Amount:        45_000_000,
		Status:        billing.StatusPaid,
		IssuedAt:      ptrx.Time(issuedAt),
		DueDate:       ptrx.Time(dueDate),
		PaidAt:        ptrx.Time(paidAt),
		CreatedAt:     issuedAt,
		UpdatedAt:     paidAt,
	}
	outstanding := billing.Invoice{
		ID:            kernel.NewInvoiceID(),
		TenantID:      t.ID,
		InvoiceNumber: fmt.Sprintf("INV-%s-%d-002", t.Code, now.Year()),
		PBMID:         partner.ID,
		JobCode:       completed.JobCode,
		JobType:       completed.JobType,
		Amount:        27_500_000,
		Status:        billing.StatusIssued,
		IssuedAt:      ptrx.Time(issuedAt),
		DueDate:       ptrx.Time(dueDate),
		CreatedAt:     issuedAt,
		UpdatedAt:     issuedAt,
	}
	for _, inv := range []billing.Invoice{paid, outstanding} {
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return err
		}
	}

	return nil
}
