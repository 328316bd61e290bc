// container.go
package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/config"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/billing/billingapi"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/billing/billinginfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/billing/billingsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/equipment/equipmentapi"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/equipment/equipmentinfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/equipment/equipmentsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/fixtures"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job/jobapi"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job/jobinfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/job/jobsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member/memberapi"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member/memberinfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/member/membersrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm/pbmapi"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm/pbminfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/pbm/pbmsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/reports/reportsapi"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/reports/reportsinfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/coop/reports/reportssrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth/authinfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant/tenantapi"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant/tenantinfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/tenant/tenantsrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user/userapi"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user/userinfra"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/user/usersrv"
	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/logx"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB    *sqlx.DB
	Redis *redis.Client

	// IAM
	TokenService   auth.TokenService
	AuthHandlers   *auth.AuthHandlers
	AuthMiddleware *auth.AuthMiddleware
	UserService    *usersrv.UserService
	TenantService  *tenantsrv.TenantService
	UserHandlers   *userapi.UserHandlers
	TenantHandlers *tenantapi.TenantHandlers

	// Cooperative domain
	MemberService     *membersrv.MemberService
	PBMService        *pbmsrv.PBMService
	JobService        *jobsrv.JobService
	EquipmentService  *equipmentsrv.EquipmentService
	BillingService    *billingsrv.BillingService
	ReportsService    *reportssrv.ReportsService
	MemberHandlers    *memberapi.MemberHandlers
	PBMHandlers       *pbmapi.PBMHandlers
	JobHandlers       *jobapi.JobHandlers
	EquipmentHandlers *equipmentapi.EquipmentHandlers
	BillingHandlers   *billingapi.BillingHandlers
	ReportsHandlers   *reportsapi.ReportsHandlers

	// Development fixtures
	Seeder *fixtures.Seeder
}

// NewContainer initializes the dependency injection container.
func NewContainer(cfg *config.Config) *Container {
	logx.Info("Initializing dependency container...")

	c := &Container{
		Config: cfg,
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("Container initialized")
	return c
}

func (c *Container) initInfrastructure() {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Config.Database.Host,
		c.Config.Database.Port,
		c.Config.Database.User,
		c.Config.Database.Password,
		c.Config.Database.Name,
		c.Config.Database.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("Database connected")

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis backs sessions and report caching)", err)
	}
	logx.Info("Redis connected")
}

func (c *Container) initServices() {
	// --- Repositories ---
	tenantRepo := tenantinfra.NewPostgresTenantRepository(c.DB)
	userRepo := userinfra.NewPostgresUserRepository(c.DB)
	memberRepo := memberinfra.NewPostgresMemberRepository(c.DB)
	pbmRepo := pbminfra.NewPostgresPBMRepository(c.DB)
	jobRepo := jobinfra.NewPostgresJobRepository(c.DB)
	equipmentRepo := equipmentinfra.NewPostgresEquipmentRepository(c.DB)
	invoiceRepo := billinginfra.NewPostgresInvoiceRepository(c.DB)
	reportReader := reportsinfra.NewPostgresReportReader(c.DB)

	sessionRepo := authinfra.NewRedisSessionStore(c.Redis, c.Config.Auth.JWT.RefreshTokenTTL)
	reportCache := reportsinfra.NewRedisReportCache(c.Redis, c.Config.Coop.ReportCacheTTL)

	// --- Infrastructure services ---
	passwordSvc := authinfra.NewBcryptPasswordService(c.Config.Auth.Password.BcryptCost)
	c.TokenService = auth.NewJWTServiceFromConfig(&c.Config.Auth.JWT)

	// --- Domain services ---
	c.UserService = usersrv.NewUserService(userRepo, passwordSvc)
	c.TenantService = tenantsrv.NewTenantService(tenantRepo)
	c.MemberService = membersrv.NewMemberService(memberRepo)
	c.PBMService = pbmsrv.NewPBMService(pbmRepo)
	c.JobService = jobsrv.NewJobService(jobRepo, pbmRepo, memberRepo, tenantRepo, c.Config.Coop.JobCodePrefix)
	c.EquipmentService = equipmentsrv.NewEquipmentService(equipmentRepo)
	c.BillingService = billingsrv.NewBillingService(invoiceRepo, pbmRepo, tenantRepo, c.Config.Coop.InvoiceDueDays)
	c.ReportsService = reportssrv.NewReportsService(reportReader, reportCache)

	// --- Auth ---
	c.AuthHandlers = auth.NewAuthHandlers(
		c.TokenService,
		userRepo,
		tenantRepo,
		sessionRepo,
		passwordSvc,
		c.Config,
	)
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)

	// --- API handlers ---
	c.UserHandlers = userapi.NewUserHandlers(c.UserService)
	c.TenantHandlers = tenantapi.NewTenantHandlers(c.TenantService)
	c.MemberHandlers = memberapi.NewMemberHandlers(c.MemberService)
	c.PBMHandlers = pbmapi.NewPBMHandlers(c.PBMService)
	c.JobHandlers = jobapi.NewJobHandlers(c.JobService)
	c.EquipmentHandlers = equipmentapi.NewEquipmentHandlers(c.EquipmentService)
	c.BillingHandlers = billingapi.NewBillingHandlers(c.BillingService)
	c.ReportsHandlers = reportsapi.NewReportsHandlers(c.ReportsService)

	// --- Fixtures ---
	c.Seeder = fixtures.NewSeeder(
		tenantRepo,
		userRepo,
		pbmRepo,
		memberRepo,
		jobRepo,
		invoiceRepo,
		equipmentRepo,
		passwordSvc,
	)

	logx.Info("All services and handlers initialized")
}

// SeedFixtures loads the demo dataset when enabled by configuration.
func (c *Container) SeedFixtures(ctx context.Context) {
	if !c.Config.Coop.SeedFixtures {
		return
	}
	if err := c.Seeder.Seed(ctx); err != nil {
		logx.Errorf("Fixture seeding failed: %v", err)
	}
}

// Cleanup closes all connections.
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		}
	}
	logx.Info("Cleanup completed")
}
