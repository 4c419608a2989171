package provider

import (
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/authz"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/cache"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/logger"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/models"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/queue"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/repository"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo       repository.UserRepository
	ContactRepo    repository.ContactRepository
	VendorRepo     repository.VendorRepository
	ProductRepo    repository.ProductRepository
	DriverRepo     repository.DriverRepository
	MissionRepo    repository.MissionRepository
	CargoRepo      repository.CargoRepository
	TruckRepo      repository.TruckRepository
	AssignmentRepo repository.AssignmentRepository
	RegionRepo     repository.RegionRepository
	DocumentRepo   repository.DocumentRepository

	// Services
	AuthzService           *authz.Service
	UserAuthService        *service.UserAuthService
	UserService            *service.UserService
	VendorService          *service.VendorService
	MissionService         *service.MissionService
	FleetService           *service.FleetService
	AllocationLedger       *service.AllocationLedger
	AssignmentService      *service.AssignmentService
	AllocationQueryService *service.AllocationQueryService
	AllocationAuditService *service.AllocationAuditService
	RegionService          *service.RegionService
	DocumentService        *service.DocumentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 基于指定数据库连接装配仓库与服务
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ContactRepo = repository.NewContactRepository(db)
	c.VendorRepo = repository.NewVendorRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.DriverRepo = repository.NewDriverRepository(db)
	c.MissionRepo = repository.NewMissionRepository(db)
	c.CargoRepo = repository.NewCargoRepository(db)
	c.TruckRepo = repository.NewTruckRepository(db)
	c.AssignmentRepo = repository.NewAssignmentRepository(db)
	c.RegionRepo = repository.NewRegionRepository(db)
	c.DocumentRepo = repository.NewDocumentRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.ContactRepo)
	c.UserService = service.NewUserService(c.Config, c.UserRepo, c.VendorRepo, c.ContactRepo, c.AuthzService)
	c.VendorService = service.NewVendorService(c.VendorRepo, c.DocumentRepo)
	c.RegionService = service.NewRegionService(c.RegionRepo, c.VendorRepo)
	c.DocumentService = service.NewDocumentService(c.Config.Upload, c.DocumentRepo, c.VendorRepo)
	c.MissionService = service.NewMissionService(c.MissionRepo, c.VendorRepo, c.ProductRepo, c.CargoRepo)
	c.FleetService = service.NewFleetService(c.VendorRepo, c.ProductRepo, c.DriverRepo, c.TruckRepo)
	c.AllocationLedger = service.NewAllocationLedger(c.CargoRepo, c.AssignmentRepo)
	c.AssignmentService = service.NewAssignmentService(
		c.Config.Allocation,
		c.MissionRepo,
		c.CargoRepo,
		c.TruckRepo,
		c.DriverRepo,
		c.AssignmentRepo,
		c.AllocationLedger,
		c.QueueClient,
	)
	c.AllocationQueryService = service.NewAllocationQueryService(c.MissionRepo, c.CargoRepo, c.AssignmentRepo, c.AssignmentService)
	c.AllocationAuditService = service.NewAllocationAuditService(c.CargoRepo, c.AssignmentRepo)
}
