package provider

import (
	"github.com/laundry-pos/internal/authz"
	"github.com/laundry-pos/internal/cache"
	"github.com/laundry-pos/internal/config"
	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/queue"
	"github.com/laundry-pos/internal/repository"
	"github.com/laundry-pos/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	OrderRepo         repository.OrderRepository
	PaymentRepo       repository.PaymentRepository
	OrderSequenceRepo repository.OrderSequenceRepository
	OrderEventRepo    repository.OrderEventRepository
	ReportRepo        repository.ReportRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository

	// Services
	AuthzService      *authz.Service
	AuthzAuditService *service.AuthzAuditService
	OrderEventService *service.OrderEventService
	OrderService      *service.OrderService
	ReportService     *service.ReportService
}

// NewContainer 初始化容器，使用全局数据库连接
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，失败时退化为同步写审计
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	return NewContainerWithDB(cfg, models.DB, queueClient)
}

// NewContainerWithDB 使用指定数据库连接初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.OrderSequenceRepo = repository.NewOrderSequenceRepository(db)
	c.OrderEventRepo = repository.NewOrderEventRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
}

func (c *Container) initServices() {
	if c.Config.Security.RBACEnabled {
		authzService, err := authz.NewService(c.DB)
		if err != nil {
			logger.Errorw("provider_init_authz_failed", "error", err)
			panic(err)
		}
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
			panic(err)
		}
		c.AuthzService = authzService
		c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)
	}

	ledger := c.Config.Ledger
	c.OrderEventService = service.NewOrderEventService(c.OrderEventRepo, c.OrderRepo, c.QueueClient)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.PaymentRepo,
		c.OrderSequenceRepo,
		c.OrderEventService,
		service.OrderServiceOptions{
			CodePrefix:    ledger.CodePrefix,
			CodeWidth:     ledger.CodeWidth,
			CreateRetries: ledger.CreateRetries,
		},
	)
	c.ReportService = service.NewReportService(c.ReportRepo, c.OrderRepo)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
