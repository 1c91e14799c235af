package provider

import (
	"time"

	"github.com/desbrava-pizza/internal/authz"
	"github.com/desbrava-pizza/internal/cache"
	"github.com/desbrava-pizza/internal/config"
	"github.com/desbrava-pizza/internal/logger"
	"github.com/desbrava-pizza/internal/models"
	"github.com/desbrava-pizza/internal/queue"
	"github.com/desbrava-pizza/internal/repository"
	"github.com/desbrava-pizza/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	OrderRepo        repository.OrderRepository
	RetrievalRepo    repository.RetrievalRepository
	CampaignRepo     repository.CampaignRepository
	ItemRepo         repository.ItemRepository
	CampaignItemRepo repository.CampaignItemRepository
	ClubRepo         repository.ClubRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	CaptchaService      *service.CaptchaService
	DeliveryService     *service.DeliveryService
	OrderStatusService  *service.OrderStatusService
	RetrievalService    *service.RetrievalService
	ReportService       *service.ReportService
	ItemService         *service.ItemService
	CampaignItemService *service.CampaignItemService
	FlavorService       *service.FlavorService
	ClubService         *service.ClubService
	PublicOrderService  *service.PublicOrderService
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

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.RetrievalRepo = repository.NewRetrievalRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.ItemRepo = repository.NewItemRepository(db)
	c.CampaignItemRepo = repository.NewCampaignItemRepository(db)
	c.ClubRepo = repository.NewClubRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.ClubService = service.NewClubService(c.ClubRepo, c.Config.Club)
	c.ReportService = service.NewReportService(c.OrderRepo, c.CampaignRepo, c.Config.Report)
	c.DeliveryService = service.NewDeliveryService(c.OrderRepo, c.RetrievalRepo, c.CampaignRepo)
	c.OrderStatusService = service.NewOrderStatusService(c.OrderRepo, c.DeliveryService)
	c.RetrievalService = service.NewRetrievalService(service.RetrievalServiceOptions{
		Delivery:      c.DeliveryService,
		RetrievalRepo: c.RetrievalRepo,
		Recalculator:  c.OrderStatusService,
		QueueClient:   c.QueueClient,
		Reports:       c.ReportService,
		LockTTL:       time.Duration(c.Config.Delivery.LockTTLSeconds) * time.Second,
	})
	c.ItemService = service.NewItemService(c.ItemRepo)
	c.CampaignItemService = service.NewCampaignItemService(c.CampaignRepo, c.ItemRepo, c.CampaignItemRepo)
	c.FlavorService = service.NewFlavorService(c.CampaignRepo, c.ItemRepo, c.CampaignItemRepo)
	c.PublicOrderService = service.NewPublicOrderService(service.PublicOrderServiceOptions{
		CampaignRepo: c.CampaignRepo,
		LinkRepo:     c.CampaignItemRepo,
		OrderRepo:    c.OrderRepo,
		ClubService:  c.ClubService,
		Reports:      c.ReportService,
		Config:       c.Config.PublicOrder,
	})
}
