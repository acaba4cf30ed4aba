package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shop/internal/auth"
	"shop/internal/config"
	"shop/internal/handler"
	"shop/internal/infra/cache"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/logger"
	"shop/internal/metrics"
	"shop/internal/repository"
	"shop/internal/server"
	"shop/internal/storage"
	"shop/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// ロガー未初期化
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.InitLogger(logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Environment,
		ServiceName: cfg.Server.ServiceName,
	})
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	log.Info("starting api",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	// DB
	gdb, err := db.Connect(cfg.Database, cfg.Server.Environment, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()
	if err := db.Migrate(gdb, log); err != nil {
		return err
	}

	// カテゴリツリーのキャッシュ（REDIS_URLが無ければ無効）
	var treeCache repository.CategoryTreeCache = cache.NopCategoryTreeCache{}
	if cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn("redis unavailable, category cache disabled", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			treeCache = cache.NewRedisCategoryTreeCache(client, cfg.Redis.CategoryCacheTTL)
			log.Info("category cache enabled")
		}
	}

	// metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	shopMetrics := metrics.NewShopMetrics(reg)

	// repositories
	userRepo := infraRepo.NewUserGormRepository(gdb)
	adminRepo := infraRepo.NewAdminGormRepository(gdb)
	addressRepo := infraRepo.NewAddressGormRepository(gdb)
	categoryRepo := infraRepo.NewCategoryGormRepository(gdb)
	productRepo := infraRepo.NewProductGormRepository(gdb)
	imageRepo := infraRepo.NewProductImageGormRepository(gdb)
	cartRepo := infraRepo.NewCartItemGormRepository(gdb)
	orderRepo := infraRepo.NewOrderGormRepository(gdb)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gdb)
	auditRepo := infraRepo.NewAuditLogGormRepository(gdb)
	txManager := infraRepo.NewTxManagerGorm(gdb)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireDays)
	hasher := usecase.NewBcryptPasswordHasher(0)
	verifier := usecase.NewBcryptPasswordVerifier()
	clock := usecase.SystemClock{}
	store := storage.NewLocalImageStore(cfg.Media.Root, cfg.Media.URL)

	// usecases
	userUC := usecase.NewUserUsecase(userRepo, hasher, verifier, tokens, clock)
	adminAuthUC := usecase.NewAdminAuthUsecase(adminRepo, hasher, verifier, tokens, clock)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo, auditRepo, treeCache, clock)
	productUC := usecase.NewProductUsecase(txManager, productRepo, imageRepo, categoryRepo, orderItemRepo, auditRepo, store, cfg.Paging, clock)
	imageUC := usecase.NewProductImageUsecase(productRepo, imageRepo, store, cfg.Media.MaxImageBytes(), shopMetrics, clock)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, shopMetrics)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, shopMetrics, clock, cfg.Paging)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, orderRepo, orderItemRepo, cfg.Paging, clock)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	// 初期管理者
	if cfg.Admin.Username != "" {
		if err := adminAuthUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			return err
		}
	}

	e := server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		Registry: reg,
		Shop:     shopMetrics,
		Tokens:   tokens,
		Users:    userRepo,
		Admins:   adminRepo,
		Handlers: server.Handlers{
			System:       handler.NewSystemHandler(cfg.Server),
			User:         handler.NewUserHandler(userUC),
			Address:      handler.NewAddressHandler(addressUC),
			Catalog:      handler.NewCatalogHandler(categoryUC, productUC),
			Cart:         handler.NewCartHandler(cartUC),
			Order:        handler.NewOrderHandler(orderUC),
			AdminAuth:    handler.NewAdminAuthHandler(adminAuthUC),
			AdminCatalog: handler.NewAdminCatalogHandler(categoryUC, productUC, imageUC, cfg.Media.MaxImageBytes()),
			AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC, auditUC),
		},
	})

	return server.Run(ctx, e, ":"+cfg.Server.Port, log)
}
