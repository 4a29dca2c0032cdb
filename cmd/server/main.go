package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/config"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/middleware"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/entity"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/handler"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/repository"
	"github.com/pinn-product-builder/erp-retifica-formiguense-sub000/internal/procurement/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// .env 仅本地开发使用
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting procurement service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := autoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	// 依赖装配
	repos := repository.NewRepositories(db)

	supplierSvc := service.NewSupplierService(repos.Supplier, repos.ActivityLog)
	quotationSvc := service.NewQuotationService(repos.Quotation, repos.Proposal, repos.Supplier, repos.ActivityLog, zapLogger)
	quotationSvc.SetAllowReopen(cfg.Quotation.AllowReopen)
	comparisonSvc := service.NewComparisonService(repos.Quotation, repos.Proposal, repos.Supplier, repos.ActivityLog, db)
	orderSvc := service.NewOrderService(repos.Quotation, repos.PO, repos.Supplier, repos.ActivityLog, db, zapLogger)
	negotiationSvc := service.NewNegotiationService(repos.Negotiation, repos.Quotation, repos.Supplier, zapLogger)
	draftSvc := service.NewDraftService(rdb, quotationSvc)
	dashboardSvc := service.NewDashboardService(db)
	exportSvc := service.NewExportService(comparisonSvc)

	handlers := handler.NewHandlers(supplierSvc, quotationSvc, comparisonSvc, orderSvc, negotiationSvc, draftSvc, dashboardSvc, exportSvc)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Supplier{},
		&entity.SupplierContact{},
		&entity.Quotation{},
		&entity.QuotationItem{},
		&entity.QuotationProposal{},
		&entity.NegotiationRound{},
		&entity.PurchaseOrder{},
		&entity.POItem{},
		&entity.ActivityLog{},
	)
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1/procurement")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 供应商
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", h.Supplier.ListSuppliers)
			suppliers.POST("", h.Supplier.CreateSupplier)
			suppliers.GET("/:id", h.Supplier.GetSupplier)
			suppliers.PUT("/:id", h.Supplier.UpdateSupplier)
			suppliers.POST("/:id/contacts", h.Supplier.AddContact)
			suppliers.DELETE("/:id/contacts/:contactId", h.Supplier.RemoveContact)
		}

		// 询价单
		quotations := v1.Group("/quotations")
		{
			quotations.GET("", h.Quotation.ListQuotations)
			quotations.POST("", h.Quotation.CreateQuotation)
			quotations.GET("/:id", h.Quotation.GetQuotation)
			quotations.PUT("/:id", h.Quotation.UpdateQuotation)
			quotations.POST("/:id/status", h.Quotation.ChangeStatus)
			quotations.POST("/:id/reopen", h.Quotation.ReopenQuotation)
			quotations.GET("/:id/activities", h.Quotation.ListActivities)

			// 行项与报价
			quotations.POST("/:id/items", h.Quotation.AddItem)
			quotations.PUT("/:id/items/:itemId", h.Quotation.UpdateItem)
			quotations.DELETE("/:id/items/:itemId", h.Quotation.DeleteItem)
			quotations.POST("/:id/items/:itemId/proposals", h.Quotation.RegisterProposal)
			quotations.DELETE("/:id/items/:itemId/proposals/:proposalId", h.Quotation.RetractProposal)

			// 比价与中标
			quotations.GET("/:id/comparison", h.Comparison.GetComparison)
			quotations.GET("/:id/comparison/export", h.Comparison.ExportComparison)
			quotations.POST("/:id/items/:itemId/select", h.Comparison.SelectProposal)

			// 生成采购订单
			quotations.POST("/:id/generate-orders", h.Order.GenerateOrders)
		}

		// 询价单草稿
		draft := v1.Group("/quotation-draft")
		{
			draft.GET("", h.Draft.GetDraft)
			draft.PUT("", h.Draft.SaveDraft)
			draft.DELETE("", h.Draft.DiscardDraft)
			draft.POST("/commit", h.Draft.CommitDraft)
		}

		// 采购订单
		orders := v1.Group("/orders")
		{
			orders.GET("", h.Order.ListOrders)
			orders.GET("/:id", h.Order.GetOrder)
			orders.POST("/:id/send", h.Order.MarkSent)
			orders.POST("/:id/receive", h.Order.MarkReceived)
			orders.POST("/:id/cancel", h.Order.CancelOrder)
		}

		// 议价记录
		negotiations := v1.Group("/negotiations")
		{
			negotiations.GET("", h.Negotiation.ListRounds)
			negotiations.POST("", h.Negotiation.CreateRound)
		}

		// 看板
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/overview", h.Dashboard.GetOverview)
			dashboard.GET("/suppliers/:id", h.Dashboard.GetSupplierPerformance)
		}
	}
}
