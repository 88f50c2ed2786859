package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/accountbook-service/config"
	"github.com/fekuna/accountbook-service/internal/asset"
	"github.com/fekuna/accountbook-service/internal/auth"
	"github.com/fekuna/accountbook-service/internal/category"
	"github.com/fekuna/accountbook-service/internal/expense"
	"github.com/fekuna/accountbook-service/internal/finance"
	"github.com/fekuna/accountbook-service/internal/inventory"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/postgres"
	"github.com/fekuna/accountbook-service/internal/pkg/txn"
	"github.com/fekuna/accountbook-service/internal/product"
	"github.com/fekuna/accountbook-service/internal/purchase"
	"github.com/fekuna/accountbook-service/internal/report"
	"github.com/fekuna/accountbook-service/internal/sale"
	"github.com/fekuna/accountbook-service/internal/salesreturn"
	"github.com/fekuna/accountbook-service/internal/server"
	"github.com/fekuna/accountbook-service/internal/store/memory"

	assetH "github.com/fekuna/accountbook-service/internal/asset/handler"
	assetRepoPkg "github.com/fekuna/accountbook-service/internal/asset/repository"
	assetUCPkg "github.com/fekuna/accountbook-service/internal/asset/usecase"

	catH "github.com/fekuna/accountbook-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/accountbook-service/internal/category/repository"
	catUCPkg "github.com/fekuna/accountbook-service/internal/category/usecase"

	expH "github.com/fekuna/accountbook-service/internal/expense/handler"
	expRepoPkg "github.com/fekuna/accountbook-service/internal/expense/repository"
	expUCPkg "github.com/fekuna/accountbook-service/internal/expense/usecase"

	importH "github.com/fekuna/accountbook-service/internal/importer/handler"
	importUCPkg "github.com/fekuna/accountbook-service/internal/importer/usecase"

	invH "github.com/fekuna/accountbook-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/accountbook-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/accountbook-service/internal/inventory/usecase"

	prodH "github.com/fekuna/accountbook-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/accountbook-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/accountbook-service/internal/product/usecase"

	purchaseH "github.com/fekuna/accountbook-service/internal/purchase/handler"
	purchaseRepoPkg "github.com/fekuna/accountbook-service/internal/purchase/repository"
	purchaseUCPkg "github.com/fekuna/accountbook-service/internal/purchase/usecase"

	reportH "github.com/fekuna/accountbook-service/internal/report/handler"
	reportRepoPkg "github.com/fekuna/accountbook-service/internal/report/repository"
	reportUCPkg "github.com/fekuna/accountbook-service/internal/report/usecase"

	saleH "github.com/fekuna/accountbook-service/internal/sale/handler"
	saleListenerPkg "github.com/fekuna/accountbook-service/internal/sale/listener"
	saleRepoPkg "github.com/fekuna/accountbook-service/internal/sale/repository"
	saleUCPkg "github.com/fekuna/accountbook-service/internal/sale/usecase"

	returnH "github.com/fekuna/accountbook-service/internal/salesreturn/handler"
	returnRepoPkg "github.com/fekuna/accountbook-service/internal/salesreturn/repository"
	returnUCPkg "github.com/fekuna/accountbook-service/internal/salesreturn/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// repositories is one storage backend's implementation of every repository.
type repositories struct {
	tx         txn.Transactor
	products   product.Repository
	inventory  inventory.Repository
	purchases  purchase.Repository
	sales      sale.Repository
	returns    salesreturn.Repository
	assets     asset.Repository
	expenses   expense.Repository
	categories category.Repository
	reports    report.Repository
	close      func() error
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	} else {
		logConfig.Encoding = "json"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	// 3. Connect to the store
	repos, err := openStore(cfg)
	if err != nil {
		appLogger.Fatal("Could not open store", zap.String("driver", cfg.Server.StoreDriver), zap.Error(err))
	}
	defer repos.close()
	appLogger.Info("Store ready", zap.String("driver", cfg.Server.StoreDriver))

	// 4. Initialize Redis
	var (
		locker     = cache.NopLocker()
		cacheStore = cache.NopStore()
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker, cacheStore = redisClient, redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Kafka
	publisher := broker.NopPublisher()
	var orderConsumer *broker.KafkaConsumer
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.TopicStock,
		})
		defer producer.Close()
		publisher = producer

		orderConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.TopicOrders,
			GroupID: cfg.Kafka.GroupID,
		})
		defer orderConsumer.Close()
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("orders_topic", cfg.Kafka.TopicOrders), zap.String("stock_topic", cfg.Kafka.TopicStock))
	}

	// 6. Initialize UseCases
	calendar := finance.NewFYCalendar(cfg.Books.FYStartMonth)
	reportTTL := time.Duration(cfg.Books.ReportCacheTTLSeconds) * time.Second

	invUC := invUCPkg.NewInventoryUseCase(repos.inventory, repos.tx, locker, publisher, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(repos.products, invUC, appLogger)
	purchaseUC := purchaseUCPkg.NewPurchaseUseCase(repos.purchases, invUC, calendar, cacheStore, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(repos.sales, invUC, calendar, cacheStore, appLogger)
	returnUC := returnUCPkg.NewReturnUseCase(repos.returns, repos.sales, invUC, calendar, cacheStore, appLogger)
	assetUC := assetUCPkg.NewAssetUseCase(repos.assets, cacheStore, appLogger)
	expUC := expUCPkg.NewExpenseUseCase(repos.expenses, calendar, cacheStore, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(repos.categories, appLogger)
	reportUC := reportUCPkg.NewReportUseCase(repos.reports, assetUC, calendar, cacheStore, reportTTL, appLogger)
	importUC := importUCPkg.NewImportUseCase(purchaseUC, saleUC, assetUC, cfg.Books.ImportMaxRows, appLogger)

	// 7. Start Listeners
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if orderConsumer != nil {
		orderListener := saleListenerPkg.NewOrderListener(orderConsumer, saleUC, appLogger)
		go orderListener.Start(ctx)
	}

	// 8. Initialize Handlers
	verifier := auth.NewTokenVerifier(cfg.JWT.SecretKey, cfg.JWT.Issuer)
	router, err := server.NewRouter(server.Config{
		AppEnv:         cfg.Server.AppEnv,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, verifier, appLogger,
		prodH.NewProductHandler(prodUC, appLogger),
		invH.NewInventoryHandler(invUC, appLogger),
		purchaseH.NewPurchaseHandler(purchaseUC, appLogger),
		saleH.NewSaleHandler(saleUC, appLogger),
		returnH.NewReturnHandler(returnUC, appLogger),
		assetH.NewAssetHandler(assetUC, appLogger),
		expH.NewExpenseHandler(expUC, appLogger),
		catH.NewCategoryHandler(catUC, appLogger),
		reportH.NewReportHandler(reportUC, calendar, appLogger),
		importH.NewImportHandler(importUC, appLogger),
	)
	if err != nil {
		appLogger.Fatal("Could not build router", zap.Error(err))
	}

	// 9. Start HTTP Server
	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 10. Start gRPC health server
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func openStore(cfg *config.Config) (*repositories, error) {
	if cfg.Server.StoreDriver == "memory" {
		s := memory.NewStore()
		return &repositories{
			tx:         s,
			products:   memory.NewProductRepository(s),
			inventory:  memory.NewInventoryRepository(s),
			purchases:  memory.NewPurchaseRepository(s),
			sales:      memory.NewSaleRepository(s),
			returns:    memory.NewReturnRepository(s),
			assets:     memory.NewAssetRepository(s),
			expenses:   memory.NewExpenseRepository(s),
			categories: memory.NewCategoryRepository(s),
			reports:    memory.NewReportRepository(s),
			close:      func() error { return nil },
		}, nil
	}

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &repositories{
		tx:         postgres.NewTxManager(db),
		products:   prodRepoPkg.NewPGRepository(db),
		inventory:  invRepoPkg.NewPGRepository(db),
		purchases:  purchaseRepoPkg.NewPGRepository(db),
		sales:      saleRepoPkg.NewPGRepository(db),
		returns:    returnRepoPkg.NewPGRepository(db),
		assets:     assetRepoPkg.NewPGRepository(db),
		expenses:   expRepoPkg.NewPGRepository(db),
		categories: catRepoPkg.NewPGRepository(db),
		reports:    reportRepoPkg.NewPGRepository(db),
		close:      db.Close,
	}, nil
}

func listenAddr(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
