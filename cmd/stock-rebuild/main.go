package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fekuna/accountbook-service/config"
	"github.com/fekuna/accountbook-service/internal/inventory/dto"
	invRepoPkg "github.com/fekuna/accountbook-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/accountbook-service/internal/inventory/usecase"
	"github.com/fekuna/accountbook-service/internal/pkg/broker"
	"github.com/fekuna/accountbook-service/internal/pkg/cache"
	"github.com/fekuna/accountbook-service/internal/pkg/logger"
	"github.com/fekuna/accountbook-service/internal/pkg/postgres"
	"github.com/joho/godotenv"
)

// errDryRun rolls the rebuild back after the audits were collected.
var errDryRun = errors.New("dry run")

func main() {
	ownerID := flag.String("owner-id", "", "Required: owner (user) id whose stock is rebuilt")
	dryRun := flag.Bool("dry-run", true, "Report drift only (no writes)")
	timeout := flag.Duration("timeout", 5*time.Minute, "Give up after this long")
	flag.Parse()

	if strings.TrimSpace(*ownerID) == "" {
		fmt.Fprintln(os.Stderr, "--owner-id is required")
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := config.LoadEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		Encoding:          "console",
		Level:             cfg.Logger.Level,
		DisableStacktrace: true,
	})
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	locker := cache.NopLocker()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "redis: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		locker = redisClient
	}

	tx := postgres.NewTxManager(db)
	uc := invUCPkg.NewInventoryUseCase(invRepoPkg.NewPGRepository(db), tx, locker, broker.NopPublisher(), appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var audits []dto.StockAudit
	err = tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		audits, err = uc.RebuildStock(ctx, *ownerID)
		if err != nil {
			return err
		}
		if *dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		fmt.Fprintf(os.Stderr, "rebuild failed: %v\n", err)
		os.Exit(1)
	}

	for _, a := range audits {
		fmt.Printf("%-40s recorded=%d expected=%d (opening=%d in=%d out=%d)\n",
			a.ProductName, a.RecordedStock, a.ExpectedStock, a.OpeningStock, a.TotalIn, a.TotalOut)
	}
	switch {
	case len(audits) == 0:
		fmt.Println("stock matches the movement log")
	case *dryRun:
		fmt.Printf("%d product(s) drifted; rerun with -dry-run=false to fix\n", len(audits))
	default:
		fmt.Printf("%d product(s) rebuilt\n", len(audits))
	}
}
