package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hearing-clinic-service/internal/adapters"
	"hearing-clinic-service/internal/api/handlers"
	"hearing-clinic-service/internal/config"
	"hearing-clinic-service/internal/domain/entities"
	"hearing-clinic-service/internal/infrastructure/persistence/postgres"
	"hearing-clinic-service/internal/logger"
	"hearing-clinic-service/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "hearing-clinic-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting hearing-clinic-service")

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to open database connection", zap.Error(err))
	}
	defer sqlDB.Close()

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal("failed to initialize gorm", zap.Error(err))
	}

	if err := db.AutoMigrate(&entities.Patient{}); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	patientRepo := postgres.NewPatientRepository(db, log)
	dataSource := adapters.NewRedisDataSource(redisClient, log)
	queue := adapters.NewInMemoryQueueAdapter(log)

	patientService := services.NewPatientService(patientRepo, dataSource, dataSource, log)
	referralService := services.NewReferralService(patientRepo, queue, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := referralService.Start(ctx); err != nil {
		log.Fatal("failed to start referral service", zap.Error(err))
	}

	app := fiber.New()
	handlers.RegisterPatientRoutes(app, handlers.NewPatientHandler(patientService, log))
	handlers.RegisterReferralRoutes(app, handlers.NewReferralHandler(referralService, log))

	errChan := make(chan error, 1)
	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			errChan <- err
		}
	}()
	log.Info("http server listening", zap.Int("port", cfg.Server.Port))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("http server error", zap.Error(err))
	}

	if err := app.Shutdown(); err != nil {
		log.Error("error shutting down http server", zap.Error(err))
	}
	if err := referralService.Stop(ctx); err != nil {
		log.Error("error stopping referral service", zap.Error(err))
	}
	queue.Shutdown()

	log.Info("service stopped")
}
