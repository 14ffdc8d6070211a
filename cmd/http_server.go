package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/compliance-tracker/internal"
	"github.com/frahmantamala/compliance-tracker/internal/core/events"
	"github.com/frahmantamala/compliance-tracker/internal/directory"
	directoryPostgres "github.com/frahmantamala/compliance-tracker/internal/directory/postgres"
	"github.com/frahmantamala/compliance-tracker/internal/eligibility"
	"github.com/frahmantamala/compliance-tracker/internal/ledger"
	ledgerPostgres "github.com/frahmantamala/compliance-tracker/internal/ledger/postgres"
	"github.com/frahmantamala/compliance-tracker/internal/qualification"
	qualificationPostgres "github.com/frahmantamala/compliance-tracker/internal/qualification/postgres"
	"github.com/frahmantamala/compliance-tracker/internal/trainer"
	trainerPostgres "github.com/frahmantamala/compliance-tracker/internal/trainer/postgres"
	"github.com/frahmantamala/compliance-tracker/internal/training"
	trainingPostgres "github.com/frahmantamala/compliance-tracker/internal/training/postgres"
	"github.com/frahmantamala/compliance-tracker/internal/transport/rest"
	"github.com/frahmantamala/compliance-tracker/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Logger   *slog.Logger

	QualificationHandler *qualification.Handler
	TrainerHandler       *trainer.Handler
	LedgerHandler        *ledger.Handler
	TrainingHandler      *training.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.QualificationHandler,
		deps.TrainerHandler,
		deps.LedgerHandler,
		deps.TrainingHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	lg := logger.LoggerWrapper()
	eventBus := events.NewEventBus(lg)

	// Repositories
	qualificationRepo := qualificationPostgres.NewQualificationRepository(gormDB)
	trainerRepo := trainerPostgres.NewTrainerRepository(gormDB)
	directoryRepo := directoryPostgres.NewDirectoryRepository(gormDB)
	ledgerRepo := ledgerPostgres.NewLedgerRepository(gormDB)
	trainingRepo := trainingPostgres.NewTrainingRepository(gormDB)

	// Services
	directoryService := directory.NewService(directoryRepo, lg)
	trainerService := trainer.NewService(trainerRepo, directoryRepo, lg)
	qualificationService := qualification.NewService(qualificationRepo, trainerService, lg)
	resolver := eligibility.NewResolver(directoryService, directoryService, lg)
	rules := ledger.Rules{
		ExpiringWindowMonths: config.Compliance.ExpiringWindowMonths,
		GraceDays:            config.Compliance.GraceDays,
		NeverExpiresMonths:   config.Compliance.NeverExpiresMonths,
	}
	ledgerService := ledger.NewService(ledgerRepo, qualificationService, rules, lg)
	trainingService := training.NewService(
		trainingRepo,
		qualificationService,
		trainerService,
		resolver,
		ledgerService,
		eventBus,
		lg,
	)

	// The document subsystem publishes upload events; completion is driven
	// off the bus.
	trainingEventHandler := training.NewEventHandler(trainingService, lg)
	trainingEventHandler.RegisterEventHandlers(eventBus)

	return &Dependencies{
		Config:   config,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		EventBus: eventBus,
		Logger:   lg,

		QualificationHandler: qualification.NewHandler(qualificationService, resolver),
		TrainerHandler:       trainer.NewHandler(trainerService),
		LedgerHandler:        ledger.NewHandler(ledgerService),
		TrainingHandler:      training.NewHandler(trainingService),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}
