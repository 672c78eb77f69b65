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

	"github.com/frahmantamala/tenant-management/internal"
	"github.com/frahmantamala/tenant-management/internal/audit"
	auditPostgres "github.com/frahmantamala/tenant-management/internal/audit/postgres"
	"github.com/frahmantamala/tenant-management/internal/auth"
	authPostgres "github.com/frahmantamala/tenant-management/internal/auth/postgres"
	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/email"
	"github.com/frahmantamala/tenant-management/internal/invitation"
	invitationPostgres "github.com/frahmantamala/tenant-management/internal/invitation/postgres"
	"github.com/frahmantamala/tenant-management/internal/organization"
	organizationPostgres "github.com/frahmantamala/tenant-management/internal/organization/postgres"
	"github.com/frahmantamala/tenant-management/internal/orgtype"
	orgtypePostgres "github.com/frahmantamala/tenant-management/internal/orgtype/postgres"
	"github.com/frahmantamala/tenant-management/internal/platform"
	platformPostgres "github.com/frahmantamala/tenant-management/internal/platform/postgres"
	"github.com/frahmantamala/tenant-management/internal/transport"
	"github.com/frahmantamala/tenant-management/internal/transport/rest"
	"github.com/frahmantamala/tenant-management/internal/transport/swagger"
	"github.com/frahmantamala/tenant-management/internal/user"
	userPostgres "github.com/frahmantamala/tenant-management/internal/user/postgres"
	"github.com/frahmantamala/tenant-management/pkg/logger"

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
	Bus      *events.EventBus
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		// let in-flight notification handlers finish before the DB goes away
		deps.Bus.Drain()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithLevel(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		return nil, fmt.Errorf("openapi spec validation failed: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(lg)
	mailer := email.NewMailer(config.Mailer, config.Server.BaseURL, lg)
	email.NewNotifier(mailer, lg).Register(bus)

	recorder := audit.NewRecorder(auditPostgres.NewAuditRepository(gormDB), lg)
	baseHandler := transport.NewBaseHandler(lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(
		authPostgres.NewRepository(gormDB),
		tokenGen,
		bus,
		lg,
		config.Security.BCryptCost,
		config.Security.ResetTokenTTL(),
	)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, bus, recorder, lg, config.Security.BCryptCost, config.Security.VerifyTokenTTL())

	platformService := platform.NewService(platformPostgres.NewPlatformRepository(gormDB), recorder, lg)

	orgTypeRepo := orgtypePostgres.NewOrgTypeRepository(gormDB)
	orgTypeService := orgtype.NewService(orgTypeRepo, recorder, lg)

	orgService := organization.NewService(
		organizationPostgres.NewOrganizationRepository(gormDB),
		orgTypeService,
		orgTypeRepo,
		userRepo,
		bus,
		recorder,
		lg,
		config.Security.ResetTokenTTL(),
	)

	invitationService := invitation.NewService(
		invitationPostgres.NewInvitationRepository(gormDB),
		userRepo,
		bus,
		recorder,
		lg,
		config.Security.BCryptCost,
		config.Invitation.UserTTL(),
		config.Invitation.OrgTTL(),
	)

	return &Dependencies{
		Config: config,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
		Bus:    bus,
		Logger: lg,
		Handlers: rest.Handlers{
			Auth:         auth.NewHandler(authService),
			User:         user.NewHandler(baseHandler, userService),
			Platform:     platform.NewHandler(baseHandler, platformService),
			Organization: organization.NewHandler(baseHandler, orgService),
			OrgType:      orgtype.NewHandler(baseHandler, orgTypeService),
			Invitation:   invitation.NewHandler(baseHandler, invitationService),
			Audit:        audit.NewHandler(baseHandler, recorder),
		},
	}, nil
}

// initDB opens the shared pgx-backed connection pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
