package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/tenant-management/internal/audit"
	auditPostgres "github.com/frahmantamala/tenant-management/internal/audit/postgres"
	"github.com/frahmantamala/tenant-management/internal/core/events"
	"github.com/frahmantamala/tenant-management/internal/email"
	"github.com/frahmantamala/tenant-management/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers: scheduled maintenance jobs and the notification event worker.`,
}

var maintenanceWorkerCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Start the maintenance scheduler",
	Long:  `Run scheduled maintenance jobs such as the audit log duplicate sweep.`,
	Run: func(cmd *cobra.Command, args []string) {
		startMaintenanceWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start the notification event worker",
	Long:  `Run the event bus with the email notifier subscribed, for deployments that offload notification delivery.`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	sweepSchedule string
	sweepWindow   time.Duration
)

func startMaintenanceWorker() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithLevel(os.Getenv("APP_ENV"), cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	sqlDB, err := initDB(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init db: %v\n", err)
		os.Exit(1)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init orm: %v\n", err)
		os.Exit(1)
	}

	sweeper := audit.NewSweeper(auditPostgres.NewAuditRepository(db), lg, sweepWindow)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(sweepSchedule, func() {
		removed, err := sweeper.Sweep(time.Now())
		if err != nil {
			lg.Error("audit sweep failed", "error", err)
			return
		}
		lg.Info("audit sweep completed", "removed", removed)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid sweep schedule %q: %v\n", sweepSchedule, err)
		os.Exit(1)
	}

	scheduler.Start()
	lg.Info("maintenance worker started", "sweep_schedule", sweepSchedule, "sweep_window", sweepWindow)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	lg.Info("received signal, shutting down maintenance worker", "signal", sig)

	ctx := scheduler.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		lg.Warn("scheduler stop timeout reached, forcing exit")
	}

	if err := sqlDB.Close(); err != nil {
		lg.Error("database close error", "error", err)
	}
	lg.Info("maintenance worker stopped")
}

func startEventWorker() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithLevel(os.Getenv("APP_ENV"), cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	mailer := email.NewMailer(cfg.Mailer, cfg.Server.BaseURL, lg)
	email.NewNotifier(mailer, lg).Register(bus)

	lg.Info("event worker started, waiting for events")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	lg.Info("received signal, shutting down event worker", "signal", sig)

	done := make(chan struct{})
	go func() {
		bus.Drain()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		lg.Warn("drain timeout reached, forcing exit")
	}

	lg.Info("event worker stopped")
}

func init() {
	maintenanceWorkerCmd.Flags().StringVar(&sweepSchedule, "sweep-schedule", "@hourly", "cron schedule for the audit duplicate sweep")
	maintenanceWorkerCmd.Flags().DurationVar(&sweepWindow, "sweep-window", 24*time.Hour, "how far back the audit sweep scans")

	workerCmd.AddCommand(maintenanceWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
