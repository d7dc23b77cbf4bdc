package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/secangkircinta/scug/internal/application/services"
	"github.com/secangkircinta/scug/internal/infrastructure/server"
	"github.com/secangkircinta/scug/internal/ports"
)

// Build information, set with -ldflags
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var runMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scug API server",
		Long:  "Start the scug API server with all configured routes, middleware and the orphan sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), runMigrations)
		},
	}

	cmd.Flags().BoolVar(&runMigrations, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "up", 0)
		},
	})

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd, "down", steps)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (0 rolls back everything)")
	migrateCmd.AddCommand(downCmd)

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMigrationVersion(cmd)
		},
	})

	return migrateCmd
}

// NewAdminCommand creates the admin management command
func NewAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin account commands",
		Long:  "Create accounts for the back-office",
	}

	var req ports.CreateAdminRequest
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("SCUG_ADMIN_PASSWORD")
			}
			return createAdmin(cmd, req)
		},
	}

	createCmd.Flags().StringVar(&req.Email, "email", "", "Admin email (required)")
	createCmd.Flags().StringVar(&req.Name, "name", "", "Admin display name")
	createCmd.Flags().StringVar(&req.Password, "password", "", "Admin password, defaults to $SCUG_ADMIN_PASSWORD")
	_ = createCmd.MarkFlagRequired("email")

	adminCmd.AddCommand(createCmd)
	return adminCmd
}

// NewStorageCommand creates the object storage maintenance command
func NewStorageCommand() *cobra.Command {
	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Object storage maintenance",
	}

	storageCmd.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Delete stored objects no record references",
		Long:  "Delete media, cover and report objects that no record references and that are older than the configured grace period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd)
		},
	})

	return storageCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print scug version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scug %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer(ctx context.Context, runMigrations bool) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	if runMigrations {
		if _, err := a.db.MigrateUp(); err != nil {
			return err
		}
	}

	srv := server.New(cfg, a.dependencies(), appLogger)

	if cfg.Sweeper.Enabled {
		sweeper := a.sweeper()
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	appLogger.Infow("Starting scug API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"database", cfg.Database.Driver,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	appLogger.Info("Server stopped")
	return nil
}

func runMigration(cmd *cobra.Command, direction string, steps int) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var changed bool
	switch direction {
	case "up":
		changed, err = db.MigrateUp()
	case "down":
		changed, err = db.MigrateDown(steps)
	}
	if err != nil {
		return err
	}

	if !changed {
		fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed successfully\n", direction)
	}
	return nil
}

func showMigrationVersion(cmd *cobra.Command) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := db.MigrationVersion()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Current migration version: %d\n", version)
	fmt.Fprintf(cmd.OutOrStdout(), "Dirty: %t\n", dirty)
	return nil
}

func createAdmin(cmd *cobra.Command, req ports.CreateAdminRequest) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	a, err := newApp(cmd.Context(), cfg, appLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	authService := services.NewAuthService(a.repos.Admins, cfg.JWT, appLogger)
	admin, err := authService.CreateAdmin(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Admin created successfully:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", admin.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "  Email: %s\n", admin.Email)
	if admin.Name != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  Name: %s\n", admin.Name)
	}
	return nil
}

func runSweep(cmd *cobra.Command) error {
	cfg, appLogger, err := bootstrap()
	if err != nil {
		return err
	}
	defer appLogger.Close()

	a, err := newApp(cmd.Context(), cfg, appLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.sweeper().Sweep(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanned: %d\nReferenced: %d\nDeleted: %d\nFailed: %d\n",
		report.Scanned, report.Referenced, report.Deleted, report.Failed)
	return nil
}
