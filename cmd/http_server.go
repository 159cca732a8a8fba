package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/shopfloor-tasks/api"
	"github.com/frahmantamala/shopfloor-tasks/internal"
	"github.com/frahmantamala/shopfloor-tasks/internal/activity"
	activityPostgres "github.com/frahmantamala/shopfloor-tasks/internal/activity/postgres"
	"github.com/frahmantamala/shopfloor-tasks/internal/auth"
	"github.com/frahmantamala/shopfloor-tasks/internal/core/events"
	"github.com/frahmantamala/shopfloor-tasks/internal/spreadsheet"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport/middleware"
	"github.com/frahmantamala/shopfloor-tasks/internal/transport/rest"
	"github.com/frahmantamala/shopfloor-tasks/internal/user"
	userSheets "github.com/frahmantamala/shopfloor-tasks/internal/user/sheets"
	"github.com/frahmantamala/shopfloor-tasks/internal/workorder"
	workorderSheets "github.com/frahmantamala/shopfloor-tasks/internal/workorder/sheets"
	"github.com/frahmantamala/shopfloor-tasks/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
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
	Sheets   *spreadsheet.Client
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
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
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let in-flight activity writes land before the pool closes
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Error("Event handlers did not finish", "error", err)
		}
		if deps.DB != nil {
			if err := deps.DB.Close(); err != nil {
				deps.Logger.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	baseHandler := transport.NewBaseHandler(lg)

	loc, err := cfg.Sheets.Location()
	if err != nil {
		return err
	}

	// Session tokens are issued and verified only when a signing secret is configured.
	var tokens auth.TokenGenerator
	var validator middleware.TokenValidator
	if cfg.Security.JWTSecret != "" {
		jwtTokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
		tokens, validator = jwtTokens, jwtTokens
	}

	userRepo := userSheets.NewUserRepository(deps.Sheets, cfg.Sheets.UsersSheet, lg)
	userService := user.NewService(userRepo, tokens, lg)

	orderRepo := workorderSheets.NewWorkOrderRepository(deps.Sheets, cfg.Sheets.OrdersSheet, lg)
	orderService := workorder.NewService(orderRepo, deps.EventBus, lg, workorder.WithLocation(loc))

	var activityRepo activity.RepositoryAPI
	if deps.Gorm != nil {
		activityRepo = activityPostgres.NewActivityRepository(deps.Gorm)
	}
	activityService := activity.NewService(activityRepo, lg)
	activityService.Register(deps.EventBus)

	components := map[string]rest.Pinger{
		"spreadsheet": rest.PingFunc(deps.Sheets.Ping),
		"database":    nil,
	}
	if deps.DB != nil {
		components["database"] = deps.DB
	}

	routes := rest.Routes{
		Health:         rest.NewHealthHandler(baseHandler, components),
		User:           user.NewHandler(baseHandler, userService),
		WorkOrder:      workorder.NewHandler(baseHandler, orderService),
		Activity:       activity.NewHandler(baseHandler, activityService),
		RoleGate:       middleware.NewRoleGate(validator, cfg.Security.TrustRoleHeader, lg),
		AllowedOrigins: cfg.Server.Origins(),
	}

	if cfg.Server.ValidateRequests {
		doc, err := middleware.LoadOpenAPI(context.Background(), api.OpenAPI)
		if err != nil {
			return err
		}
		if routes.Validator, err = middleware.NewOpenAPIValidator(doc, lg); err != nil {
			return err
		}
	}

	rest.RegisterAllRoutes(deps.Router, routes, lg)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadCommandConfig((*internal.Config).Validate)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	sheetsClient, err := spreadsheet.NewClient(context.Background(), spreadsheet.Config{
		SpreadsheetID:   config.Sheets.SpreadsheetID,
		CredentialsJSON: config.Sheets.CredentialsJSON,
		RequestTimeout:  config.Sheets.RequestTimeout,
	}, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize spreadsheet client: %w", err)
	}

	deps := &Dependencies{
		Config:   config,
		Sheets:   sheetsClient,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
		Logger:   lg,
	}

	if !config.Database.Enabled() {
		lg.Warn("no database configured, task activity will not be recorded")
		return deps, nil
	}

	if deps.DB, err = initDB(config.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if deps.Gorm, err = initGorm(deps.DB, config.Database.Driver, lg); err != nil {
		_ = deps.DB.Close()
		return nil, err
	}

	return deps, nil
}
