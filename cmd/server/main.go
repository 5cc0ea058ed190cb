package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tasktracker/internal/config"
	apphttp "tasktracker/internal/http"
	"tasktracker/internal/repository/sqlite"
	"tasktracker/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the command line and reports any error that escaped a
// subcommand before its own logger was configured.
func run(args []string, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		logger := logrus.New()
		logger.SetOutput(stderr)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logger.WithError(err).Error("tasktracker exited")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tasktracker",
		Short:         "Multi-user task tracking web application",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context())
			},
		},
	)
	return root
}

func newLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func runMigrate(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := initSchema(ctx, db); err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Infof("schema ready at %s", cfg.Database.Path)
	return nil
}

func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := initSchema(ctx, db); err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Infof("using database %s", cfg.Database.Path)

	userService := service.NewUserService(sqlite.NewUserRepository(db))
	taskService := service.NewTaskService(sqlite.NewTaskRepository(db))
	sessionService, err := service.NewSessionService(sqlite.NewSessionRepository(db), service.SessionOptions{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
	})
	if err != nil {
		logger.Fatalf("setup sessions: %v", err)
	}

	if cfg.Development() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handler := apphttp.NewHandler(apphttp.Config{
		Users:        userService,
		Sessions:     sessionService,
		Tasks:        taskService,
		Logger:       logger,
		CookieName:   cfg.Session.CookieName,
		SecureCookie: cfg.Session.SecureCookie,
		Development:  cfg.Development(),
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
	return nil
}

// initSchema creates tables in dependency order.
func initSchema(ctx context.Context, db *sql.DB) error {
	if err := sqlite.NewUserRepository(db).Init(ctx); err != nil {
		return fmt.Errorf("init user repository: %w", err)
	}
	if err := sqlite.NewTaskRepository(db).Init(ctx); err != nil {
		return fmt.Errorf("init task repository: %w", err)
	}
	if err := sqlite.NewSessionRepository(db).Init(ctx); err != nil {
		return fmt.Errorf("init session repository: %w", err)
	}
	return nil
}
