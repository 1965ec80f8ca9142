package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/pose-backend/internal/config"
	"github.com/AdamBeresnev/pose-backend/internal/db"
	"github.com/AdamBeresnev/pose-backend/internal/logger"
	"github.com/AdamBeresnev/pose-backend/internal/oauth"
	"github.com/AdamBeresnev/pose-backend/internal/service"
	"github.com/AdamBeresnev/pose-backend/internal/store"
	"github.com/AdamBeresnev/pose-backend/internal/token"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:           "pose-backend",
	Short:         "Google login and user API for the pose frontend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().Bool("down", false, "Roll back the most recent migration instead")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	database, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	down, _ := cmd.Flags().GetBool("down")
	if down {
		if err := db.RollbackMigration(database.DB); err != nil {
			return err
		}
		logger.Info("rolled back one migration")
		return nil
	}
	if err := db.RunMigrations(database.DB); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	database, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()
	logger.Info("database connected")

	if err := db.RunMigrations(database.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	tokens, err := token.NewCodec([]byte(cfg.JWTSecret), cfg.TokenTTL(), token.WithAlgorithm(cfg.JWTAlgorithm))
	if err != nil {
		return err
	}

	oauth.UseCookieStore(oauth.StoreOptions{Secret: []byte(cfg.JWTSecret), Secure: cfg.CookieSecure})
	app := &application{
		cfg: cfg,
		auth: oauth.NewGoogle(oauth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURI:  cfg.Google.RedirectURI,
			Timeout:      cfg.OAuthTimeout,
		}),
		users:  service.NewUserService(store.NewUserStore(database)),
		tokens: tokens,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("name", cfg.ProjectName),
			zap.String("version", cfg.Version),
			zap.String("addr", cfg.HTTPAddr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
