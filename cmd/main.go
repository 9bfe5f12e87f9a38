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

	_ "eventlog/docs"
	"eventlog/internal/handlers"
	"eventlog/internal/logger"
	"eventlog/internal/repository"
	"eventlog/internal/repository/db"
	"eventlog/internal/server"
	"eventlog/internal/service"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "eventlog",
		Short:        "Query a directory of event logs",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the logs and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	queryCmd := &cobra.Command{
		Use:     "query <query>",
		Short:   "Run one query and print one value per line",
		Example: `  eventlog query 'get ip for user = "Amigo"'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
		},
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the SQLite archive with the records of the log directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	root.AddCommand(serveCmd, queryCmd, importCmd)
	return root
}

// app holds what every command needs.
type app struct {
	log      *logger.Logger
	db       *sql.DB
	services *service.Service
}

func newApp(cfg config) (*app, error) {
	log := logger.Get(cfg.Log.Level)

	conn, err := openDB(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}

	repos := repository.NewRepository(conn)
	return &app{
		log:      log,
		db:       conn,
		services: service.NewService(repos, cfg.serviceConfig(), log),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
	_ = a.log.Sync()
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		path = "app.db"
	}
	return db.InitDB(path)
}

func runServe(ctx context.Context, cfg config) error {
	if cfg.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required to serve (set EVENTLOG_AUTH_SIGNING_KEY)")
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A failed first load keeps the server up; queries answer 503 until a reload succeeds.
	if st, err := a.services.Reload(ctx); err != nil {
		a.log.Errorw("initial_load_failed", "err", err)
	} else {
		a.log.Infow("initial_load_completed", "source", st.Source, "records", st.Records)
	}

	go a.services.Refresher.Run(ctx, cfg.Logs.ReloadInterval)

	srv := server.New(cfg.Port, handlers.NewHandler(a.services, a.log).InitRoutes())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()
	a.log.Infow("server_started", "addr", srv.Addr())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Infow("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func runQuery(ctx context.Context, cfg config, q string, out io.Writer) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.services.Reload(ctx); err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	set, err := a.services.Execute(ctx, q)
	if err != nil {
		return err
	}
	for _, v := range set.Strings() {
		if _, err := fmt.Fprintln(out, v); err != nil {
			return err
		}
	}
	return nil
}

func runImport(ctx context.Context, cfg config, out io.Writer) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := a.services.Import(ctx)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	_, err = fmt.Fprintf(out, "imported %d records from %d files (%d lines skipped)\n", st.Records, st.Files, st.SkippedLines)
	return err
}
