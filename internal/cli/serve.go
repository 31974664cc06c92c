package cli

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

	"github.com/qikao/ordering/internal/config"
	"github.com/qikao/ordering/internal/httpapi"
	"github.com/qikao/ordering/internal/menu"
	"github.com/qikao/ordering/internal/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the ordering HTTP server",
		Long: `Start the Qikao ordering server.

Configuration comes from the environment (a .env file is merged in
when present): QIKAO_ADDR, QIKAO_STORE (memory|sqlite|redis),
QIKAO_SQLITE_PATH, QIKAO_REDIS_ADDR, QIKAO_SESSION_TTL,
QIKAO_MENU_PATH and QIKAO_LOG_LEVEL.

Example:
  qikao serve
  QIKAO_STORE=sqlite QIKAO_SQLITE_PATH=/tmp/qikao.db qikao serve --addr :9090`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides QIKAO_ADDR)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	log := cfg.NewLogger()

	catalog, err := loadCatalog(cfg.MenuPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load menu", err)
	}
	log.Info("menu loaded", "items", catalog.Len(), "currency", catalog.Currency().String())

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open session store", err)
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil {
			log.Error("error closing session store", "error", closeErr)
		}
	}()
	log.Info("session store ready", "kind", cfg.StoreKind)

	sessions := httpapi.NewSessions(catalog, backend, log)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(sessions)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info("received signal, shutting down", "signal", sig.String())
		case <-ctx.Done():
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("server starting", "addr", cfg.Addr)
	fmt.Fprintf(cmd.OutOrStdout(), "Qikao ordering server listening on %s\n", cfg.Addr)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapExitError(ExitFailure, "server error", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadCatalog returns the built-in catalog unless a YAML path is set.
func loadCatalog(path string) (*menu.Catalog, error) {
	if path == "" {
		return menu.Default(), nil
	}
	return menu.LoadFile(path)
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreKind {
	case config.StoreMemory:
		return store.NewMemory(), nil
	case config.StoreSQLite:
		return store.OpenSQLite(cfg.SQLitePath)
	case config.StoreRedis:
		return store.NewRedis(ctx, cfg.RedisAddr, cfg.SessionTTL)
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.StoreKind)
	}
}
