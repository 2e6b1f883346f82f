package main

import (
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/spf13/cobra"

	"library-catalog/config"
	"library-catalog/library"
	"library-catalog/server"
)

var (
	configPath string
	dbPath     string
	inMemory   bool
)

func main() {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Manage a library catalog of books, borrowers and loans",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShell,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "library.yaml", "path to a YAML config file")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (overrides config)")
	root.PersistentFlags().BoolVar(&inMemory, "memory", false, "keep the catalog in memory only")

	root.AddCommand(
		&cobra.Command{
			Use:   "shell",
			Short: "Interactive prompt (default)",
			RunE:  runShell,
		},
		&cobra.Command{
			Use:   "demo",
			Short: "Run the sample scenario against a fresh in-memory catalog",
			RunE:  runDemo,
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the catalog over HTTP",
			RunE:  runServe,
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.New(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DatabaseFilePath = dbPath
	}
	if inMemory {
		cfg.DatabaseFilePath = ""
	}
	return cfg, nil
}

// openManager wires the catalog to its SQLite store, if one is configured.
func openManager(cfg *config.Config, log logger.Logger) (*library.LibraryManager, error) {
	opts := library.ManagerOptions{
		DefaultLoanDays: cfg.DefaultLoanDays,
		Logger:          &log,
	}
	if cfg.DatabaseFilePath != "" {
		db, err := library.NewDatabase(cfg.DatabaseFilePath)
		if err != nil {
			return nil, err
		}
		opts.Store = db
	}

	mgr, err := library.NewLibraryManager(opts)
	if err != nil {
		if opts.Store != nil {
			opts.Store.Close()
		}
		return nil, err
	}
	return mgr, nil
}

// consoleLogger keeps routine info logs out of interactive output.
func consoleLogger(cfg *config.Config) logger.Logger {
	if cfg.LogLevel == "debug" {
		return logger.NewWithLevel("debug")
	}
	return logger.NewWithLevel("warn")
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mgr, err := openManager(cfg, consoleLogger(cfg))
	if err != nil {
		return err
	}
	defer mgr.Close()

	return newShell(mgr, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := consoleLogger(cfg)
	catalog := library.NewCatalog(library.CatalogOptions{
		DefaultLoanDays: cfg.DefaultLoanDays,
		Logger:          &log,
	})
	runSampleScenario(catalog, cmd.OutOrStdout())
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	log.Info("starting library", logger.Data{"database": cfg.DatabaseFilePath})

	mgr, err := openManager(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Err(err).Error("database close error")
		}
		log.Info("database closed")
	}()

	srv := server.New(cfg, mgr)

	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", srv.Addr)
	if err != nil {
		return errors.Wrap(err, "failed to bind port")
	}
	log.Info("server started", logger.Data{"addr": listener.Addr().String()})

	graceful := signals.Setup()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server stopped")
		}
		return nil
	case <-graceful:
	}

	log.Info("starting graceful shutdown")
	if err := srv.Shutdown(ctx); err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")
	return nil
}
