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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"rssz/cache"
	"rssz/config"
	"rssz/db"
	_ "rssz/docs" // Swagger docs
	"rssz/handlers"
	"rssz/orchestrator"
	"rssz/query"
	"rssz/render"
	"rssz/service"
)

const (
	shutdownTimeout = 10 * time.Second
	cliSession      = "cli"
)

var cfgFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rssz",
		Short: "Search the Czech school registry stored in Fuseki",
		Long: `rssz queries the RSSZ school registry held in an Apache Jena Fuseki dataset.

It serves a search page that renders results as tables, a JSON API over the
same searches, and a raw SPARQL proxy. The query command runs a search from
the terminal.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultConfigFile+")")
	flags.String("port", "", "HTTP listen port")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("db-path", "", "badger directory for query history")
	flags.String("results-dir", "", "directory for exported results")
	flags.String("fuseki-url", "", "SPARQL query endpoint of the Fuseki dataset")

	root.AddCommand(newServeCmd(), newQueryCmd(), newHistoryCmd())
	return root
}

// app holds the components shared by all commands.
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	db           *db.DB
	fuseki       *service.FusekiClient
	displays     *cache.DisplayStore
	orchestrator *orchestrator.Orchestrator
}

// historyMode says whether a command can run without the history store.
type historyMode int

const (
	historyRequired historyMode = iota
	// historyOptional skips recording when a running server holds the store.
	historyOptional
)

func newApp(cmd *cobra.Command, mode historyMode) (*app, error) {
	cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	database, err := db.New(cfg.DBPath)
	switch {
	case errors.Is(err, db.ErrLocked) && mode == historyOptional:
		logger.Warn("History database is in use, query will not be recorded", zap.String("db_path", cfg.DBPath))
		database = nil
	case errors.Is(err, db.ErrLocked):
		return nil, fmt.Errorf("history database %s is in use by a running server: %w", cfg.DBPath, err)
	case err != nil:
		return nil, err
	}

	fuseki, err := service.NewFusekiClient(cfg.Fuseki, logger)
	if err != nil {
		if database != nil {
			database.Close()
		}
		return nil, err
	}

	displays := cache.NewDisplayStore(cfg.Session.IdleTTL)
	executor := service.NewQueryExecutor(fuseki, logger)

	// A nil *db.DB must not reach the orchestrator as a non-nil interface.
	var history orchestrator.HistoryRecorder
	if database != nil {
		history = database
	}

	return &app{
		cfg:          cfg,
		logger:       logger,
		db:           database,
		fuseki:       fuseki,
		displays:     displays,
		orchestrator: orchestrator.New(executor, displays, history, logger),
	}, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, historyRequired)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	results, err := service.NewResultsStorage(a.cfg.ResultsDir)
	if err != nil {
		return err
	}

	if !a.cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handlers.New(a.orchestrator, a.fuseki, a.db, results, a.logger)
	router := handlers.NewRouter(h, handlers.RouterOptions{
		Sessions: handlers.NewSessionStore(a.cfg.Session.Secret),
		Limiter:  rate.NewLimiter(rate.Limit(a.cfg.Proxy.RatePerSecond), a.cfg.Proxy.Burst),
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Server starting",
			zap.String("port", a.cfg.Port),
			zap.String("fuseki", a.fuseki.Endpoint()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <kind> [term]",
		Short: "Run a search and print the result table",
		Long:  "Run one of the fixed searches. Kinds: " + kindList(),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := query.ParseKind(args[0])
			if err != nil {
				return err
			}
			var term string
			if len(args) > 1 {
				term = args[1]
			}

			a, err := newApp(cmd, historyOptional)
			if err != nil {
				return err
			}
			defer a.Close()

			display, err := a.orchestrator.Search(cmd.Context(), cliSession, kind, term)
			if err != nil {
				return err
			}
			return render.Terminal(cmd.OutOrStdout(), display)
		},
	}
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, historyRequired)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.db.GetQueryHistory(limit)
			if err != nil {
				return err
			}
			render.HistoryTable(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	return cmd
}

func kindList() string {
	var s string
	for i, info := range query.Catalog() {
		if i > 0 {
			s += ", "
		}
		s += info.Kind
	}
	return s
}
