package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viant/lexvec/engine"
	"github.com/viant/lexvec/feature"
	"github.com/viant/lexvec/internal/config"
	"github.com/viant/lexvec/internal/logging"
	"github.com/viant/lexvec/internal/metrics"
	"github.com/viant/lexvec/lexicon"
	"github.com/viant/lexvec/vector"
)

var rootCmd = &cobra.Command{
	Use:           "lexvec",
	Short:         "Lexical feature vector store: classify tagged words, encode them and query the lexicon.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is not an error.
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.String(config.KeyDriver, config.DriverSQLite, `store driver, "sqlite" or "bolt"`)
	flags.String(config.KeyDSN, "lexvec.db", "SQLite DSN or bbolt file path")
	flags.String(config.KeyFeatureTable, "", "YAML feature table (default: built-in table)")
	flags.Int(config.KeyCacheSize, lexicon.DefaultCacheSize, "record cache size, 0 disables the cache")
	flags.Bool(config.KeyAtomicBatch, false, "ingest batches all-or-nothing")
	flags.Bool(config.KeyChangeLog, false, "record writes in the change log (sqlite only)")
	flags.String(config.KeyLogLevel, "info", "log level: debug, info, warn, error")
	flags.String(config.KeyLogFormat, "text", `log format, "text" or "json"`)
	flags.String(config.KeyMetricsFile, "", "write metrics in the Prometheus text format to this file after the command")

	for _, key := range []string{
		config.KeyDriver, config.KeyDSN, config.KeyFeatureTable, config.KeyCacheSize,
		config.KeyAtomicBatch, config.KeyChangeLog, config.KeyLogLevel, config.KeyLogFormat,
		config.KeyMetricsFile,
	} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		addCmd(),
		ingestCmd(),
		getCmd(),
		findCmd(),
		searchCmd(),
		gistCmd(),
		exportCmd(),
		importCmd(),
		statsCmd(),
		featuresCmd(),
		changesCmd(),
	)
}

// app holds the opened lexicon for one command invocation.
type app struct {
	cfg     *config.Config
	svc     *lexicon.Service
	db      *sql.DB
	logger  *logging.Logger
	metrics *metrics.Recorder
}

func (a *app) Close() error {
	err := a.svc.Store().Close()
	if a.db != nil {
		if cerr := a.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	logger, err := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger = logger.WithStore(cfg.Driver)

	table, err := loadTable(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, metrics: metrics.New(metrics.DefaultConfig())}
	var store vector.Store
	switch cfg.Driver {
	case config.DriverBolt:
		if store, err = vector.OpenBoltStore(cfg.DSN, table.Dimension()); err != nil {
			return nil, errors.Wrapf(err, "open bolt store %s", cfg.DSN)
		}
	default:
		if a.db, err = engine.Open(cfg.DSN); err != nil {
			return nil, errors.Wrapf(err, "open sqlite %s", cfg.DSN)
		}
		var opts []vector.Option
		if cfg.ChangeLog {
			opts = append(opts, vector.WithChangeLog(""))
		}
		if store, err = vector.NewSQLiteStore(ctx, a.db, table.Dimension(), opts...); err != nil {
			_ = a.db.Close()
			return nil, errors.Wrapf(err, "open sqlite store %s", cfg.DSN)
		}
	}

	a.svc, err = lexicon.New(store, table,
		lexicon.WithLogger(logger),
		lexicon.WithMetrics(a.metrics),
		lexicon.WithCacheSize(cfg.CacheSize),
		lexicon.WithAtomicBatch(cfg.AtomicBatch),
	)
	if err != nil {
		_ = store.Close()
		if a.db != nil {
			_ = a.db.Close()
		}
		return nil, err
	}
	return a, nil
}

// loadTable returns the configured feature table, or the built-in one.
func loadTable(cfg *config.Config) (*feature.Table, error) {
	if cfg.FeatureTable == "" {
		return feature.Default(), nil
	}
	table, err := feature.LoadYAML(cfg.FeatureTable)
	if err != nil {
		return nil, errors.Wrapf(err, "load feature table %s", cfg.FeatureTable)
	}
	return table, nil
}

// withApp opens the lexicon, runs fn and closes it. When a metrics file is
// configured it is written after fn, whether or not fn succeeded.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			a.logger.Error("close failed", "error", cerr)
		}
		if a.cfg.MetricsFile == "" {
			return
		}
		if werr := a.metrics.WriteFile(a.cfg.MetricsFile); werr != nil && err == nil {
			err = errors.Wrapf(werr, "write metrics %s", a.cfg.MetricsFile)
		}
	}()
	return fn(ctx, a)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lexvec:", err)
		os.Exit(1)
	}
}
