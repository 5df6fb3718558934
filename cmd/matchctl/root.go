package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"talent-bridge/internal/config"
	"talent-bridge/internal/database/sqldb"
	"talent-bridge/internal/infrastructure/cache"
	"talent-bridge/internal/logger"
	"talent-bridge/internal/repository"
	"talent-bridge/internal/usecase"

	"github.com/spf13/cobra"
)

const app = "matchctl"

type cli struct {
	cfgFile  string
	debug    bool
	jsonLogs bool

	loadConfig func(path string) (config.Config, error)

	cfg config.Config
	log logger.Logger
}

func defaultCLI() *cli {
	return &cli{loadConfig: config.LoadFrom}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           app,
		Short:         app + " runs TalentBridge candidate matching from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "a config file (default is configs/config.yaml or ./config.yaml)")
	root.PersistentFlags().BoolVarP(&c.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&c.jsonLogs, "json", "j", false, "json format for logging")

	root.AddCommand(
		newRunCmd(c),
		newScoreCmd(c),
		newShowCmd(c),
		newMigrateCmd(c),
		newSeedCmd(c),
		newTokenCmd(c),
		newCacheCmd(c),
	)
	return root
}

func (c *cli) init() error {
	cfg, err := c.loadConfig(c.cfgFile)
	if err != nil {
		return err
	}

	level, format := cfg.Logging.Level, cfg.Logging.Format
	if c.debug {
		level = "debug"
	}
	if c.jsonLogs {
		format = "json"
	}
	log, err := logger.New(level, format)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	c.cfg = cfg
	c.log = log.WithFields(map[string]interface{}{"app": app})
	return nil
}

func (c *cli) openDB(ctx context.Context) (*sqldb.DB, error) {
	db, err := sqldb.Open(ctx, c.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// matching wires the usecase over a database/sql connection. Cache problems
// are logged and bypassed; there is no notifier outside the server.
func (c *cli) matching(ctx context.Context) (usecase.MatchingUsecase, func(), error) {
	db, err := c.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	rc := cache.NewRedis(ctx, c.cfg.Redis, c.cfg.Matching.ResultCacheTTL, c.log)

	uc := usecase.NewMatchingUsecase(usecase.MatchingDeps{
		Projects:     repository.NewPostgresProjectRepository(db),
		Users:        repository.NewPostgresUserRepository(db),
		Requirements: repository.NewPostgresRequirementRepository(db),
		Skills:       repository.NewPostgresEmployeeSkillRepository(db),
		Assignments:  repository.NewPostgresAssignmentRepository(db),
		Availability: repository.NewPostgresAvailabilityRepository(db),
		Matches:      repository.NewPostgresMatchRepository(db),
		Cache:        rc,
		Logger:       c.log,
	}, usecase.MatchingOptions{
		Workers:        c.cfg.Matching.Workers,
		ResultCacheTTL: c.cfg.Matching.ResultCacheTTL,
	})

	cleanup := func() {
		if err := rc.Close(); err != nil {
			c.log.Warn("close cache", map[string]interface{}{"error": err})
		}
		if err := db.Close(); err != nil {
			c.log.Warn("close database", map[string]interface{}{"error": err})
		}
	}
	return uc, cleanup, nil
}

func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func requireFlags(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		if err := cmd.MarkFlagRequired(n); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", n, err))
		}
	}
}
