package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-bridge/internal/database/migration"
	"talent-bridge/internal/database/seeder"
	"talent-bridge/internal/infrastructure/cache"
	"talent-bridge/internal/pkg/jwt"
	"talent-bridge/internal/usecase"
	"talent-bridge/migrations"

	"github.com/spf13/cobra"
)

var errFlags = errors.New("invalid flags")

func errExactlyOne(a, b string) error {
	return fmt.Errorf("%w: exactly one of --%s or --%s is required", errFlags, a, b)
}

func newMigrateCmd(c *cli) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd, 5*time.Minute)
			defer cancel()

			db, err := c.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			r := migration.Runner{FS: migrations.FS, Dir: c.cfg.Database.MigrationsDir, Logger: c.log}
			out := cmd.OutOrStdout()

			if status {
				pending, err := r.Pending(ctx, db.SQLDB())
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintln(out, "no pending migrations")
					return nil
				}
				for _, m := range pending {
					fmt.Fprintf(out, "pending V%d %s\n", m.Version, m.Name)
				}
				return nil
			}

			n, err := r.Run(ctx, db.SQLDB())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "applied %d migration(s)\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "list pending migrations without applying them")
	return cmd
}

func newSeedCmd(c *cli) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the skill catalog and, optionally, a demo staffing scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd, 2*time.Minute)
			defer cancel()

			db, err := c.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			seeders := seeder.Defaults()
			if demo {
				seeders = seeder.WithDemo()
			}
			if err := (seeder.Runner{Seeders: seeders, Logger: c.log}).Run(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ran %d seeder(s)\n", len(seeders))
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "also seed a demo project with two employees")
	return cmd
}

func newTokenCmd(c *cli) *cobra.Command {
	var userID int64
	var role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for calling the matching API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID <= 0 {
				return fmt.Errorf("%w: --user must be positive", errFlags)
			}
			expires := c.cfg.JWT.AccessExpiresIn
			if ttl > 0 {
				expires = ttl
			}
			svc := jwt.NewHMACService(c.cfg.JWT.AccessSecret, expires)
			tok, err := svc.GenerateAccessToken(userID, strings.ToUpper(strings.TrimSpace(role)))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "user id placed in the token (required)")
	cmd.Flags().StringVarP(&role, "role", "r", "PM", "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default is jwt.access_expires_in)")
	requireFlags(cmd, "user")
	return cmd
}

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the match result cache",
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete every cached match result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd, time.Minute)
			defer cancel()

			rc := cache.NewRedis(ctx, c.cfg.Redis, c.cfg.Matching.ResultCacheTTL, c.log)
			defer rc.Close()

			if err := rc.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			n, err := rc.DeleteByPattern(ctx, usecase.ResultCachePattern)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d cached result set(s)\n", n)
			return nil
		},
	}

	cmd.AddCommand(purge)
	return cmd
}
