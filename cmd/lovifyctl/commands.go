package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	authsvc "github.com/slayerintech/Lovify/internal/services/auth"
	"github.com/slayerintech/Lovify/internal/services/seed"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		perGender int
		rate      float64
		randSeed  int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert dummy profiles of both genders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := seed.New(e.backend.Profiles, seed.Config{
				PerGender:       perGender,
				WritesPerSecond: rate,
				Seed:            randSeed,
			}, e.log).Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("seed after %d profiles: %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d profiles\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&perGender, "per-gender", 10, "profiles to create per gender")
	cmd.Flags().Float64Var(&rate, "rate", 0, "max writes per second, 0 for unpaced")
	cmd.Flags().Int64Var(&randSeed, "seed", 1, "random seed")
	return cmd
}

func newPurgeUserCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-user <user-id>",
		Short: "Delete a profile and every decision by or about the user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			svc, err := e.services(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := svc.Profiles.DeleteAccount(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %s, %d decisions removed\n", args[0], removed)
			return nil
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema for the configured storage driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.backend.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate %s: %w", e.backend.Driver, err)
			}
			e.log.Info("schema applied", zap.String("driver", e.backend.Driver))
			return nil
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer e.Close()

			auth := authsvc.NewService(authsvc.NewJWTManager(e.cfg.Auth.JWTSecret, e.cfg.Auth.JWTAccessTTL))
			token, expiresAt, err := auth.IssueAccessToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
}

func newReconcileCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run one pass over likes whose match status is unknown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := bootstrap(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer e.Close()

			svc, err := e.services(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := svc.Reconcile.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed=%d matched=%d requeued=%d dropped=%d\n",
				stats.Processed, stats.Matched, stats.Requeued, stats.Dropped)
			return nil
		},
	}
}
