// Package command contains the migrate CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/course-api/course_api/internal/config"
	"github.com/course-api/course_api/internal/infra"
	"github.com/course-api/course_api/internal/logging"
)

// MigrateCommand instantiates the root migrate command with its
// sub-commands bound. The target database comes from DATABASE_URL.
func MigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate [command]",
		Short:        "Manage the course API database schema",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	cmd.AddCommand(
		upCommand(),
		downCommand(),
		statusCommand(),
	)
	return cmd
}

func upCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(m *infra.Migrator, logger *slog.Logger) error {
				applied, err := m.Up(cmd.Context())
				if err != nil {
					return err
				}
				logger.InfoContext(cmd.Context(), "migrations applied", slog.Int("count", applied))
				return nil
			})
		},
	}
}

func downCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(m *infra.Migrator, logger *slog.Logger) error {
				if err := m.Down(cmd.Context()); err != nil {
					return err
				}
				logger.InfoContext(cmd.Context(), "migration rolled back")
				return nil
			})
		},
	}
}

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether each is applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd.Context(), func(m *infra.Migrator, _ *slog.Logger) error {
				states, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tSTATE\tFILE")
				for _, s := range states {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, state, s.Path)
				}
				return w.Flush()
			})
		},
	}
}

func withMigrator(ctx context.Context, fn func(*infra.Migrator, *slog.Logger) error) (runErr error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.LogLevel)

	store, err := infra.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		runErr = errors.Join(runErr, store.Close())
	}()

	m, err := store.Migrator()
	if errors.Is(err, infra.ErrNoDatabase) {
		return errors.New("DATABASE_URL must point at postgres or sqlite to run migrations")
	}
	if err != nil {
		return err
	}
	defer func() {
		runErr = errors.Join(runErr, m.Close())
	}()

	return fn(m, logger)
}
