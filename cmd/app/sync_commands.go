package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/bkjonathan/sine-shin/cmd/app/commands"
	"github.com/bkjonathan/sine-shin/internal/app"
	"github.com/bkjonathan/sine-shin/internal/config"
)

func getSyncCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "sync",
			Usage: "Run one sync session against the remote now",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				runner, err := container.Runner()
				if err != nil {
					return err
				}

				return commands.RunSync(
					ctx,
					runner,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "sync-status",
			Usage: "Show outbox entry counts grouped by delivery status",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				admin, err := container.AdminUseCase()
				if err != nil {
					return err
				}

				return commands.RunSyncStatus(
					ctx,
					admin,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "sync-sessions",
			Usage: "List recent sync sessions, newest first",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   20,
					Usage:   "Maximum number of sessions to list",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				admin, err := container.AdminUseCase()
				if err != nil {
					return err
				}

				return commands.RunSyncSessions(
					ctx,
					admin,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "sync-queue",
			Usage: "List outbox entries, newest first",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "status",
					Aliases: []string{"s"},
					Usage:   "Filter by status: pending, syncing, synced, failed",
				},
				&cli.IntFlag{
					Name:    "limit",
					Aliases: []string{"l"},
					Value:   20,
					Usage:   "Maximum number of entries to list",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				admin, err := container.AdminUseCase()
				if err != nil {
					return err
				}

				return commands.RunSyncQueue(
					ctx,
					admin,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("status"),
					int(cmd.Int("limit")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "retry-failed",
			Usage: "Requeue every failed outbox entry with a fresh retry budget",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				admin, err := container.AdminUseCase()
				if err != nil {
					return err
				}

				return commands.RunRetryFailed(ctx, admin, container.Logger(), commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "clear-synced",
			Usage: "Remove delivered outbox entries",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "days",
					Aliases: []string{"d"},
					Usage:   "only remove entries delivered more than this many days ago (0 removes all)",
					Value:   0,
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				admin, err := container.AdminUseCase()
				if err != nil {
					return err
				}

				return commands.RunClearSynced(ctx, admin, container.Logger(), commands.DefaultIO().Writer, int(cmd.Int("days")))
			},
		},
		{
			Name:  "clean-history",
			Usage: "Remove delivered outbox entries and finished sync sessions",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				admin, err := container.AdminUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanHistory(ctx, admin, container.Logger(), commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "save-config",
			Usage: "Save the remote endpoint configuration",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "endpoint-url",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Remote REST endpoint base URL",
				},
				&cli.StringFlag{
					Name:     "anon-key",
					Required: true,
					Usage:    "Anonymous API key used for connection tests",
				},
				&cli.StringFlag{
					Name:     "service-key",
					Required: true,
					Usage:    "Service API key used for data pushes",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				configUseCase, err := container.ConfigUseCase()
				if err != nil {
					return err
				}

				return commands.RunSaveConfig(
					ctx,
					configUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("endpoint-url"),
					cmd.String("anon-key"),
					cmd.String("service-key"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "show-config",
			Usage: "Show the active remote configuration with masked keys",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				configUseCase, err := container.ConfigUseCase()
				if err != nil {
					return err
				}

				return commands.RunShowConfig(
					ctx,
					configUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "test-connection",
			Usage: "Test connectivity and schema of the configured remote",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				configUseCase, err := container.ConfigUseCase()
				if err != nil {
					return err
				}

				return commands.RunTestConnection(
					ctx,
					configUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "set-interval",
			Usage: "Change the background sync cadence",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "seconds",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Sync interval in seconds (minimum 5)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				configUseCase, err := container.ConfigUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetInterval(
					ctx,
					configUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("seconds")),
				)
			},
		},
		{
			Name:  "set-sync-enabled",
			Usage: "Enable or disable background synchronization",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "enabled",
					Aliases: []string{"e"},
					Value:   true,
					Usage:   "Whether the background dispatcher should sync",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				configUseCase, err := container.ConfigUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetSyncEnabled(
					ctx,
					configUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Bool("enabled"),
				)
			},
		},
		{
			Name:  "resync",
			Usage: "Drop undelivered entries and re-enqueue every live row",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "master-secret",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Master secret gating destructive sync operations",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				resyncUseCase, err := container.ResyncUseCase()
				if err != nil {
					return err
				}

				return commands.RunResync(
					ctx,
					resyncUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("master-secret"),
				)
			},
		},
		{
			Name:  "rotate-credentials",
			Usage: "Swap the remote credentials and queue a full resync",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "master-secret",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Master secret gating destructive sync operations",
				},
				&cli.StringFlag{
					Name:     "endpoint-url",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Remote REST endpoint base URL",
				},
				&cli.StringFlag{
					Name:     "anon-key",
					Required: true,
					Usage:    "Anonymous API key used for connection tests",
				},
				&cli.StringFlag{
					Name:     "service-key",
					Required: true,
					Usage:    "Service API key used for data pushes",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				resyncUseCase, err := container.ResyncUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateCredentials(
					ctx,
					resyncUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("master-secret"),
					cmd.String("endpoint-url"),
					cmd.String("anon-key"),
					cmd.String("service-key"),
				)
			},
		},
	}
}
