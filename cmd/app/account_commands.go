package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/bkjonathan/sine-shin/cmd/app/commands"
	"github.com/bkjonathan/sine-shin/internal/app"
	"github.com/bkjonathan/sine-shin/internal/config"
)

func getAccountCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register-owner",
			Usage: "Create the shop owner account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Owner display name",
				},
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Login password (8-128 characters)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunRegisterOwner(
					ctx,
					accountUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("password"),
				)
			},
		},
		{
			Name:  "set-master-secret",
			Usage: "Configure the master secret gating destructive sync operations",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "password",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "Owner login password for re-authentication",
				},
				&cli.StringFlag{
					Name:     "master-secret",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Master secret (minimum 8 characters)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunSetMasterSecret(
					ctx,
					accountUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("password"),
					cmd.String("master-secret"),
				)
			},
		},
		{
			Name:  "verify-master-secret",
			Usage: "Check a master secret against the stored hash",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "master-secret",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Master secret to verify",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				accountUseCase, err := container.AccountUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyMasterSecret(
					ctx,
					accountUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("master-secret"),
				)
			},
		},
	}
}
