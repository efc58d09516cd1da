// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/vaultcode/vaultcode/cmd/app/commands"
	"github.com/vaultcode/vaultcode/internal/app"
	"github.com/vaultcode/vaultcode/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "vaultcode",
		Usage:   "Ephemeral encrypted secret vault",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					logger := app.NewContainer(cfg).Logger()
					return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "clean-expired-secrets",
				Usage: "Delete secrets whose expiry time has passed",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report the number of expired secrets without deleting them",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCleanExpiredSecrets(ctx, cmd.Bool("dry-run"), cmd.String("format"))
				},
			},
			{
				Name:  "generate-key",
				Usage: "Generate a content encryption key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kms-key-uri",
						Usage: "Wrap the generated key with this KMS key (e.g. gcpkms://..., base64key://...)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateKey(ctx, cmd.String("kms-key-uri"), os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
