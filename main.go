package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	app "github.com/rocketscienceinc/blackwhite-backend/internal"
	"github.com/rocketscienceinc/blackwhite-backend/internal/config"
)

// main - is the entry point of the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cmd := &cli.Command{
		Name:  "blackwhite",
		Usage: "Black & White tile game backend",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API and the websocket push endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Value:   "config.yml",
						Usage:   "path to the YAML configuration",
						Sources: cli.EnvVars("CONFIG_PATH"),
					},
				},
				Action: serve,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	conf := config.MustLoad(cmd.String("config"))
	logger := initLogger(conf)

	return app.RunApp(ctx, logger, conf)
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
