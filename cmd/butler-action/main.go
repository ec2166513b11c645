// Command butler-action is the entry point of the butler GitHub Action.
//
// Inputs are read from the INPUT_* environment variables set by the runner.
// For local runs they can be placed in a .env file in the working directory.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/input-output-hk/catalyst-forge-libs/butler/action"
	"github.com/input-output-hk/catalyst-forge-libs/butler/butler"
	"github.com/input-output-hk/catalyst-forge-libs/butler/ghactions"
	"github.com/input-output-hk/catalyst-forge-libs/butler/secrets"
	"github.com/input-output-hk/catalyst-forge-libs/butler/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(ghactions.NewHandler(os.Stdout, nil))
	workflow := ghactions.NewWorkflow()

	fetcher := source.NewMux()
	httpFetcher := source.NewHTTP(source.WithHTTPLogger(logger))
	fetcher.Handle("http", httpFetcher)
	fetcher.Handle("https", httpFetcher)
	fetcher.Handle("s3", source.NewS3(source.WithS3Logger(logger)))

	err := action.Run(ctx, action.Deps{
		Inputs:   ghactions.NewInputs(),
		Reporter: workflow,
		Outputs:  workflow,
		Logger:   logger,
		Secrets:  secrets.NewSecretsManager(secrets.WithManagerLogger(logger)),
		Butler:   []butler.Option{butler.WithFetcher(fetcher)},
	})
	if err != nil {
		logger.Error(err.Error())
		return 1
	}
	return 0
}
