package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/vnshop/storefront/internal/app"
	"github.com/vnshop/storefront/internal/config"
	"github.com/vnshop/storefront/internal/observability"
	apperrors "github.com/vnshop/storefront/pkg/util/errorutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCLI := cli.NewApp()
	appCLI.Name = "storefront"
	appCLI.Usage = "Storefront console client"
	appCLI.Commands = commands(ctx)

	if err := appCLI.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}

// withApp loads configuration, assembles the client and runs fn against it.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger, "stderr")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMessage(msg, fallback string) {
	if msg == "" {
		msg = fallback
	}
	fmt.Println(msg)
}

func describe(err error) string {
	if domainErr := apperrors.ToDomainError(err); domainErr != nil && domainErr.Code != apperrors.CodeInternal {
		return fmt.Sprintf("%s: %s", domainErr.Code, domainErr.Message)
	}
	return err.Error()
}
