package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "embed"

	"go.uber.org/fx"

	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

// embeddedConfig holds the application's YAML configuration file.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

func main() {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warnf("Received signal %v. Shutting down.", sig)
		cancel()
	}()

	envFilePath := os.Getenv("RIPTIDE_ENV_FILE")

	app := fx.New(GetApplicationOptions(appCtx, envFilePath, embeddedConfig)...)
	app.Run()
}
