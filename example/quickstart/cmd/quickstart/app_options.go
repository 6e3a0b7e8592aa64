package main

import (
	"context"

	"go.uber.org/fx"

	conn "github.com/tigerroll/riptide/pkg/conn"
	config "github.com/tigerroll/riptide/pkg/conn/config"
	factory "github.com/tigerroll/riptide/pkg/conn/factory"
	logger "github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

// GetApplicationOptions builds the uber-fx options for the quickstart
// application: the full riptide stack plus the demo invocation.
func GetApplicationOptions(appCtx context.Context, envFilePath string, embeddedConfig config.EmbeddedConfig) []fx.Option {
	var options []fx.Option

	options = append(options, fx.Supply(
		embeddedConfig,
		fx.Annotate(envFilePath, fx.ResultTags(`name:"envFilePath"`)),
		fx.Annotate(appCtx, fx.As(new(context.Context)), fx.ResultTags(`name:"appCtx"`)),
	))
	options = append(options, conn.Module)
	options = append(options, fx.Invoke(fx.Annotate(startDemo, fx.ParamTags("", "", "", `name:"appCtx"`))))

	return options
}

// startDemo obtains one connection from the default factory in each mode,
// pings it and releases it, then requests application shutdown.
func startDemo(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	provider *factory.FactoryProvider,
	appCtx context.Context,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Errorf("Failed to shutdown application: %v", err)
					}
				}()
				runDemo(appCtx, provider)
			}()
			return nil
		},
	})
}

func runDemo(ctx context.Context, provider *factory.FactoryProvider) {
	f, err := provider.Default()
	if err != nil {
		logger.Errorf("Failed to resolve default connection factory: %v", err)
		return
	}

	for _, mode := range []config.Mode{config.ModeSync, config.ModeAsync, config.ModePool} {
		handle, err := f.Obtain(ctx, mode)
		if err != nil {
			logger.Errorf("Failed to obtain %s connection: %v", mode, err)
			continue
		}

		dbConn, err := handle.Await(ctx)
		if err != nil {
			logger.Errorf("Failed to establish %s connection: %v", mode, err)
			continue
		}

		if err := dbConn.Ping(ctx); err != nil {
			logger.Errorf("Ping failed for %s connection %s: %v", mode, dbConn.ID(), err)
		} else {
			logger.Infof("%s connection %s is alive.", mode, dbConn.ID())
		}

		if err := dbConn.Close(ctx); err != nil {
			logger.Errorf("Failed to close %s connection %s: %v", mode, dbConn.ID(), err)
		}
	}
}
