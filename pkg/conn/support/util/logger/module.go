package logger

import "go.uber.org/fx"

// Module is an Fx module that provides an fx.Logger adapter.
var Module = fx.Options(
	fx.WithLogger(NewFxLoggerAdapter),
)
