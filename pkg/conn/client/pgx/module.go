package pgx

import (
	"go.uber.org/fx"

	"github.com/tigerroll/riptide/pkg/conn/client"
)

// Module exports the pgx client for dependency injection.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewClient,
		fx.As(new(client.Client)),
	)),
)
