// Package conn aggregates the riptide modules into one Fx option for
// applications that want the whole stack: configuration loading, logging,
// the shipped database clients, metrics fallbacks and the factory provider.
package conn

import (
	"go.uber.org/fx"

	"github.com/tigerroll/riptide/pkg/conn/client/drivers"
	"github.com/tigerroll/riptide/pkg/conn/config"
	"github.com/tigerroll/riptide/pkg/conn/factory"
	"github.com/tigerroll/riptide/pkg/conn/metrics"
	"github.com/tigerroll/riptide/pkg/conn/support/util/logger"
)

// Module wires every riptide component into the application graph.
var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	drivers.Module,
	factory.Module,
)
