package drivers

import (
	"go.uber.org/fx"

	// Blank imports so every shipped client registers itself.
	_ "github.com/tigerroll/riptide/pkg/conn/client/gorm/mysql"
	_ "github.com/tigerroll/riptide/pkg/conn/client/gorm/postgres"
	_ "github.com/tigerroll/riptide/pkg/conn/client/gorm/sqlite"
	_ "github.com/tigerroll/riptide/pkg/conn/client/pgx"
)

// Module provides the blank imports for the shipped database clients.
// Including it in the application graph makes every driver available
// through the client registry.
var Module = fx.Options()
