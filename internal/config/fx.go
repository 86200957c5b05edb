package config

import "go.uber.org/fx"

// Module wires bootstrap config and the completion settings holder.
var Module = fx.Module("config",
	fx.Provide(
		Load,
		NewSettingsHolder,
	),
)
