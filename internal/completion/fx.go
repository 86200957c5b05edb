package completion

import (
	"github.com/sielsystems/acumulus/internal/completion/service"
	"go.uber.org/fx"
)

var Module = fx.Module("completion",
	fx.Provide(service.NewPipeline),
)
