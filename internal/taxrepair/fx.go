package taxrepair

import (
	"github.com/sielsystems/acumulus/internal/taxrepair/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxrepair",
	fx.Provide(service.NewEngine),
)
