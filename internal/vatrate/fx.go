package vatrate

import (
	"context"

	"github.com/sielsystems/acumulus/internal/vatrate/domain"
	"github.com/sielsystems/acumulus/internal/vatrate/repository"
	"github.com/sielsystems/acumulus/internal/vatrate/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("vatrate",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewProvider),
	fx.Invoke(migrate),
)

func migrate(lc fx.Lifecycle, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return db.WithContext(ctx).AutoMigrate(&domain.VatRate{})
		},
	})
}
