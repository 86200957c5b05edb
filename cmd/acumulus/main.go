package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/sielsystems/acumulus/internal/clock"
	"github.com/sielsystems/acumulus/internal/completion"
	"github.com/sielsystems/acumulus/internal/config"
	"github.com/sielsystems/acumulus/internal/logger"
	"github.com/sielsystems/acumulus/internal/observability"
	"github.com/sielsystems/acumulus/internal/server"
	"github.com/sielsystems/acumulus/internal/taxrepair"
	"github.com/sielsystems/acumulus/internal/vatrate"
	"github.com/sielsystems/acumulus/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		vatrate.Module,
		taxrepair.Module,
		completion.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
