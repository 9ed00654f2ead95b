package components

import (
	"go.uber.org/fx"

	"subshare-bot/internal/pkg/clock"
	"subshare-bot/internal/usecase/commands"
	"subshare-bot/internal/usecase/queries"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewCatalogCommands,
		commands.NewSlotCommands,
		commands.NewSubscriptionCommands,
		commands.NewReaper,
		queries.NewQueries,
	),
)
