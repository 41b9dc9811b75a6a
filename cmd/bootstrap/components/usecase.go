package components

import (
	"edu-vouchers/internal/pkg/clock"
	"edu-vouchers/internal/pkg/config"
	"edu-vouchers/internal/usecase"
	"edu-vouchers/internal/usecase/commands"
	"edu-vouchers/internal/usecase/queries"
	"edu-vouchers/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewVoucherCommands,
		NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewVoucherQueries,
		queries.NewPaymentQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewPaymentCommands(uow shared.UnitOfWork, gateway commands.PaymentGateway, clk clock.Clock, cfg config.Config) commands.PaymentCommands {
	return commands.NewPaymentCommands(uow, gateway, clk, cfg.Voucher.MaxQuantityPerPurchase)
}
