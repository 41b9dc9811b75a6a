package bootstrap

import (
	"edu-vouchers/internal/infra/gateway"
	"edu-vouchers/internal/pkg/config"
	"edu-vouchers/internal/usecase/commands"

	"go.uber.org/fx"
)

var StripeModule = fx.Module("stripe",
	fx.Provide(
		NewStripeGateway,
	),
)

func NewStripeGateway(cfg config.Config) commands.PaymentGateway {
	return gateway.NewStripeGateway(cfg.Stripe)
}
