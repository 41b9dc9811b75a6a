package components

import (
	"edu-vouchers/internal/infra/db"
	"edu-vouchers/internal/infra/readstore"
	"edu-vouchers/internal/infra/uow"
	"edu-vouchers/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewVoucherReadStore,
			fx.As(new(queries.VoucherReadStore)),
		),
		fx.Annotate(
			readstore.NewPaymentReadStore,
			fx.As(new(queries.PaymentReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

// NewDBTX hands the pool to read stores; write repositories are built inside
// the unit of work with a transaction-bound DBTX instead.
func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
