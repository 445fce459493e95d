package components

import (
	"enrollment-core/internal/infra/readstore"
	"enrollment-core/internal/infra/repository"
	"enrollment-core/internal/infra/uow"
	"enrollment-core/internal/usecase/sweep"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		readstore.NewEnrollmentReadStore,
		readstore.NewSectionReadStore,
		readstore.NewWaitlistReadStore,
		readstore.NewConflictReadStore,
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// Transactional writes go through the unit of work; the
		// pool-backed repositories below serve non-transactional reads.
		uow.NewPostgresUoW,
		repository.NewRateLimitStore,
		fx.Annotate(
			repository.NewSectionRepository,
			fx.As(new(sweep.SectionLister)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) repository.DBTX {
	return pool
}
