package cli

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/persistence"
	"github.com/spec-kit/volunteer-service/internal/repository"
	"github.com/spec-kit/volunteer-service/internal/service"
)

type postgresBackend struct {
	pg     *persistence.Postgres
	admins *service.AdminService
	logger *zap.Logger
}

// PostgresBackend opens the configured database for each command.
func PostgresBackend(cfg *config.Config, logger *zap.Logger) BackendFactory {
	return func(ctx context.Context) (Backend, error) {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if pg.PoolHandle() == nil {
			return nil, errors.New("POSTGRES_DSN is required")
		}
		return &postgresBackend{
			pg:     pg,
			admins: service.NewAdminService(repository.NewAdminRepository(pg.PoolHandle()), cfg.Auth.BcryptCost),
			logger: logger,
		}, nil
	}
}

func (b *postgresBackend) Migrate(ctx context.Context) error {
	return persistence.RunMigrations(ctx, b.pg.PoolHandle(), b.logger)
}

func (b *postgresBackend) CreateAdmin(ctx context.Context, input service.AdminCreateInput) (*domain.AdminUser, error) {
	return b.admins.Create(ctx, input)
}

func (b *postgresBackend) Close() {
	b.pg.Close()
}
