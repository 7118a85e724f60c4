// Command seed fills the configured database with sample categories and products.
package main

import (
	"context"
	"log/slog"

	"catalog/config"
	"catalog/internal/domain/repository"
	logs "catalog/internal/infra/log"
	"catalog/internal/infra/persistence/postgres"
	"catalog/internal/infra/persistence/seed"

	"go.uber.org/fx"
)

type runParams struct {
	fx.In

	Shutdowner fx.Shutdowner
	TxManager  repository.TransactionManager
	Logger     *slog.Logger
}

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			postgres.New,
			postgres.NewTransactionManager,
		),
		fx.Invoke(run),
	).Run()
}

// run seeds once the database hook has connected and migrated, then stops the app.
func run(lc fx.Lifecycle, params runParams) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				seeder := seed.NewSeeder(params.TxManager, nil, params.Logger)
				if _, err := seeder.Run(context.Background(), seed.DefaultOptions()); err != nil {
					params.Logger.Error("Seeding failed", slog.Any("error", err))
					_ = params.Shutdowner.Shutdown(fx.ExitCode(1))

					return
				}

				_ = params.Shutdowner.Shutdown()
			}()

			return nil
		},
	})
}
