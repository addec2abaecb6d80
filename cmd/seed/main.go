// Comando seed: aplica migraciones y carga los datos iniciales.
//
//	go run ./cmd/seed migrate
//	go run ./cmd/seed run --clear --demo-requests 5
package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/suministros-api/internal/application/seed"
	"github.com/jhoicas/suministros-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suministros-api/pkg/config"
	"github.com/jhoicas/suministros-api/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Migraciones y datos iniciales de suministros-api",
		SilenceUsage:  true,
	}
	root.AddCommand(newMigrateCmd(), newRunCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
				if err := postgres.Migrate(ctx, pool); err != nil {
					return err
				}
				log.Info().Msg("migraciones aplicadas")
				return nil
			})
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		clearData    bool
		demoRequests int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Carga usuarios, suministros y configuración por defecto",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
				if err := postgres.Migrate(ctx, pool); err != nil {
					return err
				}
				if clearData {
					if err := postgres.Truncate(ctx, pool); err != nil {
						return err
					}
					log.Warn().Msg("datos eliminados")
				}
				res, err := seed.NewSeeder(postgres.NewTxRunner(pool)).Run(ctx, seed.Options{DemoRequests: demoRequests})
				if err != nil {
					return err
				}
				log.Info().
					Int("users", res.Users).
					Int("supplies", res.Supplies).
					Int("settings", res.Settings).
					Int("requests", res.Requests).
					Msg("seed completado")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearData, "clear", false, "vaciar las tablas antes de cargar")
	cmd.Flags().IntVar(&demoRequests, "demo-requests", 0, "solicitudes PENDING de ejemplo para staff1")
	return cmd
}

func withPool(ctx context.Context, fn func(context.Context, *pgxpool.Pool, *logger.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, App: "seed"})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return err
	}
	defer pool.Close()
	if err := fn(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("seed")
		return err
	}
	return nil
}
