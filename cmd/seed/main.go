package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prperemyshlev/storefront/internal/config"
	"github.com/prperemyshlev/storefront/internal/migrations"
	"github.com/prperemyshlev/storefront/internal/repository"
	"github.com/prperemyshlev/storefront/internal/seed"
	"github.com/prperemyshlev/storefront/internal/service"
	"github.com/prperemyshlev/storefront/pkg/database"
	"github.com/prperemyshlev/storefront/pkg/observability"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// seedConfig is the subset of the server configuration the seeder needs
type seedConfig struct {
	Postgres config.PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    config.RedisConfig    `env:",prefix=REDIS_"`
	Seed     seed.Config           `env:",prefix="`
	Env      string                `env:"ENV,default=development"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Apply migrations and load the sample catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "revert every migration before seeding")

	return cmd
}

func run(ctx context.Context, reset bool) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env file: %w", err)
	}

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := seedDatabase(ctx, cfg, reset, logger); err != nil {
		logger.Error("Seeding failed", zap.Error(err))
		return err
	}
	return nil
}

func seedDatabase(ctx context.Context, cfg seedConfig, reset bool, logger *zap.Logger) error {
	if reset {
		if err := migrations.Down(cfg.Postgres.DSN(), logger); err != nil {
			return err
		}
		logger.Info("Schema reset")
	}

	if err := migrations.Up(cfg.Postgres.DSN(), logger); err != nil {
		return err
	}

	pg, err := database.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		return err
	}
	defer pg.Close()

	repos := repository.NewRepositories(pg)
	seeder := seed.New(repos.Product, repos.User, logger)

	redis, err := database.NewRedis(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis unavailable, cached listings expire on their own", zap.Error(err))
	} else {
		defer redis.Close()
		seeder.WithCache(service.NewRedisListingCache(redis, 0))
	}

	if _, err := seeder.Products(ctx); err != nil {
		return err
	}
	if _, err := seeder.Admin(ctx, cfg.Seed); err != nil {
		return err
	}
	return nil
}
