package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/helpdesk-service/internal/cache"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

var seedKBCmd = &cobra.Command{
	Use:   "seed-kb",
	Short: "Insert the bundled starter knowledge-base articles",
	Long: `Insert the starter articles shipped with the service. Articles whose title
already exists are skipped, so the command is safe to run repeatedly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required")
		}
		ctx := cmd.Context()

		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()

		repo := repository.NewKnowledgeRepository(pg.PoolHandle())
		kb := service.NewKnowledgeService(service.KnowledgeDependencies{
			KnowledgeRepo: repo,
			Cache:         cache.NewKnowledgeCache(redis.Handle(), repo, cfg.Knowledge.CacheTTL(), logger),
			Logger:        logger,
		})
		inserted, err := kb.SeedSamples(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d article(s)\n", inserted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedKBCmd)
}
