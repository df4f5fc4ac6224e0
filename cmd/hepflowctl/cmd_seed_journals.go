package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"hepflow/internal/config"
	"hepflow/internal/models"
	"hepflow/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var seedJournalsFlags struct {
	file     string
	parallel int
}

var seedJournalsCmd = &cobra.Command{
	Use:   "seed-journals",
	Short: "Upsert journal records from a YAML fixture",
	RunE:  runSeedJournals,
}

func init() {
	f := seedJournalsCmd.Flags()
	f.StringVar(&seedJournalsFlags.file, "file", "", "YAML fixture with a top-level journals list")
	f.IntVar(&seedJournalsFlags.parallel, "parallel", 4, "Concurrent upserts")

	_ = seedJournalsCmd.MarkFlagRequired("file")
}

func runSeedJournals(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	data, err := os.ReadFile(seedJournalsFlags.file)
	if err != nil {
		return fmt.Errorf("read journal fixture: %w", err)
	}
	var fixture struct {
		Journals []models.JournalRecord `yaml:"journals"`
	}
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return fmt.Errorf("parse journal fixture: %w", err)
	}
	if len(fixture.Journals) == 0 {
		return fmt.Errorf("no journals in %s", seedJournalsFlags.file)
	}

	ctx := cmd.Context()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure database schema: %w", err)
	}
	repo := storage.NewJournalRepo(db)

	out := cmd.OutOrStdout()
	var seeded atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(seedJournalsFlags.parallel)
	for _, j := range fixture.Journals {
		j := j
		g.Go(func() error {
			id, err := repo.Upsert(gCtx, j)
			if err != nil {
				return fmt.Errorf("upsert %q: %w", j.ShortTitle, err)
			}
			seeded.Add(1)
			fmt.Fprintf(out, "journal %d: %s\n", id, j.ShortTitle)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded %d journals from %s\n", seeded.Load(), seedJournalsFlags.file)
	return nil
}
