package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ch1kulya/mstories/internal/catalog"
	"github.com/ch1kulya/mstories/internal/config"
	"github.com/ch1kulya/mstories/internal/data"
	"github.com/ch1kulya/mstories/internal/database"
	"github.com/ch1kulya/mstories/internal/models"
	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Query and maintain the mstories catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres URL; the seed catalog is used when empty")

	cmd.AddCommand(searchCmd(cfg), rankCmd(cfg), migrateCmd(cfg), seedCmd(cfg))
	return cmd
}

// loadStories reads the catalog from Postgres when configured, otherwise
// from the embedded seed.
func loadStories(ctx context.Context, cfg *config.Config) ([]models.Story, error) {
	if !cfg.UsesDatabase() {
		seed, err := data.LoadSeed()
		if err != nil {
			return nil, err
		}
		return seed.Stories, nil
	}

	pool, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return data.NewPostgres(pool).ListStories(ctx)
}

func printStories(w io.Writer, stories []models.Story) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tGENRE\tSTATUS\tWORDS\tVIEWS\tRATING\tCOMMENTS")
	for _, s := range stories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%.1f\t%d\n",
			s.ID, s.Title, s.Author, s.Genre, s.Status, s.WordCount, s.Views, s.Rating, s.Comments)
	}
	return tw.Flush()
}

func searchCmd(cfg *config.Config) *cobra.Command {
	var spec catalog.FilterSpec
	var sort string

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Filter and sort the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := catalog.ParseSortKey(sort)
			if !ok {
				return fmt.Errorf("unknown sort %q, want one of %s", sort, joinKeys(catalog.SortKeys))
			}
			spec.Sort = key
			if len(args) == 1 {
				spec.Query = args[0]
			}

			stories, err := loadStories(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printStories(cmd.OutOrStdout(), catalog.Apply(stories, spec))
		},
	}

	cmd.Flags().StringSliceVar(&spec.Genres, "genre", nil, "genres to include")
	cmd.Flags().StringSliceVar(&spec.Statuses, "status", nil, "statuses to include")
	cmd.Flags().StringSliceVar(&spec.Buckets, "length", nil, "word count buckets: <50k, 50k-100k, 100k-200k, 200k+")
	cmd.Flags().StringVar(&sort, "sort", "", "sort key: "+joinKeys(catalog.SortKeys))
	return cmd
}

func rankCmd(cfg *config.Config) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:       "rank [views|rating|comments]",
		Short:     "Rank stories by a metric",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"views", "rating", "comments"},
		RunE: func(cmd *cobra.Command, args []string) error {
			metric := catalog.MetricViews
			if len(args) == 1 {
				metric = catalog.Metric(strings.ToLower(args[0]))
			}
			if !metric.Valid() {
				return fmt.Errorf("unknown metric %q", metric)
			}

			stories, err := loadStories(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			ranked := catalog.Rank(stories, metric)
			if limit > 0 {
				ranked = ranked[:min(limit, len(ranked))]
			}
			return printStories(cmd.OutOrStdout(), ranked)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of stories to show, 0 for all")
	return cmd
}

func migrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.UsesDatabase() {
				return errNoDatabase
			}
			return database.Migrate(cfg.MigrationsPath, cfg.DatabaseURL)
		},
	}
}

func seedCmd(cfg *config.Config) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a YAML catalog into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.UsesDatabase() {
				return errNoDatabase
			}

			seed, err := readSeed(file)
			if err != nil {
				return err
			}

			pool, err := database.Open(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := data.SeedPostgres(cmd.Context(), pool, seed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d stories and %d chapters\n", len(seed.Stories), len(seed.Chapters))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "catalog YAML file; the embedded seed when empty")
	return cmd
}

func readSeed(file string) (*data.Seed, error) {
	if file == "" {
		return data.LoadSeed()
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return data.ParseSeed(raw)
}

func joinKeys(keys []catalog.SortKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
