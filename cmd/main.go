package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/benwatts/whatson/internal/api"
	"github.com/benwatts/whatson/internal/config"
	"github.com/benwatts/whatson/internal/database"
	"github.com/benwatts/whatson/internal/enrich"
	"github.com/benwatts/whatson/internal/external/tmdb"
	"github.com/benwatts/whatson/internal/external/trakt"
	"github.com/benwatts/whatson/internal/logger"
	"github.com/benwatts/whatson/internal/recommend"
	"github.com/benwatts/whatson/internal/shutdown"
	"github.com/benwatts/whatson/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "whatson",
	Short: "What's On? tracks a personal TV watchlist",
	Long: `What's On? keeps track of the shows you're watching, where you are in
each one, and what's airing tonight. It enriches shows with poster art and
air schedules from TMDB and Trakt, and suggests new shows to pick up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of whatson",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("whatson v0.1.0")
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yml)")
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// Skip config loading for version command
	if len(os.Args) > 1 && os.Args[1] == "version" {
		return
	}

	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

func serve() error {
	cfg := config.Get()

	logger.Initialize(cfg.Logging.Level, cfg.GetDatabaseLogLevel())
	log := logger.App()

	if err := database.Initialize(); err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}

	st := store.New(database.Get())

	if cfg.Seed.Enabled {
		seeded, err := st.SeedIfEmpty()
		if err != nil {
			return fmt.Errorf("seeding watchlist failed: %w", err)
		}
		if seeded {
			log.Info("Seeded default watchlist into empty store")
		}
	}

	var posters enrich.PosterProvider
	if cfg.TMDB.Enabled && cfg.TMDB.APIKey != "" {
		posters = tmdb.NewClient(tmdb.Config{
			APIKey:   cfg.TMDB.APIKey,
			Language: cfg.TMDB.Language,
		})
	}

	var traktClient *trakt.Client
	if cfg.Trakt.Enabled && cfg.Trakt.ClientID != "" {
		traktClient = trakt.NewClient(trakt.Config{
			ClientID: cfg.Trakt.ClientID,
		})
	}

	var schedule enrich.ScheduleProvider
	var catalog recommend.CatalogProvider
	if traktClient != nil {
		schedule = traktClient
		catalog = traktClient
	}

	enricher := enrich.NewService(st, posters, schedule)
	recommends := recommend.NewService(st, catalog)

	server := api.NewServer(st, enricher, recommends, cfg.API.TemplatesDir)

	handler := shutdown.New(10 * time.Second)
	handler.Register(func(ctx context.Context) error {
		return database.Close()
	})
	handler.Register(server.Shutdown)

	go func() {
		log.WithFields(map[string]interface{}{"port": cfg.API.Port}).Info("Starting server")
		if err := server.Run(cfg.API.Port); err != nil {
			log.Error("Server stopped unexpectedly", err)
			handler.Trigger()
		}
	}()

	if err := handler.Wait(); err != nil {
		log.Error("Shutdown did not complete cleanly", err)
	}
	log.Info("Server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
