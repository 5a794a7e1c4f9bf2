package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/warin/clinicstats/internal/exitcode"
	"github.com/warin/clinicstats/internal/logging"
	"github.com/warin/clinicstats/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser dashboard",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.ListenAddr, "listen", "", "Listen address (default :8573)")
	f.DurationVar(&cfg.CacheTTL, "cache-ttl", 0, "Source cache TTL (default 5m)")
	f.StringVar(&cfg.ProfitFormula, "formula", "", "Default profit formula: per_unit, current or fixed40")
	f.IntVar(&cfg.TopN, "topn", 0, "Default top-N for ranked views (5-60)")
	f.BoolVar(&cfg.StrictDedup, "strict-dedup", true, "Drop duplicate rows on the composite key by default")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := setupConfig(cmd); err != nil {
		log.Error().Err(err).Msg("config load failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	log.Info().
		Str("source", cfg.Source).
		Str("listen", cfg.ListenAddr).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("starting dashboard server")

	srv := web.NewServer(&cfg, log)
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(exitcode.ServeError)
	}

	return nil
}
