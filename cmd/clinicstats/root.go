package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/warin/clinicstats/internal/config"
	"github.com/warin/clinicstats/internal/exitcode"
)

var (
	cfg     config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "clinicstats",
	Short: "Branch/clinic transaction analytics dashboard",
	Long:  "Loads a branch transaction table (CSV, XLSX, or Parquet; path or URL), cleans it, and serves dashboards, reports, and Postgres exports.",
}

func init() {
	// Environment defaults may come from a local .env file.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.Source, "source", os.Getenv("CLINICSTATS_SOURCE"), "Dataset path or URL (or set CLINICSTATS_SOURCE)")
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfgFile, "config", "", "Path to YAML config file")
}

// setupConfig merges the optional YAML file into cfg and fills defaults.
// Flags bind straight into cfg, so after the file load any flag the user set
// explicitly is re-applied on top of the file's value.
func setupConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		fromFlags := cfg
		if err := cfg.LoadFromFile(cfgFile); err != nil {
			return err
		}
		restore := map[string]func(){
			"listen":       func() { cfg.ListenAddr = fromFlags.ListenAddr },
			"cache-ttl":    func() { cfg.CacheTTL = fromFlags.CacheTTL },
			"formula":      func() { cfg.ProfitFormula = fromFlags.ProfitFormula },
			"topn":         func() { cfg.TopN = fromFlags.TopN },
			"strict-dedup": func() { cfg.StrictDedup = fromFlags.StrictDedup },
			"metric":       func() { cfg.HeatmapMetric = fromFlags.HeatmapMetric },
		}
		for name, apply := range restore {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				apply()
			}
		}
	}
	cfg.ApplyDefaults()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
