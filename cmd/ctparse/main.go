package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/ctparse/internal/profile"
	"github.com/hrygo/ctparse/plugin/cache"
	"github.com/hrygo/ctparse/plugin/ctparse"
	"github.com/hrygo/ctparse/plugin/ctparse/chart"
	"github.com/hrygo/ctparse/plugin/ctparse/scorer"
	"github.com/hrygo/ctparse/store"
	"github.com/hrygo/ctparse/store/db"
)

// app carries state shared by all commands.
type app struct {
	v          *viper.Viper
	configFile string
	profile    *profile.Profile
}

func newRootCmd() *cobra.Command {
	a := &app{v: profile.NewViper()}

	rootCmd := &cobra.Command{
		Use:           "ctparse",
		Short:         "Parse time expressions in English and German text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := profile.ReadConfigFile(a.v, a.configFile); err != nil {
				return err
			}
			a.profile = profile.FromViper(a.v)
			return a.profile.Validate()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	flags.String("data", ".", "data directory")
	flags.String("driver", "sqlite", "corpus database driver (sqlite or postgres)")
	flags.String("dsn", "", "corpus database source name")
	flags.String("model", "", "naive Bayes model file; empty uses the length scorer")
	flags.String("lang", "multi", "language: en, de or multi")
	flags.Int("beam-size", 20, "candidates kept per span")
	flags.Int("max-rounds", 16, "upper bound on chart rounds")
	flags.Duration("timeout", 500*time.Millisecond, "per-parse deadline")

	for key, flag := range map[string]string{
		profile.KeyMode:      "mode",
		profile.KeyData:      "data",
		profile.KeyDriver:    "driver",
		profile.KeyDSN:       "dsn",
		profile.KeyModel:     "model",
		profile.KeyLang:      "lang",
		profile.KeyBeamSize:  "beam-size",
		profile.KeyMaxRounds: "max-rounds",
		profile.KeyTimeout:   "timeout",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		a.parseCmd(),
		a.corpusCmd(),
		a.trainCmd(),
		a.evalCmd(),
		a.serveCmd(),
	)
	return rootCmd
}

// loadScorer returns the configured model, or the length scorer when none
// is set. A model that fails to load is fatal.
func (a *app) loadScorer() (chart.Scorer, error) {
	if a.profile.Model == "" {
		return scorer.Length{}, nil
	}
	m, err := scorer.LoadFile(a.profile.Model)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load scorer model")
	}
	return m, nil
}

func (a *app) serviceConfig() ctparse.Config {
	return ctparse.Config{
		Lang: a.profile.Lang,
		Search: chart.Options{
			BeamSize:  a.profile.BeamSize,
			MaxRounds: a.profile.MaxRounds,
		},
		Timeout: a.profile.Timeout,
		Cache: cache.ServiceConfig{
			Capacity: a.profile.CacheSize,
			TTL:      a.profile.CacheTTL,
		},
	}
}

// newService builds the parsing service, registering its metrics on reg.
func (a *app) newService(s chart.Scorer, reg prometheus.Registerer) (*ctparse.Service, error) {
	return ctparse.NewService(a.serviceConfig(), s, ctparse.NewMetrics(reg))
}

// openStore connects to the corpus database and creates the schema if needed.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	driver, err := db.NewDBDriver(a.profile)
	if err != nil {
		return nil, err
	}
	s := store.New(driver, a.profile)
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "failed to migrate")
	}
	return s, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
