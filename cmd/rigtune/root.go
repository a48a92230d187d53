package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stepherg/rigtune"
	"github.com/stepherg/rigtune/catalog"
	"github.com/stepherg/rigtune/internal/config"
	"github.com/stepherg/rigtune/internal/logging"
)

var version = "0.1.0-dev"

type rootOptions struct {
	cfgFile string
	envFile string
	v       *viper.Viper
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{v: config.New()}
	cmd := &cobra.Command{
		Use:   "rigtune",
		Short: "Gaming optimization dashboard for a simulated machine",
		Long: `rigtune serves a dashboard API over a fixed catalog of simulated startup
programs and gaming optimization settings. Toggles only change in-memory
state; restarting the server resets the catalog to its seed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(ro.envFile); err != nil {
				return err
			}
			return config.BindFlags(ro.v, cmd.Flags())
		},
	}
	cmd.PersistentFlags().StringVar(&ro.cfgFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&ro.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.PersistentFlags().String("catalog-file", "", "YAML seed catalog (default: embedded catalog)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "text", "log format (text, json)")

	cmd.AddCommand(newServeCmd(ro), newScoreCmd(ro), newCatalogCmd(ro), newVersionCmd())
	return cmd
}

// load resolves options, the logger and the seeded store shared by commands.
func (ro *rootOptions) load() (rigtune.Options, *logrus.Logger, *catalog.Store, error) {
	opts, err := config.Load(ro.v, ro.cfgFile)
	if err != nil {
		return opts, nil, nil, err
	}
	logger, err := logging.New(opts.Log.Level, opts.Log.Format)
	if err != nil {
		return opts, nil, nil, err
	}
	seed := catalog.DefaultSeed()
	if opts.CatalogFile != "" {
		if seed, err = catalog.LoadSeedFile(opts.CatalogFile); err != nil {
			return opts, nil, nil, err
		}
		logger.WithField("file", opts.CatalogFile).Info("loaded seed catalog")
	}
	store, err := catalog.New(seed)
	if err != nil {
		return opts, nil, nil, err
	}
	return opts, logger, store, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rigtune version %s\n", version)
		},
	}
}
