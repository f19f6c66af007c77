package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgc202/coingecko-kit/coingecko"
	"github.com/lgc202/coingecko-kit/internal/logging"
)

type rootOptions struct {
	configFile string
	envFile    string
	logLevel   string
	devLog     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "cgctl",
		Short:        "Query the CoinGecko REST API",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "optional config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading COINGECKO_* variables")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&opts.devLog, "dev-log", false, "human readable console logs")

	cmd.AddCommand(
		newPingCmd(opts),
		newGetCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// client builds the logger and the API client from the flags.
func (o *rootOptions) client() (*coingecko.Client, *zap.Logger, error) {
	logger, err := logging.New(o.logLevel, o.devLog)
	if err != nil {
		return nil, nil, err
	}
	s, err := coingecko.LoadSettings(o.configFile, o.envFile)
	if err != nil {
		return nil, logger, err
	}
	cfg := s.Config()
	cfg.Logger = logger
	c, err := coingecko.NewClient(cfg)
	if err != nil {
		return nil, logger, err
	}
	return c, logger, nil
}
