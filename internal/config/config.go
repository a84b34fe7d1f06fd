// Package config wires the runtime surface spec §6 describes — venue
// addressing plus exchange/symbol/account/currencies/sample-rate/
// trading flags — onto github.com/spf13/cobra, github.com/spf13/pflag
// and an optional github.com/spf13/viper config file, the way the
// retrieval pack's VictorVVedtion-perp-dex and abdoElHodaky-tradSys
// wire their own CLIs, and 0xtitan6-polymarket-mm layers viper under
// them. This replaces the original's static flags::Flags accessor
// (original_source/src/roq/mmaker/flags/flags.h) and client::Config
// (original_source/src/roq/mmaker/config.h) with one Config value
// built once at startup.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"quotecore/internal/venue"
)

// Config is the fully-resolved runtime configuration for one process.
type Config struct {
	Exchange string
	Symbol   *regexp.Regexp
	Account  venue.Account
	Currencies *regexp.Regexp

	SamplePeriod time.Duration

	EnableTrading bool
	Simulation    bool

	// Addrs is the live-trading venue socket list ("tcp://..." or
	// "unix://..."); EventLogs is the simulation-mode replay file list.
	Addrs     []venue.Addr
	EventLogs []string

	ConfigFile string
}

// New builds the root cobra command for the quotecore binary. run is
// invoked once flags (and any config file layered under them) are
// resolved into a Config.
func New(run func(Config) error) *cobra.Command {
	var (
		exchange         string
		symbolPattern    string
		account          string
		currenciesPattern string
		sampleFreqSecs   int
		enableTrading    bool
		simulation       bool
		addrs            []string
		eventLogs        []string
		configFile       string
	)

	cmd := &cobra.Command{
		Use:   "quotecore",
		Short: "Grid-order quoting engine core",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				viper.SetConfigFile(configFile)
				if err := viper.ReadInConfig(); err != nil {
					return fmt.Errorf("config: reading config file %q: %w", configFile, err)
				}
				bindViperOverrides(cmd, &exchange, &symbolPattern, &account, &currenciesPattern, &sampleFreqSecs, &enableTrading, &simulation)
			}

			symbolRe, err := regexp.Compile(symbolPattern)
			if err != nil {
				return fmt.Errorf("config: invalid --symbol pattern: %w", err)
			}
			currenciesRe, err := regexp.Compile(currenciesPattern)
			if err != nil {
				return fmt.Errorf("config: invalid --currencies pattern: %w", err)
			}
			if !simulation && len(addrs) == 0 {
				return fmt.Errorf("config: live trading requires at least one --addr")
			}
			if simulation && len(eventLogs) == 0 {
				return fmt.Errorf("config: simulation mode requires at least one --event-log")
			}

			cfg := Config{
				Exchange:      exchange,
				Symbol:        symbolRe,
				Account:       venue.Account(account),
				Currencies:    currenciesRe,
				SamplePeriod:  time.Duration(sampleFreqSecs) * time.Second,
				EnableTrading: enableTrading,
				Simulation:    simulation,
				EventLogs:     eventLogs,
				ConfigFile:    configFile,
			}
			for _, a := range addrs {
				cfg.Addrs = append(cfg.Addrs, venue.Addr(a))
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&exchange, "exchange", "", "venue exchange identifier")
	flags.StringVar(&symbolPattern, "symbol", ".*", "symbol filter regex")
	flags.StringVar(&account, "account", "", "trading account (empty = market-data-only)")
	flags.StringVar(&currenciesPattern, "currencies", ".*", "quote-currency filter regex")
	flags.IntVar(&sampleFreqSecs, "sample-freq-secs", 1, "model on_time sample period, seconds")
	flags.BoolVar(&enableTrading, "enable-trading", false, "actually send create/modify/cancel (default: observe only)")
	flags.BoolVar(&simulation, "simulation", false, "replay event-log files instead of dialing a live venue")
	flags.StringSliceVar(&addrs, "addr", nil, "venue socket address (tcp://host:port or unix:///path), repeatable")
	flags.StringSliceVar(&eventLogs, "event-log", nil, "simulation event-log file path, repeatable")
	flags.StringVar(&configFile, "config", "", "optional YAML/TOML config file layered under these flags")

	return cmd
}

func bindViperOverrides(cmd *cobra.Command, exchange, symbolPattern, account, currenciesPattern *string, sampleFreqSecs *int, enableTrading, simulation *bool) {
	if !cmd.Flags().Changed("exchange") && viper.IsSet("exchange") {
		*exchange = viper.GetString("exchange")
	}
	if !cmd.Flags().Changed("symbol") && viper.IsSet("symbol") {
		*symbolPattern = viper.GetString("symbol")
	}
	if !cmd.Flags().Changed("account") && viper.IsSet("account") {
		*account = viper.GetString("account")
	}
	if !cmd.Flags().Changed("currencies") && viper.IsSet("currencies") {
		*currenciesPattern = viper.GetString("currencies")
	}
	if !cmd.Flags().Changed("sample-freq-secs") && viper.IsSet("sample_freq_secs") {
		*sampleFreqSecs = viper.GetInt("sample_freq_secs")
	}
	if !cmd.Flags().Changed("enable-trading") && viper.IsSet("enable_trading") {
		*enableTrading = viper.GetBool("enable_trading")
	}
	if !cmd.Flags().Changed("simulation") && viper.IsSet("simulation") {
		*simulation = viper.GetBool("simulation")
	}
}
