package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/automata/internal/config"
	"github.com/aretw0/automata/internal/logging"
	"github.com/spf13/cobra"
)

// app carries the resolved settings into the subcommands.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

var env app

var rootCmd = &cobra.Command{
	Use:   "automata",
	Short: "Automata is a deterministic finite automaton engine",
	Long: `Automata loads DFAs from a line-oriented tabular format (or YAML), evaluates
input strings against them, runs expectation batches and serves stored
automata over HTTP and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := logging.FromConfig(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		env = app{cfg: cfg, logger: logger}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	pf := rootCmd.PersistentFlags()
	pf.String("config", config.DefaultPath, "Config file (YAML or JSON); missing file means defaults")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("store", config.StoreFile, "Automaton store: memory, file or redis")
	pf.String("dir", config.Default().Dir, "Directory of the file store")
	pf.String("redis-addr", config.Default().RedisAddr, "Redis address of the redis store")
	pf.Duration("redis-ttl", 0, "Expiry of automata in the redis store; 0 keeps them")
	pf.Bool("cache", false, "Cache loaded automata in memory (file and redis stores)")
}

// loadConfig reads the config file, then applies explicitly set flags over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	overrides := map[string]*string{
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
		"store":      &cfg.Store,
		"dir":        &cfg.Dir,
		"redis-addr": &cfg.RedisAddr,
	}
	for name, dst := range overrides {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("redis-ttl") {
		cfg.RedisTTL, _ = flags.GetDuration("redis-ttl")
	}
	if flags.Changed("cache") {
		cfg.Cache, _ = flags.GetBool("cache")
	}
	return cfg, cfg.Validate()
}
