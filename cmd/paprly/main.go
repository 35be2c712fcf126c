// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paprly CLI and API server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paprly/paprly/internal/logging"
	"github.com/paprly/paprly/internal/secrets"
	"github.com/paprly/paprly/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paprly CLI.
var rootCmd = &cobra.Command{
	Use:   "paprly",
	Short: "Bookmark arXiv papers and organize them into projects",
	Long: `paprly keeps a local library of research papers. Paste an arXiv link,
DOI or identifier and paprly fetches the title, authors and abstract from
arXiv and saves the paper. Papers can carry reading notes and be pinned to
projects.

Run "paprly serve" for the JSON API, or use the subcommands directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := viper.GetString("log.level")
		format := viper.GetString("log.format")
		slog.SetDefault(logging.New(os.Stderr, level, format))

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paprly.yaml or ~/.config/paprly/paprly.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default data/paprly.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	setConfigDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paprly")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paprly"))
		}
	}

	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// configureEnv maps PAPRLY_* variables onto config keys. FASTAPI_URL is
// also accepted for the backend URL.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("PAPRLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("backend.url", "PAPRLY_BACKEND_URL", "FASTAPI_URL")
}

// setConfigDefaults registers every config key so environment variables
// and config files can override it.
func setConfigDefaults(v *viper.Viper) {
	d := types.DefaultAppConfig()

	v.SetDefault("arxiv.api_base", d.Arxiv.APIBase)
	v.SetDefault("arxiv.timeout", d.Arxiv.Timeout)
	v.SetDefault("arxiv.user_agent", d.Arxiv.UserAgent)
	v.SetDefault("arxiv.search_interval", d.Arxiv.SearchInterval)
	v.SetDefault("arxiv.max_retries", d.Arxiv.MaxRetries)

	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("backend.user_agent", d.Backend.UserAgent)
	v.SetDefault("backend.api_key", "")

	v.SetDefault("store.path", d.Store.Path)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.rate_burst", d.Server.RateBurst)
	v.SetDefault("server.trusted_proxies", d.Server.TrustedProxies)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// loadConfig builds the application config from v, filling credentials
// from s when the config leaves them empty.
func loadConfig(v *viper.Viper, s map[string]string) (types.AppConfig, error) {
	cfg := types.AppConfig{
		Arxiv: types.ArxivConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("arxiv.timeout"),
				UserAgent: v.GetString("arxiv.user_agent"),
			},
			APIBase:        v.GetString("arxiv.api_base"),
			SearchInterval: v.GetDuration("arxiv.search_interval"),
			MaxRetries:     v.GetInt("arxiv.max_retries"),
		},
		Backend: types.BackendConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("backend.timeout"),
				UserAgent: v.GetString("backend.user_agent"),
			},
			URL:    strings.TrimSpace(v.GetString("backend.url")),
			APIKey: secrets.Get(s, secrets.BackendAPIKey, v.GetString("backend.api_key")),
		},
		Store: types.StoreConfig{Path: v.GetString("store.path")},
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			RateLimit:       v.GetFloat64("server.rate_limit"),
			RateBurst:       v.GetInt("server.rate_burst"),
			TrustedProxies:  v.GetStringSlice("server.trusted_proxies"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}

	if email := s[secrets.ArxivContactEmail]; email != "" {
		cfg.Arxiv.UserAgent = fmt.Sprintf("%s (mailto:%s)", cfg.Arxiv.UserAgent, email)
	}

	if err := cfg.Validate(); err != nil {
		return types.AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
