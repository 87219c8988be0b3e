// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the drivenote CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/drivenote/internal/docsync"
	"github.com/pdiddy/drivenote/internal/folder"
	"github.com/pdiddy/drivenote/internal/markup"
	"github.com/pdiddy/drivenote/internal/remote"
	"github.com/pdiddy/drivenote/internal/secrets"
	"github.com/pdiddy/drivenote/internal/store"
	"github.com/pdiddy/drivenote/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultUserAgent = "drivenote/0.1"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets secrets.Set

// secretDefault returns fallback when it is set, else the secret for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets.Get(key, "")
}

var rootCmd = &cobra.Command{
	Use:   "drivenote",
	Short: "Convert HTML notes and sync them to Google Docs",
	Long: `drivenote keeps a local store of HTML documents and uploads them to
Google Docs. Each upload converts the markup into index-addressed Docs
commands; documents uploaded before are cleared and refilled in place.

Use convert to inspect the commands a document produces, doc to manage
local records, upload to sync one, and serve to expose the same operations
over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configureLogging(cmd)

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./drivenote.yaml or ~/.config/drivenote/drivenote.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of secret files")
	rootCmd.PersistentFlags().Bool("verbose", false, "log debug output to stderr")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding the document database (default \"data\")")
	rootCmd.PersistentFlags().String("user", "", "user id owning local documents (default \"local\")")

	viper.BindPFlag("store.data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("user", "local")
	viper.SetDefault("remote.timeout", 30*time.Second)
	viper.SetDefault("remote.user_agent", defaultUserAgent)
	viper.SetDefault("remote.folder_name", folder.DefaultName)
	viper.SetDefault("remote.default_title", "MyDocument")
	viper.SetDefault("remote.max_read_retries", 3)
	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("markup.sanitize", false)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 2*time.Minute)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("drivenote")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "drivenote"))
		}
	}

	viper.SetEnvPrefix("DRIVENOTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func configureLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// appConfig reads the typed configuration from viper.
func appConfig() types.AppConfig {
	return types.AppConfig{
		Remote: types.RemoteConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("remote.timeout"),
				UserAgent: viper.GetString("remote.user_agent"),
			},
			FolderName:     viper.GetString("remote.folder_name"),
			DefaultTitle:   viper.GetString("remote.default_title"),
			MaxReadRetries: viper.GetInt("remote.max_read_retries"),
		},
		Store: types.StoreConfig{
			DataDir: viper.GetString("store.data_dir"),
		},
		Markup: types.MarkupConfig{
			Sanitize: viper.GetBool("markup.sanitize"),
		},
		Server: types.ServerConfig{
			Addr:         viper.GetString("server.addr"),
			JWTSecret:    viper.GetString("server.jwt_secret"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
		},
	}
}

func currentUser() string {
	return viper.GetString("user")
}

// services bundles what the document commands and the server share.
type services struct {
	cfg     types.AppConfig
	store   *store.Store
	remote  *remote.Client
	folders *folder.Resolver
	sync    *docsync.Orchestrator
}

func openServices() (*services, error) {
	cfg := appConfig()
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	rc := remote.New(cfg.Remote)
	folders := folder.NewResolver(rc)
	orch := docsync.New(rc, folders, st, markup.NewParser(cfg.Markup.Sanitize), docsync.Options{
		FolderName:   cfg.Remote.FolderName,
		DefaultTitle: cfg.Remote.DefaultTitle,
		CallTimeout:  cfg.Remote.Timeout,
		Logger:       slog.Default(),
	})
	return &services{cfg: cfg, store: st, remote: rc, folders: folders, sync: orch}, nil
}

func (s *services) Close() error {
	return s.store.Close()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
