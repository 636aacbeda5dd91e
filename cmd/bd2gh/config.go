package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultIssuesPath  = ".beads/issues.jsonl"
	defaultMappingPath = ".migration/beads_to_github_mapping.json"
)

// Config is the resolved run configuration. Precedence: flag > BD2GH_*
// environment variable > config file > default.
type Config struct {
	Issues   string
	Mapping  string
	Links    string
	Repo     string
	OpenOnly bool
	Limit    int
	Apply    bool
}

// loadConfig merges flags, environment, and an optional .bd2gh.yaml
// through a dedicated viper instance.
func loadConfig(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".bd2gh")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing default config is fine; a broken one is not.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config .bd2gh.yaml: %w", err)
			}
		}
	}

	v.SetEnvPrefix("BD2GH")
	// Flag names use dashes; env vars can't. BD2GH_OPEN_ONLY -> open-only.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	return &Config{
		Issues:   v.GetString("issues"),
		Mapping:  v.GetString("mapping"),
		Links:    v.GetString("links"),
		Repo:     v.GetString("repo"),
		OpenOnly: v.GetBool("open-only"),
		Limit:    v.GetInt("limit"),
		Apply:    v.GetBool("apply"),
	}, nil
}
