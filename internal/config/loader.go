package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("COMMENTGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("commentgraph")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine unless one was explicitly named.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("snapshots.pattern", cfg.Snapshots.Pattern)
	v.SetDefault("snapshots.users_file", cfg.Snapshots.UsersFile)
	v.SetDefault("snapshots.cache", cfg.Snapshots.Cache)

	v.SetDefault("anonymize.exclude_file", cfg.Anonymize.ExcludeFile)
	v.SetDefault("anonymize.include_file", cfg.Anonymize.IncludeFile)

	v.SetDefault("graph.max_node_line_length", cfg.Graph.MaxNodeLineLength)
	v.SetDefault("graph.max_nodes_in_column", cfg.Graph.MaxNodesInColumn)
	v.SetDefault("graph.base_edge_width", cfg.Graph.BaseEdgeWidth)
	v.SetDefault("graph.minimize_edges", cfg.Graph.MinimizeEdges)
	v.SetDefault("graph.render", cfg.Graph.Render)
	v.SetDefault("graph.engines", cfg.Graph.Engines)

	v.SetDefault("output.dir", cfg.Output.Dir)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// Validate checks configuration values that have no workable fallback.
func Validate(cfg *Config) error {
	if cfg.Snapshots.Pattern == "" {
		return fmt.Errorf("snapshots.pattern must not be empty")
	}
	if cfg.Snapshots.UsersFile == "" {
		return fmt.Errorf("snapshots.users_file must not be empty")
	}
	if cfg.Graph.MaxNodeLineLength < 1 {
		return fmt.Errorf("graph.max_node_line_length must be positive")
	}
	if cfg.Graph.MaxNodesInColumn < 1 {
		return fmt.Errorf("graph.max_nodes_in_column must be positive")
	}
	if cfg.Graph.BaseEdgeWidth <= 0 {
		return fmt.Errorf("graph.base_edge_width must be positive")
	}
	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	return nil
}
