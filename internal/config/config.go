package config

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for commentgraph.
type Config struct {
	Snapshots SnapshotConfig  `mapstructure:"snapshots" yaml:"snapshots"`
	Anonymize AnonymizeConfig `mapstructure:"anonymize" yaml:"anonymize"`
	Graph     GraphConfig     `mapstructure:"graph"     yaml:"graph"`
	Output    OutputConfig    `mapstructure:"output"    yaml:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// SnapshotConfig controls how saved pages are discovered and read.
type SnapshotConfig struct {
	// Pattern is the glob matched against files in the snapshot folder.
	Pattern string `mapstructure:"pattern" yaml:"pattern"`

	// UsersFile is the name of the target-user list inside the folder.
	UsersFile string `mapstructure:"users_file" yaml:"users_file"`

	// Cache reuses previously extracted page data when present.
	Cache bool `mapstructure:"cache" yaml:"cache"`
}

// AnonymizeConfig controls pseudonym and redaction behavior.
type AnonymizeConfig struct {
	// Styling maps a username hash to a fixed alias and edge color.
	// Unstyled users get a hash-derived alias and palette color.
	Styling map[string]UserStyle `mapstructure:"styling" yaml:"styling"`

	// ExcludeFile lists strings never redacted inside comment text,
	// for users whose names are also common words.
	ExcludeFile string `mapstructure:"exclude_file" yaml:"exclude_file"`

	// IncludeFile lists strings always redacted inside comment text.
	IncludeFile string `mapstructure:"include_file" yaml:"include_file"`
}

// UserStyle is a per-user display override.
type UserStyle struct {
	Alias string `mapstructure:"alias" yaml:"alias"`
	Color string `mapstructure:"color" yaml:"color"`
}

// GraphConfig controls the emitted DOT description.
type GraphConfig struct {
	// MaxNodeLineLength wraps domain labels to this many characters.
	MaxNodeLineLength int `mapstructure:"max_node_line_length" yaml:"max_node_line_length"`

	// MaxNodesInColumn limits how many unclustered nodes stack vertically.
	MaxNodesInColumn int `mapstructure:"max_nodes_in_column" yaml:"max_nodes_in_column"`

	// BaseEdgeWidth is the pen width of a single-occurrence edge.
	BaseEdgeWidth float64 `mapstructure:"base_edge_width" yaml:"base_edge_width"`

	// MinimizeEdges merges repeated (author, domain) edges into one
	// width-scaled edge instead of one edge per occurrence.
	MinimizeEdges bool `mapstructure:"minimize_edges" yaml:"minimize_edges"`

	// Render runs the configured layout engines on the emitted file.
	Render bool `mapstructure:"render" yaml:"render"`

	// Engines are Graphviz layout programs tried for SVG rendering.
	Engines []string `mapstructure:"engines" yaml:"engines"`

	// Clusters groups domain nodes whose name contains a key. Aliases
	// are separated with "|"; the first alias names the cluster.
	Clusters map[string]ClusterStyle `mapstructure:"clusters" yaml:"clusters"`
}

// ClusterStyle is the fill applied to nodes grouped into a cluster.
type ClusterStyle struct {
	Color     string `mapstructure:"color"     yaml:"color"`
	FontColor string `mapstructure:"fontcolor" yaml:"fontcolor"`
}

// OutputConfig controls where report artifacts are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Snapshots: SnapshotConfig{
			Pattern:   "*.html",
			UsersFile: "users.txt",
			Cache:     true,
		},
		Anonymize: AnonymizeConfig{
			ExcludeFile: "do_not_anonymize.txt",
			IncludeFile: "do_anonymize.txt",
		},
		Graph: GraphConfig{
			MaxNodeLineLength: 25,
			MaxNodesInColumn:  15,
			BaseEdgeWidth:     2,
			Render:            true,
			Engines:           []string{"dot"},
		},
		Output: OutputConfig{
			Dir: "reports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
