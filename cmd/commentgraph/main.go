package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/commentgraph/commentgraph/internal/analyzer"
	"github.com/commentgraph/commentgraph/internal/anonymize"
	"github.com/commentgraph/commentgraph/internal/config"
	"github.com/commentgraph/commentgraph/internal/graph"
	"github.com/commentgraph/commentgraph/internal/report"
	"github.com/commentgraph/commentgraph/internal/types"
)

var (
	cfgFile   string
	verbose   bool
	outputDir string
	usersFile string
	pattern   string
	noCache   bool
	noRender  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "commentgraph",
		Short: "commentgraph — analyze saved YouTube comment snapshots",
		Long: `commentgraph scans locally saved YouTube video pages for comments
written by a watchlist of usernames and reports on them:

  • comments.txt — searchable transcript with pseudonymized authors
  • links.txt    — outbound links grouped and counted by domain
  • graph.gv     — Graphviz description of who linked where

Inputs are offline HTML snapshots plus a users.txt file in the same
folder, one username per line.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// analyzeCmd creates the "analyze" subcommand.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [folder]",
		Short: "Analyze the snapshots in a folder",
		Long:  "Scan every snapshot in the folder for comments by the users listed in its users.txt and write the report artifacts.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for report artifacts")
	cmd.Flags().StringVar(&usersFile, "users", "", "target-user list filename inside the folder")
	cmd.Flags().StringVar(&pattern, "pattern", "", "snapshot filename glob")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "re-parse snapshots instead of using cached page data")
	cmd.Flags().BoolVar(&noRender, "no-render", false, "emit graph.gv without running Graphviz")

	return cmd
}

// runAnalyze executes one full run.
func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	folder := "."
	if len(args) > 0 {
		folder = args[0]
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The user list is the single fatal precondition: without it there
	// is nothing to filter on and nothing gets written.
	users, err := config.LoadUserList(filepath.Join(folder, cfg.Snapshots.UsersFile))
	if err != nil {
		if errors.Is(err, types.ErrNoUserList) {
			logger.Error("no target-user list",
				"expected", filepath.Join(folder, cfg.Snapshots.UsersFile),
				"hint", "create the file with one username per line")
		}
		return err
	}

	// Redaction tuning lists are optional; absence means empty.
	exclude, _ := config.LoadNameList(filepath.Join(folder, cfg.Anonymize.ExcludeFile))
	include, _ := config.LoadNameList(filepath.Join(folder, cfg.Anonymize.IncludeFile))

	registry := anonymize.NewRegistry(users, cfg.Anonymize, exclude, include, logger)

	logger.Info("starting analysis",
		"folder", folder,
		"pattern", cfg.Snapshots.Pattern,
		"users", len(users),
		"output", cfg.Output.Dir,
	)

	start := time.Now()
	result, err := analyzer.New(cfg, registry, logger).Run(folder)
	if err != nil {
		return err
	}

	bundle, err := report.NewBundle(cfg.Output.Dir, logger)
	if err != nil {
		return err
	}
	if err := bundle.WriteVideoIndex(result.Pages); err != nil {
		return err
	}
	if err := bundle.WriteTranscript(result.Pages); err != nil {
		return err
	}

	if result.Tally.Total() == 0 {
		logger.Warn("no links found in retained comments; skipping link listing and graph")
	} else {
		if err := bundle.WriteLinkListing(result.Tally); err != nil {
			return err
		}
		dotSrc := graph.NewBuilder(cfg.Graph, logger).Build(result.Tally)
		if err := bundle.WriteGraph(dotSrc); err != nil {
			return err
		}
		if cfg.Graph.Render {
			graph.Render(bundle.Path(report.GraphFile), cfg.Graph.Engines, logger)
		}
	}

	elapsed := time.Since(start)
	s := result.Stats

	fmt.Printf("\nAnalysis complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("   Pages:     %d parsed, %d skipped\n", s.PagesParsed, s.PagesSkipped)
	fmt.Printf("   Comments:  %d seen, %d from target users\n", s.CommentsSeen, s.CommentsKept)
	fmt.Printf("   Links:     %d counted, %d malformed\n", s.LinksKept, s.LinksMalformed)
	fmt.Printf("   Output:    %s\n", bundle.Dir())

	if s.CommentsKept == 0 {
		fmt.Println("\nNo comments by the listed users were found.")
		fmt.Println("   Check that the snapshots were saved with comments unrolled and")
		fmt.Println("   that users.txt carries the display names exactly as shown.")
	}

	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("commentgraph %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Snapshots:\n")
			fmt.Printf("  Pattern:     %s\n", cfg.Snapshots.Pattern)
			fmt.Printf("  Users file:  %s\n", cfg.Snapshots.UsersFile)
			fmt.Printf("  Cache:       %v\n", cfg.Snapshots.Cache)
			fmt.Printf("\nAnonymize:\n")
			fmt.Printf("  Styled users:  %d\n", len(cfg.Anonymize.Styling))
			fmt.Printf("  Exclude file:  %s\n", cfg.Anonymize.ExcludeFile)
			fmt.Printf("  Include file:  %s\n", cfg.Anonymize.IncludeFile)
			fmt.Printf("\nGraph:\n")
			fmt.Printf("  Label width:     %d\n", cfg.Graph.MaxNodeLineLength)
			fmt.Printf("  Column height:   %d\n", cfg.Graph.MaxNodesInColumn)
			fmt.Printf("  Edge width:      %g\n", cfg.Graph.BaseEdgeWidth)
			fmt.Printf("  Minimize edges:  %v\n", cfg.Graph.MinimizeEdges)
			fmt.Printf("  Render:          %v\n", cfg.Graph.Render)
			fmt.Printf("  Engines:         %s\n", strings.Join(cfg.Graph.Engines, ", "))
			fmt.Printf("  Clusters:        %d\n", len(cfg.Graph.Clusters))
			fmt.Printf("\nOutput:\n")
			fmt.Printf("  Dir:  %s\n", cfg.Output.Dir)
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if usersFile != "" {
		cfg.Snapshots.UsersFile = usersFile
	}
	if pattern != "" {
		cfg.Snapshots.Pattern = pattern
	}
	if noCache {
		cfg.Snapshots.Cache = false
	}
	if noRender {
		cfg.Graph.Render = false
	}
}
