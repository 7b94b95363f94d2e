// Package main provides the entry point for the codeatlas CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Iovva/codeatlas/cmd/codeatlas/commands"
	"github.com/Iovva/codeatlas/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "codeatlas",
		Short: "codeatlas - C# repository dependency graph analyzer",
		Long: `codeatlas clones a remote C# repository, discovers its buildable projects,
resolves symbol references into file- and namespace-level dependency graphs,
and reports LOC/fan-in/fan-out metrics and cyclic dependency groups.

Commands:
  analyze   Run the pipeline once against a repository URL and print the report
  serve     Run the MCP tool on stdio plus a health/metrics HTTP listener`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "accepted but not read by any subcommand")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "accepted but not read by any subcommand")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "codeatlas %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
