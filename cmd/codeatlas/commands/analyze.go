package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Iovva/codeatlas/internal/aggregator"
	"github.com/Iovva/codeatlas/internal/assembler"
	"github.com/Iovva/codeatlas/internal/csharp"
	"github.com/Iovva/codeatlas/internal/cycles"
	"github.com/Iovva/codeatlas/internal/metrics"
	"github.com/Iovva/codeatlas/internal/pipeline"
	"github.com/Iovva/codeatlas/internal/project"
	"github.com/Iovva/codeatlas/internal/report"
	"github.com/Iovva/codeatlas/internal/triage"
	"github.com/Iovva/codeatlas/internal/workspace"
	"github.com/Iovva/codeatlas/pkg/config"
	"github.com/Iovva/codeatlas/pkg/observability"
)

// NewAnalyzeCommand creates the analyze subcommand: runs the pipeline once
// for a single repository and prints the result.
func NewAnalyzeCommand() *cobra.Command {
	var (
		branch     string
		configPath string
		debug      bool
		htmlOut    string
		compress   bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <repo-url>",
		Short: "Clone and analyze a C# repository's dependency structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return runAnalyze(cobraCmd.Context(), args[0], branch, configPath, debug, htmlOut, compress, noColor)
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "branch to fetch (defaults to the remote's default branch)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&htmlOut, "html", "", "write the namespace dependency graph as HTML to this path")
	cmd.Flags().BoolVar(&compress, "compress", false, "lz4-compress the JSON report written to stdout")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored cycle warnings")

	return cmd
}

func runAnalyze(
	ctx context.Context, repoURL, branch, configPath string, debug bool, htmlOut string, compress, noColor bool,
) error {
	color.NoColor = noColor //nolint:reassign // intentional override of library global
	providers, err := initObservability(observability.ModeCLI, debug)
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	p := buildPipeline(cfg, providers)

	result, err := p.Run(ctx, pipeline.Options{RepoURL: repoURL, Branch: branch})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", repoURL, err)
	}

	fmt.Fprint(os.Stdout, report.RenderConsole(result.Report))

	if len(result.Report.Cycles) > 0 {
		color.New(color.FgYellow).Fprintf(os.Stdout, "warning: %d cyclic dependency group(s) detected\n", len(result.Report.Cycles))
	}

	if htmlOut != "" {
		f, createErr := os.Create(htmlOut)
		if createErr != nil {
			return fmt.Errorf("create html output: %w", createErr)
		}

		defer f.Close()

		if renderErr := report.RenderNamespaceGraphHTML(result.Report, f); renderErr != nil {
			return renderErr
		}
	}

	if compress {
		compressed, compressErr := assembler.Compress(result.Report)
		if compressErr != nil {
			return compressErr
		}

		_, err = os.Stdout.Write(compressed)

		return err
	}

	return nil
}

func buildPipeline(cfg *config.Config, providers observability.Providers) *pipeline.Pipeline {
	deps := pipeline.Deps{
		Workspace: workspace.NewManager(cfg.Workspace.GitBinary, cfg.Workspace.ScratchRoot, cfg.Workspace.CloneTimeout, providers.Logger),
		Triage:    triage.NewScanner(cfg.Limits.MaxFiles),
		ProjectLoader: project.NewLoader(
			cfg.Limits.MaxProjects, cfg.Limits.MaxDocumentsPerProject, cfg.Limits.MaxTotalTextBytes,
		),
		Resolver:   csharp.NewResolver(cfg.Limits.MaxEdges, providers.Logger),
		Aggregator: aggregator.New(providers.Logger),
		Metrics:    metrics.NewComputer(),
		Cycles:     cycles.NewDetector(),
		Assembler:  assembler.NewAssembler(),
		Logger:     providers.Logger,
	}

	return pipeline.NewPipeline(deps)
}
