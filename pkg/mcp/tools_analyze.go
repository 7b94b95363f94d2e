package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Iovva/codeatlas/internal/pipeline"
)

// Runner runs the analysis pipeline once for a repository URL/branch pair.
// Satisfied by *pipeline.Pipeline in production and a stub in tests.
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

func handleAnalyze(
	runner Runner,
) func(context.Context, *mcpsdk.CallToolRequest, AnalyzeRepositoryInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return func(
		ctx context.Context, _ *mcpsdk.CallToolRequest, input AnalyzeRepositoryInput,
	) (*mcpsdk.CallToolResult, ToolOutput, error) {
		if err := validateAnalyzeInput(input); err != nil {
			return errorResult(err)
		}

		result, err := runner.Run(ctx, pipeline.Options{
			RepoURL: input.RepoURL,
			Branch:  input.Branch,
		})
		if err != nil {
			return errorResult(fmt.Errorf("analyze %s: %w", input.RepoURL, err))
		}

		return jsonResult(result.Report)
	}
}
