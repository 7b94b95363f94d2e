// Package mcp implements a Model Context Protocol server exposing the
// CodeAtlas analysis pipeline as a single MCP tool over stdio transport.
package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolNameAnalyze is the name under which the repository-analysis tool is registered.
const ToolNameAnalyze = "analyze_repository"

// Sentinel errors for tool input validation.
var (
	ErrEmptyRepoURL = errors.New("repo_url parameter is required and must not be empty")
)

// AnalyzeRepositoryInput is the input schema for the analyze_repository tool.
type AnalyzeRepositoryInput struct {
	RepoURL string `json:"repo_url"          jsonschema:"URL of the repository to analyze"`
	Branch  string `json:"branch,omitempty"  jsonschema:"branch to fetch; defaults to the remote's default branch"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func validateAnalyzeInput(in AnalyzeRepositoryInput) error {
	if in.RepoURL == "" {
		return ErrEmptyRepoURL
	}

	return nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
