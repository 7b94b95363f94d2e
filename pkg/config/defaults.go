// Package config provides YAML-based project configuration for codeatlas.
package config

// Workspace defaults.
const (
	DefaultGitBinary    = "git"
	DefaultCloneTimeout = "120s"
	DefaultMaxFileSize  = "10MB"
)

// Limits defaults.
const (
	DefaultMaxFiles               = 100_000
	DefaultMaxProjects            = 10
	DefaultMaxDocumentsPerProject = 50
	DefaultMaxTotalTextBytes      = 200 << 20 // 200 MiB.
	DefaultMaxEdges               = 150_000
)
