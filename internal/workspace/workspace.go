// Package workspace implements stage 1: materializing a shallow, single
// branch checkout of a remote repository on local disk, and resolving its
// HEAD commit.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Iovva/codeatlas/internal/pipeline"
)

// allowed URL schemes for the clone source.
var allowedSchemes = map[string]bool{
	"https": true,
	"http":  true,
	"ssh":   true,
	"git":   true,
}

// Manager fetches repositories into a scratch directory using the configured
// git binary, and resolves commits with libgit2 once the checkout exists.
type Manager struct {
	gitBinary    string
	scratchRoot  string
	cloneTimeout time.Duration
	logger       *slog.Logger
}

// NewManager creates a Manager. gitBinary is looked up on PATH if not
// absolute; scratchRoot empty means the OS temp directory.
func NewManager(gitBinary, scratchRoot string, cloneTimeout time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{gitBinary: gitBinary, scratchRoot: scratchRoot, cloneTimeout: cloneTimeout, logger: logger}
}

// Fetch performs a depth-1, single-branch clone of repoURL into a fresh
// scratch directory and resolves the checked-out HEAD commit. branch empty
// fetches the remote's default branch via a HEAD symref lookup.
func (m *Manager) Fetch(ctx context.Context, repoURL, branch string) (dir, resolvedBranch, commit string, err error) {
	repoURL, err = normalizeURL(repoURL)
	if err != nil {
		return "", "", "", pipeline.NewCloneFailed("unsupported repository URL", err)
	}

	dir, err = os.MkdirTemp(m.scratchRoot, "codeatlas-*")
	if err != nil {
		return "", "", "", pipeline.NewInternalError(fmt.Errorf("create scratch dir: %w", err))
	}

	cloneCtx, cancel := context.WithTimeout(ctx, m.cloneTimeout)
	defer cancel()

	if err := m.clone(cloneCtx, repoURL, branch, dir); err != nil {
		_ = os.RemoveAll(dir)

		if cloneCtx.Err() != nil {
			return "", "", "", pipeline.NewTimeout("clone")
		}

		return "", "", "", pipeline.NewCloneFailed(classifyCloneFailure(err.Error()), err)
	}

	resolvedBranch = branch
	if resolvedBranch == "" {
		resolvedBranch, err = m.currentBranch(ctx, dir)
		if err != nil {
			_ = os.RemoveAll(dir)
			return "", "", "", pipeline.NewInternalError(fmt.Errorf("resolve default branch: %w", err))
		}
	}

	commit, err = m.resolveHead(dir)
	if err != nil {
		m.logger.Warn("commit identity unavailable, continuing without it", "dir", dir, "error", err)
		commit = ""
	}

	return dir, resolvedBranch, commit, nil
}

// Release removes the scratch checkout. Idempotent: removing an
// already-removed directory is not an error.
func (m *Manager) Release(dir string) error {
	if dir == "" {
		return nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove scratch dir %s: %w", dir, err)
	}

	return nil
}

func (m *Manager) clone(ctx context.Context, repoURL, branch, dir string) error {
	args := []string{"clone", "--depth", "1", "--no-tags", "--single-branch"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}

	args = append(args, repoURL, dir)

	cmd := exec.CommandContext(ctx, m.gitBinary, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	out, err := cmd.CombinedOutput()
	if err != nil {
		if isLongPathCheckoutOnlyFailure(string(out)) {
			return nil
		}

		return fmt.Errorf("%s: %w", strings.TrimSpace(string(out)), err)
	}

	return nil
}

// classifyCloneFailure maps a git clone's combined output to one of the
// user-facing reasons a transport layer would want to distinguish: the
// remote either doesn't exist, rejected credentials, or was unreachable.
// Anything not matching a known pattern is reported as "other" rather than
// guessed at.
func classifyCloneFailure(output string) string {
	lower := strings.ToLower(output)

	switch {
	case strings.Contains(lower, "not found"),
		strings.Contains(lower, "repository not found"),
		strings.Contains(lower, "does not exist"):
		return "not-found"
	case strings.Contains(lower, "permission denied"),
		strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "could not read username"),
		strings.Contains(lower, "access denied"),
		strings.Contains(lower, "403"):
		return "permission-denied"
	case strings.Contains(lower, "could not resolve host"),
		strings.Contains(lower, "network is unreachable"),
		strings.Contains(lower, "unable to access"),
		strings.Contains(lower, "could not connect"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "connection timed out"):
		return "network-failure"
	default:
		return "other"
	}
}

// isLongPathCheckoutOnlyFailure reports whether a non-zero clone exit is
// explained entirely by filesystem path-length checkout failures on an
// otherwise-successful fetch. Any other
// line in the error stream disqualifies the match.
func isLongPathCheckoutOnlyFailure(output string) bool {
	lines := strings.Split(strings.TrimSpace(output), "\n")

	sawPathFailure := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, "Filename too long"),
			strings.Contains(line, "unable to create file") && strings.Contains(line, "File name too long"),
			strings.Contains(line, "path too long"):
			sawPathFailure = true
		case strings.HasPrefix(line, "Cloning into"):
			// informational
		default:
			return false
		}
	}

	return sawPathFailure
}

func (m *Manager) currentBranch(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, m.gitBinary, "-C", dir, "symbolic-ref", "--short", "HEAD")

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("symbolic-ref HEAD: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// resolveHead opens the freshly cloned checkout with libgit2 and reads the
// full commit id HEAD points at. CodeAtlas only ever needs this one fact
// about the checkout, so it talks to git2go directly rather than through a
// general-purpose repository wrapper.
func (m *Manager) resolveHead(dir string) (string, error) {
	repo, err := git2go.OpenRepository(dir)
	if err != nil {
		return "", fmt.Errorf("open checkout: %w", err)
	}
	defer repo.Free()

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	defer ref.Free()

	return ref.Target().String(), nil
}

// normalizeURL accepts a repository URL and prepends
// https:// when it lacks a recognized transport scheme. SCP-style ssh URLs
// (git@host:path) pass through untouched since git understands them
// natively. An unparseable URL or one with an unsupported scheme is
// rejected.
func normalizeURL(repoURL string) (string, error) {
	if strings.Contains(repoURL, "@") && !strings.Contains(repoURL, "://") {
		return repoURL, nil
	}

	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	if parsed.Scheme == "" {
		return "https://" + repoURL, nil
	}

	if !allowedSchemes[strings.ToLower(parsed.Scheme)] {
		return "", fmt.Errorf("scheme %q is not supported", parsed.Scheme)
	}

	return repoURL, nil
}
