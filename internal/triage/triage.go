// Package triage implements stage 2: locating which manifest files govern a
// checkout, or failing with language evidence when none exist.
package triage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/src-d/enry/v2"

	"github.com/Iovva/codeatlas/internal/pipeline"
)

const evidenceSampleSize = 20

// Scanner walks a checkout looking for .sln/.csproj manifests.
type Scanner struct {
	maxFiles int
}

// NewScanner creates a Scanner bounded by maxFiles.
func NewScanner(maxFiles int) *Scanner {
	return &Scanner{maxFiles: maxFiles}
}

// Locate returns the manifest paths to load: a root .sln wins outright;
// otherwise the single .sln picked by depth-first lexicographic order
// across the whole tree; otherwise every .csproj found the same way.
// Returns NoSolutionOrProject, carrying language evidence gathered along
// the way, if neither exists.
func (s *Scanner) Locate(ctx context.Context, dir string) ([]string, error) {
	var (
		solutions []string
		projects  []string
		languages = map[string]int{}
		sampled   []string
		seen      int
	)

	if root, err := os.ReadDir(dir); err == nil {
		for _, entry := range root {
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".sln") {
				return []string{filepath.Join(dir, entry.Name())}, nil
			}
		}
	}

	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort walk; unreadable entries are skipped
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if path != dir && enry.IsVendor(relOrSelf(dir, path)) {
				return filepath.SkipDir
			}

			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".sln":
			solutions = append(solutions, path)
		case ".csproj":
			projects = append(projects, path)
		case ".cs":
			seen++
			if seen > s.maxFiles {
				return pipeline.NewLimitsExceeded(fmt.Sprintf(
					"source file count exceeds the configured cap of %s files",
					humanize.Comma(int64(s.maxFiles)),
				))
			}
		default:
			if len(sampled) < evidenceSampleSize {
				if lang := enry.GetLanguage(filepath.Base(path), nil); lang != "" {
					languages[lang]++
					sampled = append(sampled, relOrSelf(dir, path))
				}
			}
		}

		return nil
	})
	if walkErr != nil {
		if perr, ok := walkErr.(*pipeline.Error); ok {
			return nil, perr
		}

		return nil, pipeline.NewInternalError(walkErr)
	}

	sort.Strings(solutions)
	if len(solutions) > 0 {
		return solutions[:1], nil
	}

	sort.Strings(projects)
	if len(projects) > 0 {
		return projects, nil
	}

	return nil, pipeline.NewNoSolutionOrProject(topLanguages(languages), sampled)
}

func relOrSelf(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}

	return rel
}

func topLanguages(counts map[string]int) []string {
	type entry struct {
		lang  string
		count int
	}

	entries := make([]entry, 0, len(counts))
	for lang, count := range counts {
		entries = append(entries, entry{lang, count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}

		return entries[i].lang < entries[j].lang
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.lang
	}

	return out
}
