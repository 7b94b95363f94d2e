// Package project implements stage 3: turning the manifest paths triage
// selected into a set of loaded projects and their accepted source
// documents.
package project

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Iovva/codeatlas/internal/model"
	"github.com/Iovva/codeatlas/internal/pipeline"
	"github.com/Iovva/codeatlas/pkg/textutil"
)

const sourceExtension = ".cs"

var testNameMarkers = []string{".tests", ".test", ".specs", ".spec", ".benchmarks"}

// Loader materializes projects and documents from manifest paths.
type Loader struct {
	maxProjects  int
	maxDocs      int
	maxTextBytes int64
}

// NewLoader creates a Loader bounded by project/document/text-size caps.
func NewLoader(maxProjects, maxDocsPerProject int, maxTextBytes int64) *Loader {
	return &Loader{maxProjects: maxProjects, maxDocs: maxDocsPerProject, maxTextBytes: maxTextBytes}
}

// Load expands manifestPaths (either .sln files or a .csproj set, per
// triage.Scanner.Locate's contract) into accepted projects and documents.
func (l *Loader) Load(
	ctx context.Context, dir string, manifestPaths []string,
) ([]*model.ProjectManifest, []*model.SourceDocument, error) {
	csprojPaths, err := l.expandManifests(manifestPaths)
	if err != nil {
		return nil, nil, err
	}

	var (
		projects  []*model.ProjectManifest
		documents []*model.SourceDocument
		totalText int64
	)

	for _, manifestPath := range csprojPaths {
		if ctx.Err() != nil {
			return nil, nil, pipeline.NewInternalError(ctx.Err())
		}

		manifest := l.buildManifest(manifestPath)
		if manifest.Excluded {
			continue
		}

		docs, textBytes, err := l.loadDocuments(dir, manifest)
		if err != nil {
			return nil, nil, err
		}

		if len(docs) == 0 {
			continue // empty projects are excluded, not reported
		}

		totalText += textBytes
		if totalText > l.maxTextBytes {
			return nil, nil, pipeline.NewLimitsExceeded(fmt.Sprintf(
				"decoded source text exceeds the configured cap of %s",
				humanize.Bytes(uint64(l.maxTextBytes)),
			))
		}

		if len(projects) >= l.maxProjects {
			return nil, nil, pipeline.NewLimitsExceeded(fmt.Sprintf(
				"project count exceeds the configured cap of %s projects",
				humanize.Comma(int64(l.maxProjects)),
			))
		}

		projects = append(projects, manifest)
		documents = append(documents, docs...)
	}

	if len(projects) == 0 {
		return nil, nil, pipeline.NewNoSuitableProjects()
	}

	return projects, documents, nil
}

// expandManifests turns a mix of .sln/.csproj inputs into a flat,
// deduplicated, sorted list of .csproj paths.
func (l *Loader) expandManifests(manifestPaths []string) ([]string, error) {
	seen := map[string]bool{}

	var csprojPaths []string

	for _, p := range manifestPaths {
		if strings.EqualFold(filepath.Ext(p), ".sln") {
			found, err := findProjectsUnder(filepath.Dir(p))
			if err != nil {
				return nil, pipeline.NewInternalError(err)
			}

			for _, f := range found {
				if !seen[f] {
					seen[f] = true
					csprojPaths = append(csprojPaths, f)
				}
			}

			continue
		}

		if !seen[p] {
			seen[p] = true
			csprojPaths = append(csprojPaths, p)
		}
	}

	sort.Strings(csprojPaths)

	return csprojPaths, nil
}

func findProjectsUnder(root string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csproj") {
			found = append(found, path)
		}

		return nil
	})

	return found, err
}

func (l *Loader) buildManifest(manifestPath string) *model.ProjectManifest {
	dir := filepath.Dir(manifestPath)
	name := strings.TrimSuffix(filepath.Base(manifestPath), filepath.Ext(manifestPath))

	manifest := &model.ProjectManifest{
		ManifestPath: manifestPath,
		Dir:          dir,
		Name:         name,
		Language:     "csharp",
		TargetTag:    readTargetFramework(manifestPath),
	}

	if isTestProject(name, dir) {
		manifest.Excluded = true
		manifest.ExcludeReason = "test project"
	}

	return manifest
}

func isTestProject(name, dir string) bool {
	lowerName := strings.ToLower(name)
	for _, marker := range testNameMarkers {
		if strings.HasSuffix(lowerName, marker) || strings.Contains(lowerName, marker) {
			return true
		}
	}

	for _, segment := range strings.Split(filepath.ToSlash(dir), "/") {
		lower := strings.ToLower(segment)
		if lower == "test" || lower == "tests" {
			return true
		}
	}

	return false
}

// csprojFile models just enough of the MSBuild project XML to recover the
// target framework moniker.
type csprojFile struct {
	PropertyGroups []struct {
		TargetFramework        string `xml:"TargetFramework"`
		TargetFrameworks       string `xml:"TargetFrameworks"`
		TargetFrameworkVersion string `xml:"TargetFrameworkVersion"`
	} `xml:"PropertyGroup"`
}

func readTargetFramework(manifestPath string) string {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return ""
	}

	var parsed csprojFile
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return ""
	}

	for _, pg := range parsed.PropertyGroups {
		switch {
		case pg.TargetFramework != "":
			return pg.TargetFramework
		case pg.TargetFrameworks != "":
			return strings.SplitN(pg.TargetFrameworks, ";", 2)[0]
		case pg.TargetFrameworkVersion != "":
			return pg.TargetFrameworkVersion
		}
	}

	return ""
}

func (l *Loader) loadDocuments(repoRoot string, manifest *model.ProjectManifest) ([]*model.SourceDocument, int64, error) {
	var (
		docs      []*model.SourceDocument
		textBytes int64
	)

	walkErr := filepath.WalkDir(manifest.Dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), sourceExtension) {
			return nil
		}

		if isGenerated(manifest.Dir, path) {
			return nil
		}

		if len(docs) >= l.maxDocs {
			return pipeline.NewLimitsExceeded(fmt.Sprintf(
				"document count per project exceeds the configured cap of %s documents",
				humanize.Comma(int64(l.maxDocs)),
			))
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil // unreadable file: skip rather than fail the whole run
		}

		if textutil.IsBinary(data) {
			return nil
		}

		rel, relErr := filepath.Rel(repoRoot, path)
		if relErr != nil {
			rel = path
		}

		docs = append(docs, &model.SourceDocument{
			AbsPath:     path,
			RepoRelPath: filepath.ToSlash(rel),
			Project:     manifest,
			Text:        data,
		})

		textBytes += int64(len(data))

		return nil
	})
	if walkErr != nil {
		if perr, ok := walkErr.(*pipeline.Error); ok {
			return nil, 0, perr
		}

		return nil, 0, pipeline.NewInternalError(walkErr)
	}

	return docs, textBytes, nil
}

func isGenerated(projectDir, path string) bool {
	rel, err := filepath.Rel(projectDir, path)
	if err != nil {
		rel = path
	}

	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if segment == "obj" || segment == "bin" {
			return true
		}
	}

	base := strings.ToLower(filepath.Base(path))

	return strings.HasSuffix(base, ".g.cs") ||
		strings.HasSuffix(base, ".generated.cs") ||
		strings.HasSuffix(base, ".designer.cs")
}
