package filtering

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/cpscan/cpscan/internal/config"
	sourcefs "github.com/cpscan/cpscan/internal/infra/fs"
	ctxutil "github.com/cpscan/cpscan/internal/observability/context"
	"github.com/cpscan/cpscan/internal/observability/logging"
	"github.com/cpscan/cpscan/internal/types"
)

// DiscoveryOptions holds command-line overrides for discovery.
type DiscoveryOptions struct {
	ExcludePatterns []string
	Logger          logging.Logger
}

// Discovery is the ordered list of files to scan.
type Discovery struct {
	Root          string
	SourceType    types.SourceType
	Files         []string
	PatternErrors []PatternError
	// WalkErrors holds directories or files that could not be listed.
	WalkErrors []error
}

// DiscoverFiles walks root in lexical order and returns every file of
// sourceType that survives the profile's filters. A missing root is an
// error; unreadable entries below it are recorded and skipped.
func DiscoverFiles(root string, sourceType types.SourceType, opts DiscoveryOptions, profile config.Profile) (Discovery, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	ctx := ctxutil.WithSourceType(ctxutil.WithComponent(context.Background(), "discovery"), sourceType.String())

	engine := NewFileFilterEngine(sourceType, profile).WithCommandLineExcludes(opts.ExcludePatterns...)
	discovery := Discovery{
		Root:          root,
		SourceType:    sourceType,
		Files:         []string{},
		PatternErrors: engine.PatternErrors(),
	}
	for _, pe := range discovery.PatternErrors {
		logger.Warn(ctx, "dropping malformed pattern", "source", pe.Source, "pattern", pe.Pattern)
	}

	info, err := sourcefs.GetFileInfo(root).Value()
	if err != nil {
		return discovery, fmt.Errorf("source root %s: %w", root, err)
	}
	if !info.IsDir {
		if engine.ShouldInclude(filepath.Base(root)).Include {
			discovery.Files = append(discovery.Files, root)
		}
		return discovery, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			discovery.WalkErrors = append(discovery.WalkErrors, walkErr)
			logger.Warn(ctx, "skipping unreadable entry", "path", path, "error", walkErr.Error())
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if decision := engine.ShouldDescend(rel); !decision.Include {
				logger.Debug(ctx, "skipping folder", "path", rel, "decision", decision.String())
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if decision := engine.ShouldInclude(rel); decision.Include {
			discovery.Files = append(discovery.Files, path)
		} else if decision.Rule != RuleSourceType {
			logger.Debug(ctx, "skipping file", "path", rel, "decision", decision.String())
		}
		return nil
	})
	if err != nil {
		return discovery, fmt.Errorf("walk %s: %w", root, err)
	}

	logger.Info(ctx, "discovered source files", "root", root, "files", len(discovery.Files))
	return discovery, nil
}
