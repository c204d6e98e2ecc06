// Package resolve expands the include patterns of a configuration into the
// files a service worker precaches.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/leodido/swgen/config"
	swgenerrors "github.com/leodido/swgen/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Resolver expands configurations against a filesystem.
type Resolver struct {
	Fs     afero.Fs
	Logger *zap.Logger
}

// New creates a resolver.
func New(fs afero.Fs, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{Fs: fs, Logger: logger}
}

// Resolve returns the root-relative, slash-separated paths of the regular files matched by the include patterns.
//
// Paths appear once, in the order of the first pattern matching them.
// Paths matched by any exclude pattern are dropped.
// Patterns matching nothing are not an error.
func (r *Resolver) Resolve(ctx context.Context, cfg config.Configuration) ([]string, error) {
	if errs := cfg.Validate(ctx); len(errs) > 0 {
		return nil, swgenerrors.NewValidationError("configuration", errs)
	}

	root, err := r.root(cfg.RootPath)
	if err != nil {
		return nil, err
	}
	fsys := afero.NewIOFS(afero.NewBasePathFs(r.Fs, root))

	excludes := make([]string, 0, len(cfg.Exclude))
	for _, raw := range cfg.Exclude {
		if pattern := config.NormalizePattern(raw); pattern != "" {
			excludes = append(excludes, pattern)
		}
	}

	files := []string{}
	seen := map[string]bool{}
	for i, raw := range cfg.Include {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pattern := config.NormalizePattern(raw)
		if pattern == "" {
			continue
		}
		if escapesRoot(pattern) {
			r.Logger.Warn("Skipping pattern outside the root path", zap.String("pattern", raw))

			continue
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", swgenerrors.NewInvalidPatternError(fmt.Sprintf("include[%d]", i), raw), err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := fs.Stat(fsys, match)
			if err != nil {
				r.Logger.Debug("Skipping unreadable match", zap.String("path", match), zap.Error(err))

				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			if excluded(excludes, match) {
				r.Logger.Debug("Excluding file", zap.String("path", match))

				continue
			}

			r.Logger.Debug("Including file", zap.String("path", match))
			files = append(files, match)
		}
	}

	r.Logger.Info("Total files included", zap.Int("count", len(files)))

	return files, nil
}

func (r *Resolver) root(rootPath string) (string, error) {
	root := filepath.Clean(rootPath)
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", fmt.Errorf("couldn't make root path %s absolute: %w", rootPath, err)
		}
		root = abs
	}

	isDir, err := afero.IsDir(r.Fs, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", swgenerrors.NewNotFoundError("root path", rootPath)
		}

		return "", fmt.Errorf("couldn't access root path %s: %w", rootPath, err)
	}
	if !isDir {
		return "", swgenerrors.NewNotFoundError("root directory", rootPath)
	}

	return root, nil
}

func escapesRoot(pattern string) bool {
	return slices.Contains(strings.Split(pattern, "/"), "..")
}

func excluded(patterns []string, file string) bool {
	for _, pattern := range patterns {
		// Patterns are validated upfront
		if ok, _ := doublestar.Match(pattern, file); ok {
			return true
		}
	}

	return false
}

// Resolve expands cfg against the OS filesystem.
func Resolve(ctx context.Context, cfg config.Configuration) ([]string, error) {
	return New(afero.NewOsFs(), nil).Resolve(ctx, cfg)
}
