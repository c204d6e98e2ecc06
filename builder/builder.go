// Package builder creates configurations by walking a directory tree and
// asking the operator which entries to include at every level.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/leodido/swgen/config"
	swgenerrors "github.com/leodido/swgen/errors"
	"github.com/leodido/swgen/prompt"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultMaxDepth is the deepest directory level explored below the root.
const DefaultMaxDepth = 64

// RecurseSuffix is appended to a selected directory to include its direct children.
const RecurseSuffix = "/*"

// Builder explores a directory tree depth-first.
//
// Parents are prompted before their children and a selected directory is
// explored before its later siblings.
type Builder struct {
	Fs       afero.Fs
	Prompter prompt.Prompter
	Logger   *zap.Logger
	// MaxDepth bounds the nesting below the root (0 means DefaultMaxDepth).
	MaxDepth int
}

// New creates a builder.
func New(fs afero.Fs, p prompt.Prompter, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Builder{
		Fs:       fs,
		Prompter: p,
		Logger:   logger,
		MaxDepth: DefaultMaxDepth,
	}
}

// frame is one directory whose selected entries are being visited.
type frame struct {
	dir      string
	rel      string
	depth    int
	selected []prompt.Entry
	next     int
}

// Build returns a configuration rooted at root with the include patterns the operator selected.
func (b *Builder) Build(ctx context.Context, root string) (config.Configuration, error) {
	isDir, err := afero.IsDir(b.Fs, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Configuration{}, swgenerrors.NewNotFoundError("root path", root)
		}

		return config.Configuration{}, fmt.Errorf("couldn't access root path %s: %w", root, err)
	}
	if !isDir {
		return config.Configuration{}, swgenerrors.NewNotFoundError("root directory", root)
	}

	cfg := config.New(root)
	maxDepth := b.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var stack []*frame
	enter := func(dir, rel string, depth int) error {
		entries, err := b.list(dir)
		if err != nil {
			if errors.Is(err, swgenerrors.ErrPermission) {
				b.Logger.Warn("Permission denied, skipping", zap.String("dir", dir))

				return nil
			}

			return err
		}
		if len(entries) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		sel, err := b.Prompter.Select(ctx, dir, entries)
		if err != nil {
			return err
		}
		stack = append(stack, &frame{dir: dir, rel: rel, depth: depth, selected: sel.Apply(entries)})

		return nil
	}

	if err := enter(root, "", 0); err != nil {
		return config.Configuration{}, err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.selected) {
			stack = stack[:len(stack)-1]

			continue
		}
		entry := top.selected[top.next]
		top.next++

		rel := path.Join(top.rel, entry.Name)
		if !entry.Dir {
			cfg.Include = append(cfg.Include, rel)

			continue
		}

		cfg.Include = append(cfg.Include, rel+RecurseSuffix)
		if top.depth+1 > maxDepth {
			b.Logger.Warn("Maximum depth reached, not exploring", zap.String("dir", rel), zap.Int("depth", maxDepth))

			continue
		}
		if err := enter(filepath.Join(top.dir, entry.Name), rel, top.depth+1); err != nil {
			return config.Configuration{}, err
		}
	}

	b.Logger.Info("Configuration generated interactively", zap.String("root", root), zap.Int("include", len(cfg.Include)))

	return cfg, nil
}

// list returns the direct children of dir sorted by name.
//
// Symbolic links are listed as leaves and never entered.
func (b *Builder) list(dir string) ([]prompt.Entry, error) {
	infos, err := afero.ReadDir(b.Fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, swgenerrors.NewPermissionError(dir, err)
		}

		return nil, fmt.Errorf("couldn't list %s: %w", dir, err)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})

	entries := make([]prompt.Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, prompt.Entry{
			Name: info.Name(),
			Dir:  info.IsDir(),
		})
	}

	return entries, nil
}
