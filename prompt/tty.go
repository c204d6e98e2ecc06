package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	swgenerrors "github.com/leodido/swgen/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// TTYPrompter shows a multi-select list on a terminal.
type TTYPrompter struct {
	In  io.Reader
	Out io.Writer
	// Accessible asks for numbered line input instead of redrawing the terminal (eg., for screen readers).
	Accessible bool
	Logger     *zap.Logger
}

// NewTTYPrompter creates a terminal prompter.
func NewTTYPrompter(in io.Reader, out io.Writer, logger *zap.Logger) *TTYPrompter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TTYPrompter{In: in, Out: out, Logger: logger}
}

// Select implements Prompter.
func (p *TTYPrompter) Select(ctx context.Context, dir string, entries []Entry) (Selection, error) {
	options := make([]huh.Option[int], 0, len(entries))
	for i, e := range entries {
		options = append(options, huh.NewOption(fmt.Sprintf("%d. %s", i+1, e), i))
	}

	var selected []int
	field := huh.NewMultiSelect[int]().
		Title(fmt.Sprintf("Add from %s (space to toggle, ctrl+a for all)", dir)).
		Options(options...).
		Value(&selected)

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(p.In).
		WithOutput(p.Out).
		WithAccessible(p.Accessible)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return Selection{}, fmt.Errorf("%w: %w", swgenerrors.ErrSelectionCancelled, err)
		}

		return Selection{}, fmt.Errorf("prompt failed: %w", err)
	}

	sel := Selection{Indices: selected}
	if len(selected) == len(entries) {
		sel = Selection{All: true}
	}
	p.Logger.Info("Selected entries", zap.String("dir", dir), zap.Strings("entries", names(sel.Apply(entries))))

	return sel, nil
}

// IsTerminal reports whether r is a terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
