package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	swgenerrors "github.com/leodido/swgen/errors"
	"go.uber.org/zap"
)

// DefaultMaxAttempts is the number of invalid inputs tolerated for a single directory.
const DefaultMaxAttempts = 5

const separator = "-------------------"

// LinePrompter prints a numbered listing and reads one line of input per directory.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
	// MaxAttempts bounds the invalid inputs per directory (0 means unbounded).
	MaxAttempts int
	Logger      *zap.Logger
}

// NewLinePrompter creates a prompter reading selections from in and writing listings to out.
func NewLinePrompter(in io.Reader, out io.Writer, logger *zap.Logger) *LinePrompter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LinePrompter{
		in:          bufio.NewReader(in),
		out:         out,
		MaxAttempts: DefaultMaxAttempts,
		Logger:      logger,
	}
}

// Select implements Prompter.
//
// Invalid input is reported and asked again. It returns an error wrapping errors.ErrSelectionCancelled
// when the input ends or the attempts are exhausted.
func (p *LinePrompter) Select(ctx context.Context, dir string, entries []Entry) (Selection, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Selection{}, fmt.Errorf("%w: %w", swgenerrors.ErrSelectionCancelled, err)
		}

		p.list(dir, entries)

		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			if errors.Is(err, io.EOF) {
				return Selection{}, fmt.Errorf("%w: no input for %s", swgenerrors.ErrSelectionCancelled, dir)
			}

			return Selection{}, fmt.Errorf("couldn't read selection: %w", err)
		}

		sel, err := ParseSelection(line, len(entries))
		if err == nil {
			p.Logger.Info("Selected entries", zap.String("dir", dir), zap.Strings("entries", names(sel.Apply(entries))))

			return sel, nil
		}

		p.Logger.Warn("Invalid input", zap.String("dir", dir), zap.Error(err))
		fmt.Fprintln(p.out, "Invalid input. Please try again.")

		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return Selection{}, fmt.Errorf("%w: %d invalid inputs for %s", swgenerrors.ErrSelectionCancelled, attempt, dir)
		}
	}
}

func (p *LinePrompter) list(dir string, entries []Entry) {
	var sb strings.Builder
	sb.WriteString(dir)
	sb.WriteString("\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. ── %s\n", i+1, e))
	}
	sb.WriteString(separator)
	sb.WriteString("\n")
	sb.WriteString("Add: (A)ll or comma-separated numbers: ")

	fmt.Fprint(p.out, sb.String())
}

func names(entries []Entry) []string {
	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		ret = append(ret, e.String())
	}

	return ret
}
