// Package prompt asks the operator which directory entries to include.
//
// A Prompter yields either a validated Selection or an error: implementations must
// not loop forever on invalid input, so that non-interactive runs terminate.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	swgenerrors "github.com/leodido/swgen/errors"
)

// Entry is one direct child of the directory being explored.
type Entry struct {
	Name string
	Dir  bool
}

// String returns the name as listed to the operator, directories marked with a trailing slash.
func (e Entry) String() string {
	if e.Dir {
		return e.Name + "/"
	}

	return e.Name
}

// Selection is the operator choice for one directory.
type Selection struct {
	// All selects every entry.
	All bool
	// Indices are 0-based, in range, without duplicates, in input order.
	Indices []int
}

// Apply returns the selected entries.
func (s Selection) Apply(entries []Entry) []Entry {
	if s.All {
		return entries
	}
	ret := make([]Entry, 0, len(s.Indices))
	for _, i := range s.Indices {
		if i >= 0 && i < len(entries) {
			ret = append(ret, entries[i])
		}
	}

	return ret
}

// Prompter asks which of the entries of dir to include.
//
// The context is cancelled when the selection is no longer needed.
type Prompter interface {
	Select(ctx context.Context, dir string, entries []Entry) (Selection, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, dir string, entries []Entry) (Selection, error)

func (f PrompterFunc) Select(ctx context.Context, dir string, entries []Entry) (Selection, error) {
	return f(ctx, dir, entries)
}

// ParseSelection interprets one line of operator input for a listing of count entries.
//
// It accepts "a" or "all" (case-insensitive), or a comma-separated list of 1-based numbers.
// Numbers outside [1, count] are dropped, even when they overflow an int; duplicates are kept once.
func ParseSelection(raw string, count int) (Selection, error) {
	input := strings.ToLower(strings.TrimSpace(raw))
	if input == "a" || input == "all" {
		return Selection{All: true}, nil
	}

	parts := strings.Split(input, ",")
	indices := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(strings.TrimSpace(part))
		if errors.Is(err, strconv.ErrRange) {
			continue
		}
		if err != nil {
			return Selection{}, swgenerrors.NewInvalidSelectionError(strings.TrimSpace(raw), fmt.Sprintf("'%s' is not a number", strings.TrimSpace(part)))
		}
		i := num - 1
		if i < 0 || i >= count || seen[i] {
			continue
		}
		seen[i] = true
		indices = append(indices, i)
	}

	return Selection{Indices: indices}, nil
}
