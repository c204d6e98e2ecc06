// Package options defines the contracts of the option sets bound to commands.
package options

import (
	"context"

	"github.com/spf13/cobra"
)

// Options are directly attachable to cobra.Command instances.
type Options interface {
	Attach(*cobra.Command) error
}

// ValidatableOptions report every invalid value at once.
type ValidatableOptions interface {
	Validate(context.Context) []error
}

// TransformableOptions normalise their values before validation.
type TransformableOptions interface {
	Transform(context.Context) error
}
