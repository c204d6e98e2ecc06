package internalcli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const flagDebugOptions = "debug-options"

// defineDebug adds the flag printing the resolved options instead of running.
//
// It is also enabled by SWGEN_DEBUG_OPTIONS.
func defineDebug(c *cobra.Command) {
	c.Flags().Bool(flagDebugOptions, false, "print the resolved options and exit")
}

func isDebugActive(v *viper.Viper) bool {
	return v.GetBool(flagDebugOptions)
}

func useDebug(w io.Writer, v *viper.Viper, o *Options) {
	v.DebugTo(w)
	fmt.Fprintf(w, "Values:\n%#v\n", *o)
}
