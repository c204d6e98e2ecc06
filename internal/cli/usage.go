package internalcli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	flagGroupAnnotation = "___leodido_swgen_flaggroups"
	localGroupID        = "<local>"
)

// groups organizes the local flags of c by their group annotation.
//
// Ungrouped flags go to the local group.
func groups(c *cobra.Command) map[string]*pflag.FlagSet {
	res := map[string]*pflag.FlagSet{}
	c.LocalFlags().VisitAll(func(f *pflag.Flag) {
		groupID := localGroupID
		if annotations, ok := f.Annotations[flagGroupAnnotation]; ok && len(annotations) > 0 {
			groupID = annotations[0]
		}
		if res[groupID] == nil {
			res[groupID] = pflag.NewFlagSet(c.Name(), pflag.ContinueOnError)
		}
		res[groupID].AddFlag(f)
	})

	return res
}

func flagUsages(f *pflag.FlagSet) string {
	return strings.TrimRight(f.FlagUsages(), " \n") + "\n"
}

// setupUsage prints the flags of c grouped by their annotation.
func setupUsage(c *cobra.Command) {
	c.SetUsageFunc(func(c *cobra.Command) error {
		var b strings.Builder

		b.WriteString("Usage:\n  ")
		b.WriteString(c.UseLine())
		b.WriteString("\n")

		if len(c.Example) > 0 {
			b.WriteString("\nExamples:\n")
			b.WriteString(c.Example)
			b.WriteString("\n")
		}

		groups := groups(c)
		if lFlags, ok := groups[localGroupID]; ok && lFlags.HasFlags() {
			b.WriteString("\nFlags:\n")
			b.WriteString(flagUsages(lFlags))
			delete(groups, localGroupID)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)
		for _, groupName := range groupKeys {
			if flags := groups[groupName]; flags.HasFlags() {
				b.WriteString(fmt.Sprintf("\n%s Flags:\n", groupName))
				b.WriteString(flagUsages(flags))
			}
		}

		_, err := c.OutOrStderr().Write([]byte(b.String()))

		return err
	})
}
