package internalcli

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag/v2"
	"go.uber.org/zap/zapcore"
)

// PromptMode selects how directory listings are presented.
type PromptMode int

const (
	// PromptAuto uses the terminal prompter when the input is a terminal.
	PromptAuto PromptMode = iota
	PromptLine
	PromptTTY
)

var promptModes = map[PromptMode][]string{
	PromptAuto: {"auto"},
	PromptLine: {"line"},
	PromptTTY:  {"tty"},
}

var logLevels = map[zapcore.Level][]string{
	zapcore.DebugLevel: {"debug"},
	zapcore.InfoLevel:  {"info"},
	zapcore.WarnLevel:  {"warn"},
	zapcore.ErrorLevel: {"error"},
}

func (m PromptMode) String() string {
	if names, ok := promptModes[m]; ok {
		return names[0]
	}

	return fmt.Sprintf("PromptMode(%d)", int(m))
}

// enumValues lists the first name of each value, ordered by value.
func enumValues[E ~int | ~int8](mapping map[E][]string) string {
	keys := make([]int, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, mapping[E(k)][0])
	}

	return fmt.Sprintf(" {%s}", strings.Join(values, ","))
}

// defineZapcoreLevel defines an enum flag holding a log level, with shell completion.
func defineZapcoreLevel(c *cobra.Command, ref *zapcore.Level, name, descr string) {
	c.Flags().Var(enumflag.New(ref, "level", logLevels, enumflag.EnumCaseInsensitive), name, descr+enumValues(logLevels))
	_ = c.RegisterFlagCompletionFunc(name, complete(logLevels))
}

// definePromptMode defines an enum flag holding a prompt mode, with shell completion.
func definePromptMode(c *cobra.Command, ref *PromptMode, name, descr string) {
	c.Flags().Var(enumflag.New(ref, "mode", promptModes, enumflag.EnumCaseInsensitive), name, descr+enumValues(promptModes))
	_ = c.RegisterFlagCompletionFunc(name, complete(promptModes))
}

func complete[E ~int | ~int8](mapping map[E][]string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return strings.Split(strings.Trim(enumValues(mapping), " {}"), ","), cobra.ShellCompDirectiveNoFileComp
	}
}

// StringToZapcoreLevelHookFunc creates a decode hook that converts string values
// to zapcore.Level types during options unmarshaling.
func StringToZapcoreLevelHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(zapcore.DebugLevel) {
			return data, nil
		}

		level, err := zapcore.ParseLevel(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid string for zapcore.Level '%s': %w", data.(string), err)
		}

		return level, nil
	}
}

// StringToPromptModeHookFunc creates a decode hook that converts string values
// to PromptMode types during options unmarshaling.
func StringToPromptModeHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(PromptAuto) {
			return data, nil
		}

		raw := strings.ToLower(strings.TrimSpace(data.(string)))
		for mode, names := range promptModes {
			for _, name := range names {
				if raw == name {
					return mode, nil
				}
			}
		}

		return nil, fmt.Errorf("invalid prompt mode: %s (one of:%s)", data.(string), enumValues(promptModes))
	}
}
