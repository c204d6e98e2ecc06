package internalcli

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	swgenerrors "github.com/leodido/swgen/errors"
	internallogging "github.com/leodido/swgen/internal/logging"
	internaloutput "github.com/leodido/swgen/internal/output"
	"github.com/leodido/swgen/options"
	"github.com/leodido/swgen/prompt"
	"github.com/leodido/swgen/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes the environment variables mirroring the flags.
const EnvPrefix = "swgen"

const (
	flagConfig      = "config"
	flagRootPath    = "root-path"
	flagOutput      = "output"
	flagCacheName   = "cache-name"
	flagSaveConfig  = "save-config"
	flagPrompt      = "prompt"
	flagMaxAttempts = "max-attempts"
	flagAccessible  = "accessible"
	flagLogLevel    = "log-level"
	flagLogFile     = "log-file"
)

var _ options.Options = (*Options)(nil)
var _ options.ValidatableOptions = (*Options)(nil)
var _ options.TransformableOptions = (*Options)(nil)

// Options holds the values of the root command, from flags or environment.
type Options struct {
	Config      string        `mapstructure:"config" mod:"trim"`
	RootPath    string        `mapstructure:"root-path" mod:"trim"`
	Output      string        `mapstructure:"output" mod:"trim" validate:"required"`
	CacheName   string        `mapstructure:"cache-name" mod:"trim" validate:"required"`
	SaveConfig  string        `mapstructure:"save-config" mod:"trim"`
	Prompt      PromptMode    `mapstructure:"prompt" validate:"gte=0,lte=2"`
	MaxAttempts int           `mapstructure:"max-attempts" validate:"gte=0"`
	Accessible  bool          `mapstructure:"accessible"`
	LogLevel    zapcore.Level `mapstructure:"log-level"`
	LogFile     string        `mapstructure:"log-file" mod:"trim"`
}

// Attach defines the flags of o on c.
func (o *Options) Attach(c *cobra.Command) error {
	o.Output = internaloutput.DefaultFile
	o.CacheName = render.DefaultCacheName
	o.Prompt = PromptAuto
	o.MaxAttempts = prompt.DefaultMaxAttempts
	o.LogLevel = zapcore.InfoLevel
	o.LogFile = internallogging.DefaultFile

	f := c.Flags()
	f.StringVar(&o.Config, flagConfig, o.Config, "Configuration file listing the files to precache")
	f.StringVar(&o.RootPath, flagRootPath, o.RootPath, "Website directory to explore interactively")
	f.StringVar(&o.Output, flagOutput, o.Output, "Service worker file to write")
	f.StringVar(&o.CacheName, flagCacheName, o.CacheName, "Name of the cache opened by the service worker")
	f.StringVar(&o.SaveConfig, flagSaveConfig, o.SaveConfig, "Write the interactively built configuration to this file")
	definePromptMode(c, &o.Prompt, flagPrompt, "Selection prompt")
	f.IntVar(&o.MaxAttempts, flagMaxAttempts, o.MaxAttempts, "Invalid selections allowed per directory (0 means unbounded)")
	f.BoolVar(&o.Accessible, flagAccessible, o.Accessible, "Ask for numbered lines in the terminal prompt instead of redrawing it")
	defineZapcoreLevel(c, &o.LogLevel, flagLogLevel, "Set log level")
	f.StringVar(&o.LogFile, flagLogFile, o.LogFile, "Log file path (empty disables it)")

	for group, names := range map[string][]string{
		"Input":   {flagConfig, flagRootPath},
		"Prompt":  {flagPrompt, flagMaxAttempts, flagAccessible, flagSaveConfig},
		"Logging": {flagLogLevel, flagLogFile},
	} {
		for _, name := range names {
			if err := f.SetAnnotation(name, flagGroupAnnotation, []string{group}); err != nil {
				return err
			}
		}
	}
	_ = c.MarkFlagFilename(flagConfig, "json", "yaml", "yml", "toml")
	_ = c.MarkFlagDirname(flagRootPath)
	c.MarkFlagsOneRequired(flagConfig, flagRootPath)

	return nil
}

// Transform normalises the option values.
func (o *Options) Transform(ctx context.Context) error {
	return modifiers.New().Struct(ctx, o)
}

// Validate checks the option values.
func (o *Options) Validate(ctx context.Context) []error {
	var errs []error
	err := validator.New().StructCtx(ctx, o)
	if err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				errs = append(errs, fieldErr)
			}
		} else {
			errs = append(errs, fmt.Errorf("validator.Struct() failed unexpectedly: %w", err))
		}
	}
	if len(errs) == 0 {
		return nil
	}

	return errs
}

// newViper creates the viper instance binding the flags of c and their environment variables.
func newViper(c *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(c.Flags()); err != nil {
		return nil, err
	}

	return v, nil
}

// Unmarshal populates opts from v.
//
// Transformable options are transformed, then validatable options are validated.
func Unmarshal(ctx context.Context, v *viper.Viper, opts options.Options) error {
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		StringToZapcoreLevelHookFunc(),
		StringToPromptModeHookFunc(),
	))
	if err := v.Unmarshal(opts, decodeHook); err != nil {
		return err
	}

	if o, ok := opts.(options.TransformableOptions); ok {
		if err := o.Transform(ctx); err != nil {
			return err
		}
	}
	if o, ok := opts.(options.ValidatableOptions); ok {
		if errs := o.Validate(ctx); errs != nil {
			return swgenerrors.NewValidationError("options", errs)
		}
	}

	return nil
}

// syncMandatoryFlags tells cobra that a flag of a required group is present when its value comes from the environment.
func syncMandatoryFlags(c *cobra.Command, v *viper.Viper) {
	for _, name := range []string{flagConfig, flagRootPath} {
		if v.GetString(name) == "" {
			continue
		}
		if f := c.Flags().Lookup(name); f != nil {
			f.Changed = true
		}
	}
}
