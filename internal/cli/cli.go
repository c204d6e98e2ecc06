// Package internalcli wires the swgen command line to the configuration, builder, resolver and renderer.
package internalcli

import (
	"context"

	"github.com/leodido/swgen/builder"
	"github.com/leodido/swgen/config"
	internallogging "github.com/leodido/swgen/internal/logging"
	internaloutput "github.com/leodido/swgen/internal/output"
	"github.com/leodido/swgen/prompt"
	"github.com/leodido/swgen/render"
	"github.com/leodido/swgen/resolve"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewRootC creates the swgen command working on fs.
func NewRootC(fs afero.Fs) (*cobra.Command, error) {
	opts := &Options{}
	var v *viper.Viper

	rootC := &cobra.Command{
		Use:   "swgen",
		Short: "Generate a service worker precaching the files of a website",
		Long: `Generate a service worker script precaching the files of a website.

The files come from a configuration file (--config) or from an interactive
exploration of the website directory (--root-path).
Every flag can also be set with a SWGEN_ prefixed environment variable.`,
		Example: `  swgen --config swgen.json
  swgen --root-path ./public --save-config swgen.json --output public/sw.js
  SWGEN_ROOT_PATH=./public swgen --prompt line`,
		Args: cobra.NoArgs,
		PreRunE: func(c *cobra.Command, args []string) error {
			var err error
			if v, err = newViper(c); err != nil {
				return err
			}
			if err := Unmarshal(c.Context(), v, opts); err != nil {
				return err
			}
			syncMandatoryFlags(c, v)

			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			c.SilenceUsage = true
			if isDebugActive(v) {
				useDebug(c.OutOrStdout(), v, opts)

				return nil
			}

			logger, cleanup, err := internallogging.New(internallogging.Options{
				Level:   opts.LogLevel,
				Console: c.ErrOrStderr(),
				File:    opts.LogFile,
			})
			if err != nil {
				return err
			}
			defer cleanup()

			// Errors are reported by the logger from now on
			c.SilenceErrors = true
			if err := run(c.Context(), c, fs, opts, logger); err != nil {
				logger.Error("Couldn't generate the service worker", zap.Error(err))

				return err
			}

			return nil
		},
	}

	if err := opts.Attach(rootC); err != nil {
		return nil, err
	}
	defineDebug(rootC)
	setupUsage(rootC)

	return rootC, nil
}

func run(ctx context.Context, c *cobra.Command, fs afero.Fs, opts *Options, logger *zap.Logger) error {
	cfg, err := configuration(ctx, c, fs, opts, logger)
	if err != nil {
		return err
	}

	files, err := resolve.New(fs, logger).Resolve(ctx, cfg)
	if err != nil {
		return err
	}

	script, err := render.Renderer{CacheName: opts.CacheName}.Render(files)
	if err != nil {
		return err
	}
	if err := internaloutput.Write(fs, opts.Output, []byte(script)); err != nil {
		return err
	}
	logger.Info("Service worker generated", zap.String("output", opts.Output), zap.Int("files", len(files)))

	return nil
}

// configuration loads the configuration file when given, otherwise it builds one interactively.
func configuration(ctx context.Context, c *cobra.Command, fs afero.Fs, opts *Options, logger *zap.Logger) (config.Configuration, error) {
	if opts.Config != "" {
		if opts.RootPath != "" {
			logger.Info("Configuration file given, ignoring the root path", zap.String("config", opts.Config), zap.String("root-path", opts.RootPath))
		}
		if opts.SaveConfig != "" {
			logger.Warn("Configuration file given, nothing to save", zap.String("save-config", opts.SaveConfig))
		}

		return config.NewLoader(fs, logger).Load(opts.Config)
	}

	cfg, err := builder.New(fs, newPrompter(c, opts, logger), logger).Build(ctx, opts.RootPath)
	if err != nil {
		return config.Configuration{}, err
	}
	if opts.SaveConfig != "" {
		if err := config.Save(fs, opts.SaveConfig, cfg); err != nil {
			return config.Configuration{}, err
		}
		logger.Info("Configuration saved", zap.String("path", opts.SaveConfig))
	}

	return cfg, nil
}

func newPrompter(c *cobra.Command, opts *Options, logger *zap.Logger) prompt.Prompter {
	in := c.InOrStdin()

	mode := opts.Prompt
	if mode == PromptAuto {
		mode = PromptLine
		if prompt.IsTerminal(in) {
			mode = PromptTTY
		}
	}
	logger.Debug("Prompting for selections", zap.Stringer("mode", mode))

	if mode == PromptTTY {
		p := prompt.NewTTYPrompter(in, c.OutOrStdout(), logger)
		p.Accessible = opts.Accessible

		return p
	}
	p := prompt.NewLinePrompter(in, c.OutOrStdout(), logger)
	p.MaxAttempts = opts.MaxAttempts

	return p
}
