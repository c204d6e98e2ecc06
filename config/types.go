package config

import (
	"context"
	"fmt"
	"path"
	"reflect"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	swgenerrors "github.com/leodido/swgen/errors"
	"github.com/leodido/swgen/options"
)

var _ options.ValidatableOptions = Configuration{}
var _ options.TransformableOptions = (*Configuration)(nil)

// Configuration describes what a generated service worker should cache.
//
// Every pattern is a slash-separated glob relative to RootPath.
type Configuration struct {
	// RootPath is the base directory for resolving all the patterns.
	RootPath string `json:"root_path" mapstructure:"root_path" mod:"trim" validate:"required"`
	// Include lists the patterns to pull into the file list, in order.
	Include []string `json:"include" mapstructure:"include" mod:"dive,trim" validate:"dive,glob"`
	// Exclude lists the patterns subtracted from the include results.
	Exclude []string `json:"exclude" mapstructure:"exclude" mod:"dive,trim" validate:"dive,glob"`
	// CacheOnInstall is reserved for tiered caching.
	CacheOnInstall []string `json:"cache_on_install" mapstructure:"cache_on_install" mod:"dive,trim" validate:"dive,glob"`
	// CacheOnDemand is reserved for tiered caching.
	CacheOnDemand []string `json:"cache_on_demand" mapstructure:"cache_on_demand" mod:"dive,trim" validate:"dive,glob"`
}

// New returns an empty configuration rooted at root.
func New(root string) Configuration {
	return Configuration{
		RootPath:       root,
		Include:        []string{},
		Exclude:        []string{},
		CacheOnInstall: []string{},
		CacheOnDemand:  []string{},
	}
}

// WithDefaults returns a copy of the configuration where missing lists are empty.
func (c Configuration) WithDefaults() Configuration {
	ret := c
	ret.Include = orEmpty(c.Include)
	ret.Exclude = orEmpty(c.Exclude)
	ret.CacheOnInstall = orEmpty(c.CacheOnInstall)
	ret.CacheOnDemand = orEmpty(c.CacheOnDemand)

	return ret
}

// Transform normalizes the configuration in place (eg., trimming whitespace around patterns).
func (c *Configuration) Transform(ctx context.Context) error {
	return modifiers.New().Struct(ctx, c)
}

// Validate checks the shape of the configuration.
//
// It does not touch the filesystem: the existence of RootPath is checked at resolution time.
func (c Configuration) Validate(ctx context.Context) []error {
	var errs []error
	err := validate.StructCtx(ctx, c)
	if err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrs {
				errs = append(errs, fromFieldError(fieldErr))
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

// NormalizePattern converts a pattern to the slash-separated, root-relative form the glob engine expects.
func NormalizePattern(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, `\`) {
		raw = strings.ReplaceAll(raw, `\`, `/`)
	}
	for strings.HasPrefix(raw, "./") {
		raw = strings.TrimPrefix(raw, "./")
	}
	raw = strings.TrimLeft(raw, "/")
	if raw == "" || raw == "." {
		return ""
	}
	if strings.Contains(raw, "//") || strings.Contains(raw, "/./") {
		raw = path.Clean(raw)
	}

	return raw
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their configuration key
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(NormalizePattern(fl.Field().String()))
	})

	return v
}

func fromFieldError(fieldErr validator.FieldError) error {
	switch fieldErr.Tag() {
	case "glob":
		return swgenerrors.NewInvalidPatternError(fieldErr.Field(), fmt.Sprint(fieldErr.Value()))
	case "required":
		return fmt.Errorf("field '%s': is required", fieldErr.Field())
	default:
		return fieldErr
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
